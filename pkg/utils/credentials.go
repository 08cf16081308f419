package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"

	"github.com/jakechorley/working-groups/internal/config"
)

// ScopeSheets grants read/write access to spreadsheets
const ScopeSheets = "https://www.googleapis.com/auth/spreadsheets"

// Environment variables consulted for service account credentials
const (
	EnvServiceAccountCredentials = "GOOGLE_SERVICE_ACCOUNT_CREDENTIALS"
	EnvApplicationCredentials    = "GOOGLE_APPLICATION_CREDENTIALS"
)

// ErrNoCredentials is returned when no service account key can be found
var ErrNoCredentials = errors.New("no service account credentials found")

// Credentials holds a validated service account key and where it came from
type Credentials struct {
	Key    *config.ServiceAccountKey
	JSON   []byte
	Source string
}

// FindCredentials locates a service account key. Sources are tried in order:
//  1. credentialsFile from the config
//  2. GOOGLE_SERVICE_ACCOUNT_CREDENTIALS (inline JSON or a path)
//  3. GOOGLE_APPLICATION_CREDENTIALS
//  4. the first service account *.json file in workDir
//
// An explicitly configured source that fails to load is an error; the directory scan
// silently skips files that are not service account keys.
func FindCredentials(credentialsFile, workDir string) (*Credentials, error) {
	if credentialsFile != "" {
		return loadCredentialsFile(credentialsFile, "config")
	}

	if value := strings.TrimSpace(os.Getenv(EnvServiceAccountCredentials)); value != "" {
		if strings.HasPrefix(value, "{") {
			key, err := config.ParseServiceAccountKey([]byte(value))
			if err != nil {
				return nil, fmt.Errorf("failed to load credentials from %s: %w", EnvServiceAccountCredentials, err)
			}
			return &Credentials{Key: key, JSON: []byte(value), Source: EnvServiceAccountCredentials}, nil
		}
		return loadCredentialsFile(value, EnvServiceAccountCredentials)
	}

	if path := os.Getenv(EnvApplicationCredentials); path != "" {
		return loadCredentialsFile(path, EnvApplicationCredentials)
	}

	creds, err := scanForCredentials(workDir)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, ErrNoCredentials
	}

	return creds, nil
}

// NewServiceAccountClient creates an HTTP client authorised as the service account
func NewServiceAccountClient(ctx context.Context, creds *Credentials, scopes ...string) (*http.Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(creds.JSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return jwtConfig.Client(ctx), nil
}

func loadCredentialsFile(path, source string) (*Credentials, error) {
	key, data, err := config.LoadServiceAccountKeyFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials from %s: %w", source, err)
	}

	return &Credentials{Key: key, JSON: data, Source: source + ":" + path}, nil
}

// scanForCredentials returns the first service account key in dir, or nil if there is none
func scanForCredentials(dir string) (*Credentials, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || isProjectFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		key, data, err := config.LoadServiceAccountKeyFromPath(path)
		if err != nil {
			continue
		}

		return &Credentials{Key: key, JSON: data, Source: "directory:" + path}, nil
	}

	return nil, nil
}

func isProjectFile(name string) bool {
	return strings.HasPrefix(name, "package") || strings.HasPrefix(name, "tsconfig")
}
