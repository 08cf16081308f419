package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServiceAccountKey represents the fields of a Google service account key file we rely on
type ServiceAccountKey struct {
	Type         string `json:"type" validate:"required,eq=service_account"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key" validate:"required"`
	ClientEmail  string `json:"client_email" validate:"required,email"`
	TokenURI     string `json:"token_uri" validate:"omitempty,url"`
}

// ParseServiceAccountKey parses and validates service account JSON
func ParseServiceAccountKey(data []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	if err := ValidateServiceAccountKey(&key); err != nil {
		return nil, err
	}

	return &key, nil
}

// LoadServiceAccountKeyFromPath loads and validates a service account key from a specific path
func LoadServiceAccountKeyFromPath(path string) (*ServiceAccountKey, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read service account key: %w", err)
	}

	key, err := ParseServiceAccountKey(data)
	if err != nil {
		return nil, nil, err
	}

	return key, data, nil
}

// ValidateServiceAccountKey validates the service account key
func ValidateServiceAccountKey(key *ServiceAccountKey) error {
	if err := validate.Struct(key); err != nil {
		return fmt.Errorf("service account key validation failed: %w", err)
	}

	return nil
}
