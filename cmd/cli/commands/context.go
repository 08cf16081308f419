package commands

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/clients/sheetsclient"
	"github.com/jakechorley/working-groups/pkg/core/services"
	"github.com/jakechorley/working-groups/pkg/db"
	"github.com/jakechorley/working-groups/pkg/metrics"
)

// ErrNoStore is returned by history commands when store.driver is none
var ErrNoStore = errors.New("no history store configured (set store.driver in the config)")

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env          string
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	Database     db.Database // nil when store.driver is none
	Metrics      metrics.Collector
	Registry     *prometheus.Registry
	Logger       *zap.Logger
	Ctx          context.Context
}

// historyWriter returns the store as a services.HistoryWriter, or a nil interface when none is configured
func (app *AppContext) historyWriter() services.HistoryWriter {
	if app.Database == nil {
		return nil
	}
	return app.Database
}

func (app *AppContext) historyReader() (services.HistoryReader, error) {
	if app.Database == nil {
		return nil, ErrNoStore
	}
	return app.Database, nil
}
