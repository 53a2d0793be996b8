package config

import (
	"context"
	"database/sql"

	appconfig "github.com/crucial707/storyshare/internal/config"
	"github.com/crucial707/storyshare/internal/db"
)

// LoadEnv loads the env file (if present) into the process environment.
func LoadEnv(path string) error {
	return appconfig.LoadEnvFile(path)
}

// DSN is the database URL from the environment, the same one the web server uses.
func DSN() string {
	return appconfig.Load().DSN()
}

// OpenDB connects to the configured database. Tests replace it with a sqlmock-backed opener.
var OpenDB = func(ctx context.Context) (*sql.DB, error) {
	cfg := appconfig.Load()
	return db.Connect(ctx, cfg.DSN(), 2, 1)
}
