package pg

import "errors"

var (
	ErrFailedToParseConfig      = errors.New("pg: failed to parse connection string")
	ErrNotReady                 = errors.New("pg: database is not ready")
	ErrFailedToApplyMigrations  = errors.New("pg: failed to apply migrations")
	ErrMigrationPathNotProvided = errors.New("pg: migrations path not provided")
	ErrMigrationsDirNotFound    = errors.New("pg: migrations directory not found")
	ErrHealthcheckFailed        = errors.New("pg: healthcheck failed")
)
