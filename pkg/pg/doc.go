// Package pg wires the PostgreSQL connection pool used by the account
// store: pgx pool construction with startup retries, a pool healthcheck,
// and goose schema migrations routed through the application logger.
package pg
