// Package database opens the MySQL pool backing the vote ledger and
// bootstraps the ledger schema on startup.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed schema.sql
var schemaSQL string

// Open connects to MySQL and verifies the connection before any handler can
// reach the pool.  loc=UTC keeps ballot timestamps comparable across
// replicas; the repository layer relies on utf8mb4 for its binary-collated
// username lookups.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// The write path is single-row ballot inserts; a modest pool rides out
	// election-day bursts without starving the tally reads.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies the embedded schema statement by statement.  Every
// CREATE is IF NOT EXISTS, so reruns are no-ops and a fresh database
// bootstraps itself on first start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range SchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// SchemaStatements splits the embedded schema into executable statements,
// dropping comment-only lines; the MySQL driver runs one statement per Exec.
func SchemaStatements() []string {
	out := []string{}
	for _, raw := range strings.Split(schemaSQL, ";") {
		lines := []string{}
		for _, line := range strings.Split(raw, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
