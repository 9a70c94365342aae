package db

import (
	"context"
	"database/sql"
	"fmt"

	"code.cloudfoundry.org/lager/v3"
)

type migration struct {
	version    string
	statements []string
}

var migrations = []migration{
	{
		version: "000_create_accounts",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				email         VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: "001_create_profiles",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS profiles (
				account_id     BIGINT UNSIGNED PRIMARY KEY,
				biological_sex VARCHAR(10) NOT NULL DEFAULT 'unknown',
				birth_date     DATE,
				height_meters  DOUBLE,
				updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		version: "002_create_readings",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS readings (
				id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				account_id  BIGINT UNSIGNED NOT NULL,
				metric_id   VARCHAR(64) NOT NULL,
				category    VARCHAR(32) NOT NULL,
				value       DOUBLE NOT NULL,
				secondary   DOUBLE NOT NULL DEFAULT 0,
				unit        VARCHAR(16) NOT NULL DEFAULT '',
				recorded_at DATETIME NOT NULL,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX idx_readings_account_metric ON readings (account_id, metric_id, recorded_at)`,
		},
	},
	{
		version: "003_create_preferences",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS preferences (
				account_id BIGINT UNSIGNED PRIMARY KEY,
				weights    JSON NOT NULL,
				preset     VARCHAR(32) NOT NULL DEFAULT '',
				version    BIGINT NOT NULL DEFAULT 0,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		version: "004_create_score_snapshots",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS score_snapshots (
				id                  CHAR(36) PRIMARY KEY,
				account_id          BIGINT UNSIGNED NOT NULL,
				body_score          DOUBLE NOT NULL,
				confidence_score    DOUBLE NOT NULL,
				category_scores     JSON NOT NULL,
				preferences_version BIGINT NOT NULL,
				taken_at            DATETIME(6) NOT NULL,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
			`CREATE INDEX idx_snapshots_account_taken ON score_snapshots (account_id, taken_at)`,
		},
	},
}

func RunMigrations(ctx context.Context, logger lager.Logger, db *sql.DB) error {
	logger = logger.Session("migrations")

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	ran := 0
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			logger.Error("failed-to-apply", err, lager.Data{"version": m.version})
			return err
		}
		logger.Info("applied", lager.Data{"version": m.version})
		ran++
	}

	logger.Debug("up-to-date", lager.Data{"ran": ran, "known": len(migrations)})
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// apply runs one migration and records it. MySQL commits DDL implicitly, so
// the transaction only guards the bookkeeping row.
func apply(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for i, stmt := range m.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run statement %d of %s: %w", i+1, m.version, err)
		}
	}

	if _, err = tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
