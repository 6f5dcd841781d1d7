package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables used by auth and the edit audit log.  Every
// statement is idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'VIEWER',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS seen_edits (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		row_id      INT             NOT NULL,
		column_name VARCHAR(64)     NOT NULL,
		old_value   BOOLEAN         NOT NULL,
		new_value   BOOLEAN         NOT NULL,
		created_at  DATETIME        NOT NULL,
		KEY idx_seen_edits_row (row_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
