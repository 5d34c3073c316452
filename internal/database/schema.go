package database

import (
	"context"
	"database/sql"
	"time"
)

// schema holds the CREATE TABLE statements for every collection the
// application persists.  Statements are idempotent so they can run on every
// startup.  Posts carry an auto-increment seq column in addition to their
// uuid id: seq records insertion order and breaks created_at ties when the
// wall is sorted.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		display_name  VARCHAR(100) NOT NULL,
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		last_login    DATETIME     NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    CHAR(36)        NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS password_resets (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    CHAR(36)        NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		used_at    DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reset_hash (token_hash)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS semesters (
		id                    CHAR(36)     NOT NULL,
		name                  VARCHAR(200) NOT NULL,
		description           TEXT         NOT NULL,
		password              VARCHAR(255) NOT NULL,
		creator_id            CHAR(36)     NOT NULL,
		is_password_protected BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at            DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS semester_access (
		id          VARCHAR(73)  NOT NULL,
		semester_id CHAR(36)     NOT NULL,
		user_id     CHAR(36)     NOT NULL,
		user_email  VARCHAR(255) NOT NULL,
		role        ENUM('creator','member') NOT NULL,
		invited_by  CHAR(36)     NOT NULL,
		joined_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_access_pair (semester_id, user_id),
		KEY idx_access_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS semester_logs (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		semester_id CHAR(36)        NOT NULL,
		user_id     CHAR(36)        NOT NULL,
		user_email  VARCHAR(255)    NOT NULL,
		action      VARCHAR(32)     NOT NULL,
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_logs_semester (semester_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS posts (
		seq         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		id          CHAR(36)        NOT NULL,
		semester_id CHAR(36)        NOT NULL,
		type        ENUM('text','image','event') NOT NULL,
		content     TEXT            NOT NULL,
		author      VARCHAR(100)    NOT NULL DEFAULT 'Anonymous',
		image_data  MEDIUMTEXT      NULL,
		image_url   VARCHAR(2048)   NULL,
		event_title VARCHAR(200)    NULL,
		event_date  VARCHAR(32)     NULL,
		color_tag   VARCHAR(32)     NOT NULL DEFAULT '',
		created_at  DATETIME(6)     NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at  DATETIME(6)     NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		PRIMARY KEY (seq),
		UNIQUE KEY uq_posts_id (id),
		KEY idx_posts_semester (semester_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  It runs each statement with its
// own timeout so a hung DDL cannot block startup forever.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		_, err := db.ExecContext(ctx, stmt)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}
