package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// schema lists the CREATE TABLE statements run at bootstrap. Statements are
// idempotent so restarting the service against an existing database is safe.
// Money columns store integer minor units (cents); floating point is never
// used for currency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(20)  NOT NULL,
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS restaurant_tables (
		table_number INT UNSIGNED PRIMARY KEY,
		status       VARCHAR(20) NOT NULL DEFAULT 'available',
		updated_at   DATETIME    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS menu_items (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name         VARCHAR(100) NOT NULL,
		description  TEXT,
		price_cents  INT UNSIGNED NOT NULL,
		category     VARCHAR(50),
		image_url    VARCHAR(255),
		is_available TINYINT(1)   NOT NULL DEFAULT 1,
		created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS orders (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		table_number  INT UNSIGNED NOT NULL,
		customer_name VARCHAR(100),
		status        VARCHAR(20)  NOT NULL DEFAULT 'pending',
		total_cents   INT UNSIGNED NOT NULL DEFAULT 0,
		notes         TEXT,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_orders_table (table_number),
		CONSTRAINT fk_orders_table FOREIGN KEY (table_number) REFERENCES restaurant_tables(table_number)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_id         BIGINT UNSIGNED NOT NULL,
		menu_item_id     BIGINT UNSIGNED NOT NULL,
		quantity         INT UNSIGNED    NOT NULL,
		item_price_cents INT UNSIGNED    NOT NULL,
		status           VARCHAR(20)     NOT NULL DEFAULT 'pending',
		notes            TEXT,
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id),
		CONSTRAINT fk_order_items_menu FOREIGN KEY (menu_item_id) REFERENCES menu_items(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_id       BIGINT UNSIGNED NOT NULL,
		amount_cents   INT UNSIGNED    NOT NULL,
		method         VARCHAR(20)     NOT NULL,
		transaction_id VARCHAR(100),
		status         VARCHAR(20)     NOT NULL DEFAULT 'pending',
		created_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_payments_order (order_id),
		CONSTRAINT fk_payments_order FOREIGN KEY (order_id) REFERENCES orders(id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the POS tables when they do not exist and seeds the
// restaurant_tables rows 1..seedTables as available. It is run once at
// process start, before the HTTP server begins accepting requests.
func EnsureSchema(db *sql.DB, seedTables int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	for n := 1; n <= seedTables; n++ {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO restaurant_tables (table_number, status) VALUES (?, 'available')",
			n); err != nil {
			return fmt.Errorf("seed table %d: %w", n, err)
		}
	}
	return nil
}
