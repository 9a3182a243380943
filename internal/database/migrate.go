package database

import (
	"context"
	"fmt"
)

func schemaStatements(d Dialect) []string {
	pk := d.SerialPrimaryKey()
	ts := d.TimestampType()
	opts := d.TableOptions()

	return []string{
		`CREATE TABLE IF NOT EXISTS users (
	id ` + pk + `,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	city VARCHAR(255),
	state VARCHAR(255),
	password VARCHAR(255) NOT NULL,
	created_at ` + ts + ` NOT NULL,
	CONSTRAINT users_email_unique UNIQUE (email)
)` + opts,
		`CREATE TABLE IF NOT EXISTS posts (
	post_id ` + pk + `,
	post_type VARCHAR(20) NOT NULL,
	post_status VARCHAR(20) NOT NULL,
	user_id BIGINT NOT NULL,
	title VARCHAR(255),
	content TEXT,
	post_date ` + ts + ` NOT NULL,
	post_modified ` + ts + ` NOT NULL,
	CONSTRAINT posts_user_fk FOREIGN KEY (user_id) REFERENCES users (id)
)` + opts,
		`CREATE TABLE IF NOT EXISTS post_meta (
	meta_id ` + pk + `,
	post_id BIGINT NOT NULL,
	meta_key VARCHAR(255) NOT NULL,
	meta_value TEXT,
	CONSTRAINT post_meta_key_unique UNIQUE (post_id, meta_key),
	CONSTRAINT post_meta_post_fk FOREIGN KEY (post_id) REFERENCES posts (post_id) ON DELETE CASCADE
)` + opts,
	}
}

// Migrate creates the users, posts and post_meta tables when absent.
func (s *Session) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.dialect) {
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
