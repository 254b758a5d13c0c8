package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Shows reference venues and artists without ON DELETE CASCADE: deleting a
// venue that still has shows is refused by the repository instead.
var schema = []struct {
	table string
	ddl   string
}{
	{"venues", `CREATE TABLE IF NOT EXISTS venues (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name                VARCHAR(120)  NOT NULL,
		genres              VARCHAR(500)  NOT NULL DEFAULT '',
		address             VARCHAR(120)  NOT NULL DEFAULT '',
		city                VARCHAR(120)  NOT NULL,
		state               VARCHAR(2)    NOT NULL,
		phone               VARCHAR(120)  NOT NULL DEFAULT '',
		website             VARCHAR(500)  NOT NULL DEFAULT '',
		facebook_link       VARCHAR(500)  NOT NULL DEFAULT '',
		image_link          VARCHAR(500)  NOT NULL DEFAULT '',
		seeking_talent      BOOLEAN       NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(1000) NOT NULL DEFAULT '',
		created_at          DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_venues_area (state, city),
		INDEX idx_venues_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"artists", `CREATE TABLE IF NOT EXISTS artists (
		id                  BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name                VARCHAR(120)  NOT NULL,
		genres              VARCHAR(500)  NOT NULL DEFAULT '',
		city                VARCHAR(120)  NOT NULL,
		state               VARCHAR(2)    NOT NULL,
		phone               VARCHAR(120)  NOT NULL DEFAULT '',
		website             VARCHAR(500)  NOT NULL DEFAULT '',
		facebook_link       VARCHAR(500)  NOT NULL DEFAULT '',
		image_link          VARCHAR(500)  NOT NULL DEFAULT '',
		seeking_venue       BOOLEAN       NOT NULL DEFAULT FALSE,
		seeking_description VARCHAR(1000) NOT NULL DEFAULT '',
		created_at          DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_artists_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"shows", `CREATE TABLE IF NOT EXISTS shows (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		artist_id  BIGINT UNSIGNED NOT NULL,
		venue_id   BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		INDEX idx_shows_venue_start (venue_id, start_time),
		INDEX idx_shows_artist_start (artist_id, start_time),
		CONSTRAINT fk_shows_artist FOREIGN KEY (artist_id) REFERENCES artists(id),
		CONSTRAINT fk_shows_venue FOREIGN KEY (venue_id) REFERENCES venues(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Migrate creates the three tables if they do not exist yet.  Tables are
// created in dependency order so the foreign keys resolve.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("creating %s table: %w", s.table, err)
		}
	}
	return nil
}
