package db

import (
	"database/sql"
	"fmt"

	"melisma/config"
	"melisma/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	statements := map[string]string{
		"artists": `
	CREATE TABLE IF NOT EXISTS artists (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id CHAR(36) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		sort_name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);`,
		"genres": `
	CREATE TABLE IF NOT EXISTS genres (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE
	);`,
		"releases": `
	CREATE TABLE IF NOT EXISTS releases (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id CHAR(36) NOT NULL UNIQUE,
		artist_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		sort_title VARCHAR(255) NOT NULL,
		release_year INT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_release_artist FOREIGN KEY (artist_id) REFERENCES artists(id) ON DELETE CASCADE
	);`,
		"release_genres": `
	CREATE TABLE IF NOT EXISTS release_genres (
		release_id INT NOT NULL,
		genre_id INT NOT NULL,
		PRIMARY KEY (release_id, genre_id),
		CONSTRAINT fk_rg_release FOREIGN KEY (release_id) REFERENCES releases(id) ON DELETE CASCADE,
		CONSTRAINT fk_rg_genre FOREIGN KEY (genre_id) REFERENCES genres(id) ON DELETE CASCADE
	);`,
		"tracks": `
	CREATE TABLE IF NOT EXISTS tracks (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id CHAR(36) NOT NULL UNIQUE,
		release_id INT NOT NULL,
		title VARCHAR(255) NOT NULL,
		track_artist VARCHAR(255),
		media_number INT NOT NULL DEFAULT 1,
		track_number INT NOT NULL DEFAULT 0,
		duration_secs DOUBLE,
		rating INT NOT NULL DEFAULT 0,
		part_titles TEXT,
		file_size BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_track_release FOREIGN KEY (release_id) REFERENCES releases(id) ON DELETE CASCADE
	);`,
		"collections": `
	CREATE TABLE IF NOT EXISTS collections (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id CHAR(36) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		sort_name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);`,
		"collection_releases": `
	CREATE TABLE IF NOT EXISTS collection_releases (
		collection_id INT NOT NULL,
		release_id INT NOT NULL,
		list_number INT NOT NULL DEFAULT 0,
		PRIMARY KEY (collection_id, release_id),
		CONSTRAINT fk_cr_collection FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE,
		CONSTRAINT fk_cr_release FOREIGN KEY (release_id) REFERENCES releases(id) ON DELETE CASCADE
	);`,
		"playlists": `
	CREATE TABLE IF NOT EXISTS playlists (
		id INT AUTO_INCREMENT PRIMARY KEY,
		external_id CHAR(36) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);`,
		"playlist_tracks": `
	CREATE TABLE IF NOT EXISTS playlist_tracks (
		playlist_id INT NOT NULL,
		track_id INT NOT NULL,
		list_number INT NOT NULL DEFAULT 0,
		PRIMARY KEY (playlist_id, track_id),
		CONSTRAINT fk_pt_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(id) ON DELETE CASCADE,
		CONSTRAINT fk_pt_track FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE
	);`,
		"plays": `
	CREATE TABLE IF NOT EXISTS plays (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		track_id INT NOT NULL,
		played_at TIMESTAMP NOT NULL,
		CONSTRAINT fk_play_track FOREIGN KEY (track_id) REFERENCES tracks(id) ON DELETE CASCADE
	);`,
	}

	// Creation order matters because of the foreign keys.
	order := []string{
		"artists", "genres", "releases", "release_genres", "tracks",
		"collections", "collection_releases", "playlists", "playlist_tracks", "plays",
	}
	for _, table := range order {
		if _, err := DB.Exec(statements[table]); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table, err)
		}
	}

	logger.Info("Database schema initialized")
	return nil
}
