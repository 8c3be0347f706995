package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin account and a small category tree so the sidebar has something
// to render. A no-op if any users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Default admin. 2FA is not enabled; they must set it up on first login.
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role, user_type)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin", "admin@lislab.local", string(hash), "ADMIN", "OTHER")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Seed a two-level category tree. Top-level categories reference
	// themselves, so each root is inserted first and then updated to
	// point at its own ID.
	roots := []struct {
		name, slug string
		order      int
		children   []string
	}{
		{"웹 문서", "web-docs", 1, []string{"HTML", "XML"}},
		{"메타데이터", "metadata", 2, []string{"MARC", "Dublin Core"}},
		{"검색 프로토콜", "search-protocol", 3, nil},
	}

	for _, root := range roots {
		var rootID int64
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, parent_id, sort_order)
			VALUES ($1, $2, 0, $3)
			RETURNING id
		`, root.name, root.slug, root.order).Scan(&rootID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", root.slug, err)
		}
		if _, err := db.Exec(`UPDATE categories SET parent_id = id WHERE id = $1`, rootID); err != nil {
			return fmt.Errorf("seed self-ref %s: %w", root.slug, err)
		}

		for i, child := range root.children {
			_, err := db.Exec(`
				INSERT INTO categories (name, slug, parent_id, sort_order)
				VALUES ($1, $2, $3, $4)
			`, child, root.slug+"-"+fmt.Sprint(i+1), rootID, i+1)
			if err != nil {
				return fmt.Errorf("seed child category %s: %w", child, err)
			}
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@lislab.local",
		"password", "admin",
	)
	return nil
}
