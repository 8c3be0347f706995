// Package store provides database access methods for all LIS Lab
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"lislab/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, role, user_type, phone,
	organization, bio, profile_image, is_email_verified, social_provider, social_id,
	totp_secret, totp_enabled, is_active, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.UserType,
		&u.Phone, &u.Organization, &u.Bio, &u.ProfileImage, &u.IsEmailVerified,
		&u.SocialProvider, &u.SocialID, &u.TOTPSecret, &u.TOTPEnabled,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(id int64) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindBySocialID retrieves a user by social provider and provider-side ID.
// Returns nil if not found.
func (s *UserStore) FindBySocialID(provider models.SocialProvider, socialID string) (*models.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE social_provider = $1 AND social_id = $2`,
		provider, socialID,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by social id: %w", err)
	}
	return u, nil
}

// Create inserts a new member with a bcrypt-hashed password.
func (s *UserStore) Create(username, email, password string, userType models.UserType, organization string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, role, user_type, organization)
		VALUES ($1, $2, $3, 'USER', $4, $5)
		RETURNING `+userColumns,
		username, email, string(hash), userType, organization,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CreateSocial inserts a new member created through social login. The
// account has no usable password.
func (s *UserStore) CreateSocial(username, email string, provider models.SocialProvider, socialID string, profileImage *string) (*models.User, error) {
	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, role, social_provider, social_id, profile_image, is_email_verified)
		VALUES ($1, $2, '', 'USER', $3, $4, $5, TRUE)
		RETURNING `+userColumns,
		username, email, provider, socialID, profileImage,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create social user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// Social accounts have no password and always fail.
func (s *UserStore) CheckPassword(u *models.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UpdateProfile modifies the mutable profile fields.
func (s *UserStore) UpdateProfile(id int64, userType models.UserType, phone, organization, bio string, profileImage *string) error {
	_, err := s.db.Exec(`
		UPDATE users SET
			user_type = $1, phone = $2, organization = $3, bio = $4,
			profile_image = $5, updated_at = NOW()
		WHERE id = $6
	`, userType, phone, organization, bio, profileImage, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *UserStore) ChangePassword(u *models.User, oldPassword, newPassword string) error {
	if !s.CheckPassword(u, oldPassword) {
		return fmt.Errorf("change password: current password mismatch")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.db.Exec(
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		string(hash), u.ID,
	); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// SetTOTPSecret stores a freshly generated TOTP secret during 2FA setup.
func (s *UserStore) SetTOTPSecret(id int64, secret string) error {
	_, err := s.db.Exec(`UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA enrollment as complete.
func (s *UserStore) EnableTOTP(id int64) error {
	_, err := s.db.Exec(`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Deactivate soft-deletes an account. The row stays so authored
// contents and posts keep their attribution.
func (s *UserStore) Deactivate(id int64) error {
	_, err := s.db.Exec(`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
