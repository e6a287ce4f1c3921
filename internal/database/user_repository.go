package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/booking-backend/internal/models"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone, password_hash, created_at, updated_at`

// CreateUser creates a new user account
func (r *UserRepository) CreateUser(name, email, phone, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Phone:        phone,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (id, name, email, phone, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		user.ID, user.Name, user.Email, user.Phone,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	err := r.db.Get(&user, query, strings.ToLower(strings.TrimSpace(email)))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	err := r.db.Get(&user, query, userID)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}
