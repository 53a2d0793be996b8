package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crucial707/storyshare/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, google_id, display_name, first_name, last_name, image, created_at`

// ==========================
// Upsert By Google ID
// ==========================

// UpsertGoogle creates the user on first sign-in and refreshes the profile fields afterwards.
// The returned user carries the stored id, which never changes for a given Google account.
func (r *UserRepo) UpsertGoogle(ctx context.Context, u models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, google_id, display_name, first_name, last_name, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (google_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    image = EXCLUDED.image
		RETURNING ` + userColumns

	out := &models.User{}
	err := r.DB.QueryRowContext(ctx, query,
		uuid.NewString(), u.GoogleID, u.DisplayName, u.FirstName, u.LastName, u.Image,
	).Scan(&out.ID, &out.GoogleID, &out.DisplayName, &out.FirstName, &out.LastName, &out.Image, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", u.GoogleID, err)
	}
	return out, nil
}

// ==========================
// Get By ID
// ==========================

// GetByID returns nil, nil when the user does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.GoogleID, &u.DisplayName, &u.FirstName, &u.LastName, &u.Image, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.GoogleID, &u.DisplayName, &u.FirstName, &u.LastName, &u.Image, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
