package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crucial707/storyshare/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type StoryRepo struct {
	DB *sql.DB
}

func NewStoryRepo(db *sql.DB) *StoryRepo {
	return &StoryRepo{DB: db}
}

const storyWithUserColumns = `
	s.id, s.title, s.body, s.status, s.user_id, s.created_at,
	u.id, u.google_id, u.display_name, u.first_name, u.last_name, u.image, u.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoryWithUser(row rowScanner) (models.Story, error) {
	var s models.Story
	u := &models.User{}
	err := row.Scan(
		&s.ID, &s.Title, &s.Body, &s.Status, &s.UserID, &s.CreatedAt,
		&u.ID, &u.GoogleID, &u.DisplayName, &u.FirstName, &u.LastName, &u.Image, &u.CreatedAt,
	)
	if err != nil {
		return models.Story{}, err
	}
	s.User = u
	return s, nil
}

// ========================
// CREATE STORY
// ========================

// Create inserts story under a fresh id. ID and CreatedAt on the input are ignored.
func (r *StoryRepo) Create(ctx context.Context, story models.Story) (*models.Story, error) {
	out := story
	out.ID = uuid.NewString()
	out.User = nil

	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO stories (id, title, body, status, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		out.ID, out.Title, out.Body, out.Status, out.UserID,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return &out, nil
}

// ========================
// GET STORY BY ID
// ========================

// GetByID returns the story with its owner joined, or nil when no story has that id.
func (r *StoryRepo) GetByID(ctx context.Context, id string) (*models.Story, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT`+storyWithUserColumns+`
		 FROM stories s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1`,
		id,
	)
	s, err := scanStoryWithUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get story %s: %w", id, err)
	}
	return &s, nil
}

// ========================
// LIST STORIES
// ========================

// ListPublic returns every public story, newest first.
func (r *StoryRepo) ListPublic(ctx context.Context) ([]models.Story, error) {
	return r.list(ctx,
		`SELECT`+storyWithUserColumns+`
		 FROM stories s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.status = $1
		 ORDER BY s.created_at DESC`,
		models.StatusPublic,
	)
}

// ListPublicByUser returns the public stories owned by userID, newest first.
func (r *StoryRepo) ListPublicByUser(ctx context.Context, userID string) ([]models.Story, error) {
	return r.list(ctx,
		`SELECT`+storyWithUserColumns+`
		 FROM stories s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.user_id = $1 AND s.status = $2
		 ORDER BY s.created_at DESC`,
		userID, models.StatusPublic,
	)
}

// ListByUser returns all of userID's stories regardless of status. Used by the dashboard.
func (r *StoryRepo) ListByUser(ctx context.Context, userID string) ([]models.Story, error) {
	return r.list(ctx,
		`SELECT`+storyWithUserColumns+`
		 FROM stories s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC`,
		userID,
	)
}

func (r *StoryRepo) list(ctx context.Context, query string, args ...any) ([]models.Story, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		s, err := scanStoryWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// ========================
// UPDATE STORY BY ID
// ========================

// UpdateByID replaces the editable fields. user_id is never written. Returns nil when no row matched.
func (r *StoryRepo) UpdateByID(ctx context.Context, id, title, body, status string) (*models.Story, error) {
	var s models.Story
	err := r.DB.QueryRowContext(ctx,
		`UPDATE stories
		 SET title = $1, body = $2, status = $3
		 WHERE id = $4
		 RETURNING id, title, body, status, user_id, created_at`,
		title, body, status, id,
	).Scan(&s.ID, &s.Title, &s.Body, &s.Status, &s.UserID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update story %s: %w", id, err)
	}
	return &s, nil
}

// ========================
// DELETE STORY BY ID
// ========================

// DeleteByID removes the story only when ownerID owns it. It reports whether a row was removed;
// a missing story and someone else's story both return false with no error.
func (r *StoryRepo) DeleteByID(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM stories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete story %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByStatus returns the number of stories per status.
func (r *StoryRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM stories GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count stories: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{models.StatusPublic: 0, models.StatusPrivate: 0}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
