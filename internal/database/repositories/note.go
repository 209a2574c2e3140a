package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"notekeeper/internal/database/models"

	"github.com/google/uuid"
)

// Update and Delete match on both note id and owner id, so one user can
// never reach another user's notes by guessing ids.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetAll(ctx context.Context, userID uuid.UUID) ([]models.Note, error)
	Update(ctx context.Context, note *models.Note, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, title, content, created_at, modified_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, note.ID, note.Title, note.Content, note.CreatedAt, note.ModifiedAt, note.UserID)
	if err != nil {
		return fmt.Errorf("error creating note: %w", err)
	}
	return nil
}

func (r *noteRepository) GetAll(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	query := `
		SELECT id, title, content, created_at, modified_at, user_id
		FROM notes WHERE user_id = $1
		ORDER BY created_at, id`
	result, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %w", err)
	}
	defer result.Close()

	var notes []models.Note
	for result.Next() {
		var note models.Note
		err := result.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.CreatedAt,
			&note.ModifiedAt,
			&note.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %w", err)
		}
		notes = append(notes, note)
	}
	if err = result.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note, userID uuid.UUID) error {
	query := `
		UPDATE notes
		SET title = $1, content = $2, modified_at = $3
		WHERE id = $4 AND user_id = $5`
	result, err := r.db.ExecContext(ctx, query, note.Title, note.Content, note.ModifiedAt, note.ID, userID)
	if err != nil {
		return fmt.Errorf("error updating note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
