package models

import (
	"time"

	"github.com/google/uuid"
)

// Note timestamps serialize as createdAt/modifiedAt, the field names the
// public API has always used.
type Note struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	UserID     uuid.UUID `json:"-"`
}
