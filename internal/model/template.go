package model

import (
	"time"

	"github.com/google/uuid"
)

// Template is a stored configuration document. Prompts are generated from
// it on demand; the document itself is kept verbatim.
type Template struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Format    string    `db:"format" json:"format"`
	Document  string    `db:"document" json:"document"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
