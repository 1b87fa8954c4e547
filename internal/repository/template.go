package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akave-ai/confprompt/internal/model"
)

var (
	// ErrTemplateNotFound is returned by Delete when no row matches.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateExists is returned by Create when the name is taken.
	ErrTemplateExists = errors.New("template name already exists")
)

const uniqueViolation = "23505"

// TemplateRepository persists and reads configuration templates.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a TemplateRepository using the given pool.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// Create inserts a new template and returns it with ID and CreatedAt set.
func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	query := `
		INSERT INTO templates (id, name, format, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query, t.ID, t.Name, t.Format, t.Document).Scan(&t.ID, &t.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrTemplateExists
	}
	return err
}

// List returns all templates ordered by created_at descending.
func (r *TemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, format, document, created_at
		FROM templates
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Template{}
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Format, &t.Document, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetByID returns one template by id, or nil if not found.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	var t model.Template
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, format, document, created_at
		FROM templates WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.Format, &t.Document, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a template by id.
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
