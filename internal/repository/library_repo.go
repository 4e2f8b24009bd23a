package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"storyboard-backend/internal/models"
)

type LibraryRepo struct {
	pool *pgxpool.Pool
}

func NewLibraryRepo(pool *pgxpool.Pool) *LibraryRepo {
	return &LibraryRepo{pool: pool}
}

func (r *LibraryRepo) Create(ctx context.Context, e *models.LibraryEntry) error {
	e.ID = uuid.New()
	e.Status = "pending"

	if e.MetadataJSON == nil {
		e.MetadataJSON = []byte("{}")
	}

	query := `INSERT INTO library_entries (id, source_type, source_url, title, thumbnail_url, status, model_id, metadata_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		e.ID, e.SourceType, e.SourceURL, e.Title, e.ThumbnailURL,
		e.Status, e.ModelID, e.MetadataJSON,
	).Scan(&e.CreatedAt)
}

func (r *LibraryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryEntry, error) {
	e := &models.LibraryEntry{}
	query := `SELECT id, source_type, source_url, title, thumbnail_url, status, model_id, metadata_json, result_json, error_message, created_at, completed_at
		FROM library_entries WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.SourceType, &e.SourceURL, &e.Title, &e.ThumbnailURL,
		&e.Status, &e.ModelID, &e.MetadataJSON, &e.ResultJSON,
		&e.ErrorMessage, &e.CreatedAt, &e.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns entries newest first, without result payloads. Results can be
// large; fetch them per entry via GetByID.
func (r *LibraryRepo) List(ctx context.Context, limit, offset int) ([]*models.LibraryEntry, error) {
	query := `SELECT id, source_type, source_url, title, thumbnail_url, status, model_id, metadata_json, error_message, created_at, completed_at
		FROM library_entries ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LibraryEntry
	for rows.Next() {
		e := &models.LibraryEntry{}
		if err := rows.Scan(
			&e.ID, &e.SourceType, &e.SourceURL, &e.Title, &e.ThumbnailURL,
			&e.Status, &e.ModelID, &e.MetadataJSON, &e.ErrorMessage,
			&e.CreatedAt, &e.CompletedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *LibraryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE library_entries SET status = $1 WHERE id = $2", status, id)
	return err
}

// CompleteWithResult stores the finished storyboard and flips the entry to
// complete in one statement, so readers never see a complete entry without
// its result.
func (r *LibraryRepo) CompleteWithResult(ctx context.Context, id uuid.UUID, title string, resultJSON []byte) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE library_entries SET status = 'complete', title = $1, result_json = $2, completed_at = $3 WHERE id = $4`,
		title, resultJSON, time.Now(), id,
	)
	return err
}

func (r *LibraryRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE library_entries SET status = 'error', error_message = $1, completed_at = $2 WHERE id = $3`,
		errMsg, time.Now(), id,
	)
	return err
}

func (r *LibraryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM library_entries WHERE id = $1", id)
	return err
}
