package placesrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yanqian/weather-helloworld/internal/domain/places"
	"github.com/yanqian/weather-helloworld/internal/infra/postgres"
)

// PostgresRepository stores favorites and history in Postgres.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository builds a repository over db.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID int64) ([]places.SavedCity, error) {
	return r.list(ctx, `
		SELECT id, city, country, last_searched_at
		FROM favorite_cities
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID int64, fav places.SavedCity) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorite_cities (id, user_id, city, country, last_searched_at)
		VALUES ($1, $2, $3, $4, $5)
	`, fav.ID, userID, fav.City, fav.Country, fav.LastSearchedAt)
	if postgres.IsUniqueViolation(err) {
		return places.ErrFavoriteExists
	}
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM favorite_cities WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return places.ErrFavoriteNotFound
	}
	return nil
}

func (r *PostgresRepository) ListHistory(ctx context.Context, userID int64) ([]places.SavedCity, error) {
	return r.list(ctx, `
		SELECT id, city, country, last_searched_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY seq
	`, userID)
}

// AppendHistory serialises writers per user with a transaction-scoped advisory lock
// so the insert and the trim never interleave.
func (r *PostgresRepository) AppendHistory(ctx context.Context, userID int64, entry places.SavedCity, limit int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	if err := appendAndTrim(ctx, tx, userID, entry, limit); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

func appendAndTrim(ctx context.Context, tx pgx.Tx, userID int64, entry places.SavedCity, limit int) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO search_history (id, user_id, city, country, last_searched_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, userID, entry.City, entry.Country, entry.LastSearchedAt); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if limit <= 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM search_history
		WHERE user_id = $1
		  AND seq NOT IN (
			SELECT seq FROM search_history
			WHERE user_id = $1
			ORDER BY seq DESC
			LIMIT $2
		  )
	`, userID, limit); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID int64) ([]places.SavedCity, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]places.SavedCity, 0)
	for rows.Next() {
		var (
			item places.SavedCity
			at   time.Time
		)
		if err := rows.Scan(&item.ID, &item.City, &item.Country, &at); err != nil {
			return nil, err
		}
		item.LastSearchedAt = at.UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

var _ places.Repository = (*PostgresRepository)(nil)
