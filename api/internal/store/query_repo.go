package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"avbot/api/internal/carousel"
)

type QueryRepo struct{ DB *sql.DB }

func NewQueryRepo(db *sql.DB) *QueryRepo { return &QueryRepo{DB: db} }

// Create сохраняет нормализованный запрос и возвращает его id.
func (r *QueryRepo) Create(ctx context.Context, userID int64, text, numType string) (int64, error) {
	const q = `insert into search_query(user_id, query_text, num_type) values ($1,$2,$3) returning id`
	var id int64
	if err := r.DB.QueryRowContext(ctx, q, userID, text, numType).Scan(&id); err != nil {
		return 0, fmt.Errorf("create search query: %w", err)
	}
	return id, nil
}

// Get возвращает запрос или ErrNotFound.
func (r *QueryRepo) Get(ctx context.Context, id int64) (SearchQuery, error) {
	const q = `select id, user_id, query_text, num_type, created_at from search_query where id=$1`
	var sq SearchQuery
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&sq.ID, &sq.UserID, &sq.Text, &sq.NumType, &sq.CreatedAt)
	if err != nil {
		return SearchQuery{}, err
	}
	return sq, nil
}

// AddPageView пишет в историю листания (append-only).
func (r *QueryRepo) AddPageView(ctx context.Context, queryID int64, page int) error {
	const q = `insert into inline_query(search_query_id, page, query) values ($1,$2,$3)`
	token := carousel.Encode(carousel.Token{QueryID: queryID, Page: page})
	if _, err := r.DB.ExecContext(ctx, q, queryID, page, token); err != nil {
		return fmt.Errorf("add page view: %w", err)
	}
	return nil
}

// PurgeOlderThan удаляет запросы старше age вместе с историей листания.
func (r *QueryRepo) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `delete from search_query where created_at < $1`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("purge search queries: %w", err)
	}
	return res.RowsAffected()
}
