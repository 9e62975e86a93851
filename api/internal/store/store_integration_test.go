//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"

	"avbot/api/internal/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	db      *sql.DB
	users   *UserRepo
	queries *QueryRepo
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	db, err := sql.Open("pgx", containers.Postgres(s.T()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	s.Require().NoError(db.PingContext(ctx))
	s.Require().NoError(Migrate(ctx, db))
	s.Require().NoError(Migrate(ctx, db), "migrations must be re-runnable")

	s.db = db
	s.users = NewUserRepo(db)
	s.queries = NewQueryRepo(db)
}

func (s *PostgresSuite) TestUserEnsureIsUpsert() {
	ctx := context.Background()
	u, err := s.users.Ensure(ctx, User{TelegramID: 1, Username: "first", LanguageCode: "ru"})
	s.Require().NoError(err)
	again, err := s.users.Ensure(ctx, User{TelegramID: 1, Username: "second", LanguageCode: "en"})
	s.Require().NoError(err)
	s.Equal(u.ID, again.ID)

	var name, lang string
	s.Require().NoError(s.db.QueryRowContext(ctx,
		`select username, language_code from bot_user where id=$1`, u.ID).Scan(&name, &lang))
	s.Equal("second", name)
	s.Equal("en", lang)
}

func (s *PostgresSuite) TestQueryLifecycle() {
	ctx := context.Background()
	u, err := s.users.Ensure(ctx, User{TelegramID: 2})
	s.Require().NoError(err)

	id, err := s.queries.Create(ctx, u.ID, "aaa777", "ru-series")
	s.Require().NoError(err)

	sq, err := s.queries.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("aaa777", sq.Text)
	s.Equal("ru-series", sq.NumType)

	s.Require().NoError(s.queries.AddPageView(ctx, id, 1))
	s.Require().NoError(s.queries.AddPageView(ctx, id, 0))
	var views int
	s.Require().NoError(s.db.QueryRowContext(ctx,
		`select count(*) from inline_query where search_query_id=$1`, id).Scan(&views))
	s.Equal(2, views)

	_, err = s.queries.Get(ctx, id+1000)
	s.ErrorIs(err, ErrNotFound)
}

func (s *PostgresSuite) TestPurge() {
	ctx := context.Background()
	u, err := s.users.Ensure(ctx, User{TelegramID: 3})
	s.Require().NoError(err)
	old, err := s.queries.Create(ctx, u.ID, "ru37", "ru-region")
	s.Require().NoError(err)
	_, err = s.db.ExecContext(ctx, `update search_query set created_at=now()-interval '10 days' where id=$1`, old)
	s.Require().NoError(err)

	n, err := s.queries.PurgeOlderThan(ctx, 24*time.Hour)
	s.Require().NoError(err)
	s.GreaterOrEqual(n, int64(1))
	_, err = s.queries.Get(ctx, old)
	s.ErrorIs(err, ErrNotFound)
}
