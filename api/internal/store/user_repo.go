package store

import (
	"context"
	"database/sql"
	"fmt"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Ensure создаёт пользователя по telegram_id или обновляет его профиль и язык.
func (r *UserRepo) Ensure(ctx context.Context, u User) (User, error) {
	const q = `
insert into bot_user(telegram_id, first_name, last_name, username, language_code)
values ($1,$2,$3,$4,$5)
on conflict (telegram_id)
do update set first_name=excluded.first_name,
              last_name=excluded.last_name,
              username=excluded.username,
              language_code=excluded.language_code
returning id, created_at`
	err := r.DB.QueryRowContext(ctx, q, u.TelegramID, u.FirstName, u.LastName, u.Username, u.LanguageCode).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("ensure user %d: %w", u.TelegramID, err)
	}
	return u, nil
}
