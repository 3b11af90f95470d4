package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, u *model.PrivateUser) error {
	const q = `
INSERT INTO users (user_id, username, is_activated, registered_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET username = $2, is_activated = $3;
`
	if _, err := r.pool.Exec(ctx, q, u.TelegramID, u.Username, u.Activated, u.RegisteredAt); err != nil {
		return storeErr("save user", err)
	}
	return nil
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.PrivateUser, error) {
	const q = `SELECT user_id, username, is_activated, registered_at FROM users WHERE user_id = $1;`
	var u model.PrivateUser
	if err := r.pool.QueryRow(ctx, q, tgID).Scan(&u.TelegramID, &u.Username, &u.Activated, &u.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("find user", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM users;`)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan user id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list users", err)
	}
	return ids, nil
}
