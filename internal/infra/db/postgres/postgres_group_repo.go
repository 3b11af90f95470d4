package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/repository"
)

var _ repository.GroupRepository = (*PostgresGroupRepo)(nil)

type PostgresGroupRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresGroupRepo(pool *pgxpool.Pool) *PostgresGroupRepo {
	return &PostgresGroupRepo{pool: pool}
}

func (r *PostgresGroupRepo) Save(ctx context.Context, g *model.Group) error {
	const q = `
INSERT INTO groups (group_id, is_activated, registered_at)
VALUES ($1, $2, $3)
ON CONFLICT (group_id) DO UPDATE SET is_activated = $2, registered_at = $3;
`
	if _, err := r.pool.Exec(ctx, q, g.ChatID, g.Activated, g.RegisteredAt); err != nil {
		return storeErr("save group", err)
	}
	return nil
}

func (r *PostgresGroupRepo) FindByChatID(ctx context.Context, chatID int64) (*model.Group, error) {
	const q = `SELECT group_id, is_activated, registered_at FROM groups WHERE group_id = $1;`
	var g model.Group
	if err := r.pool.QueryRow(ctx, q, chatID).Scan(&g.ChatID, &g.Activated, &g.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr("find group", err)
	}
	return &g, nil
}

func (r *PostgresGroupRepo) Destination(ctx context.Context) (int64, error) {
	const q = `SELECT group_id FROM groups ORDER BY registered_at DESC LIMIT 1;`
	var id int64
	if err := r.pool.QueryRow(ctx, q).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNoGroupRegistered
		}
		return 0, storeErr("find destination group", err)
	}
	return id, nil
}

func (r *PostgresGroupRepo) ListActivatedIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT group_id FROM groups WHERE is_activated;`)
	if err != nil {
		return nil, storeErr("list activated groups", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan group id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list activated groups", err)
	}
	return ids, nil
}

// storeErr tags a persistence failure with domain.ErrStore, keeping the
// Postgres error code visible when one is present.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (sqlstate %s): %w: %w", op, pgErr.Code, domain.ErrStore, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
