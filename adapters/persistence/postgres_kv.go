package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type postgresKV struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresKeyValueStore(db *pgxpool.Pool, logger logger.Logger) service.KeyValueStore {
	return &postgresKV{db: db, logger: logger}
}

var psqlKV = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	sql, args, err := psqlKV.Select("value").From("kv_store").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, apperror.NewInternal("failed to build kv select query", err)
	}

	var value string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, apperror.NewInternal("failed to read key "+key, err)
	}
	return value, true, nil
}

func (r *postgresKV) Set(ctx context.Context, key, value string) error {
	sql, args, err := psqlKV.Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build kv upsert query", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to write key "+key, err)
	}
	return nil
}

func (r *postgresKV) Remove(ctx context.Context, key string) error {
	sql, args, err := psqlKV.Delete("kv_store").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build kv delete query", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return apperror.NewInternal("failed to remove key "+key, err)
	}
	return nil
}
