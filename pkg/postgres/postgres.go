package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

type Config interface {
	GetDSN() string
}

// PoolConfig is optionally implemented by Config to tune the pool.
type PoolConfig interface {
	GetMaxConns() int32
	GetMinConns() int32
	GetMaxConnLifetime() time.Duration
	GetMaxConnIdleTime() time.Duration
}

func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, err
	}

	if pc, ok := config.(PoolConfig); ok {
		if v := pc.GetMaxConns(); v > 0 {
			dbConfig.MaxConns = v
		}
		if v := pc.GetMinConns(); v > 0 {
			dbConfig.MinConns = v
		}
		if v := pc.GetMaxConnLifetime(); v > 0 {
			dbConfig.MaxConnLifetime = v
		}
		if v := pc.GetMaxConnIdleTime(); v > 0 {
			dbConfig.MaxConnIdleTime = v
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	// Ping the database
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}
