package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ConnectDB opens the pool for the resolved target and verifies it with a ping.
func ConnectDB(ctx context.Context, e DBEnv) (*sqlx.DB, error) {
	target, err := ResolveDatabase(e)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", target, err)
	}

	maxOpen, maxIdle := e.MaxOpenConns, e.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	if maxIdle <= 0 {
		maxIdle = maxOpen
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", target, err)
	}

	zap.L().Info("database connected", zap.String("target", target.String()))
	return db, nil
}
