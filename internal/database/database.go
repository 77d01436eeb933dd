// Package database owns the Postgres connection pool and the queries the
// server needs: user accounts and final match results. The engine itself
// never touches persistence; only the session host calls in here.
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil when Postgres is not configured;
// callers must check before use.
var DB *pgxpool.Pool

// Connect opens the pool and verifies connectivity.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	DB = pool
	logrus.Info("database connected")
	return nil
}

// EnsureSchema creates the tables the server writes to.
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    is_guest      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS match_results (
    match_id    UUID PRIMARY KEY,
    winner_seat SMALLINT NOT NULL,
    end_reason  TEXT NOT NULL,
    p1_user_id  UUID,
    p2_user_id  UUID,
    p1_score    INT NOT NULL,
    p2_score    INT NOT NULL,
    p1_credits  INT NOT NULL,
    p2_credits  INT NOT NULL,
    rounds      INT NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// CreateUser inserts a new account row.
func CreateUser(ctx context.Context, id uuid.UUID, username, passwordHash string, guest bool) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	_, err := DB.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, is_guest) VALUES ($1, $2, $3, $4)`,
		id, username, passwordHash, guest)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", username, err)
	}
	return nil
}

// GetUserByUsername returns the account row, or pgx.ErrNoRows wrapped when
// the user does not exist.
func GetUserByUsername(ctx context.Context, username string) (id uuid.UUID, passwordHash string, err error) {
	if DB == nil {
		return uuid.Nil, "", fmt.Errorf("database not connected")
	}
	row := DB.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE username = $1`, username)
	if err := row.Scan(&id, &passwordHash); err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, "", fmt.Errorf("user %s: %w", username, err)
		}
		return uuid.Nil, "", fmt.Errorf("query user %s: %w", username, err)
	}
	return id, passwordHash, nil
}

// MatchResult is the final outcome row written once per match.
type MatchResult struct {
	MatchID    uuid.UUID
	WinnerSeat int
	EndReason  string
	P1UserID   uuid.UUID
	P2UserID   uuid.UUID
	P1Score    int
	P2Score    int
	P1Credits  int
	P2Credits  int
	Rounds     int
}

// StoreMatchResult upserts the final outcome. Repeated calls for the same
// match (e.g. a restart after game over) keep the latest result.
func StoreMatchResult(ctx context.Context, r MatchResult) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	_, err := DB.Exec(ctx, `
INSERT INTO match_results
    (match_id, winner_seat, end_reason, p1_user_id, p2_user_id,
     p1_score, p2_score, p1_credits, p2_credits, rounds)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (match_id) DO UPDATE SET
    winner_seat = EXCLUDED.winner_seat,
    end_reason  = EXCLUDED.end_reason,
    p1_score    = EXCLUDED.p1_score,
    p2_score    = EXCLUDED.p2_score,
    p1_credits  = EXCLUDED.p1_credits,
    p2_credits  = EXCLUDED.p2_credits,
    rounds      = EXCLUDED.rounds,
    finished_at = now()`,
		r.MatchID, r.WinnerSeat, r.EndReason, r.P1UserID, r.P2UserID,
		r.P1Score, r.P2Score, r.P1Credits, r.P2Credits, r.Rounds)
	if err != nil {
		return fmt.Errorf("store match result %s: %w", r.MatchID, err)
	}
	return nil
}
