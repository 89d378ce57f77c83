// Package database stores finished games in PostgreSQL.
package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	engine "github.com/jason-s-yu/jass/engine"
)

//go:embed schema.sql
var schema embed.FS

// Result is the outcome of one finished game.
type Result struct {
	GameID      uuid.UUID
	Winner      engine.TeamID
	Team1Points int
	Team2Points int
	Turns       int
	FinishedAt  time.Time
}

// ResultStore records finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, r Result) error
	RecentResults(ctx context.Context, limit int) ([]Result, error)
}

type DB struct{ *pgxpool.Pool }

// Open connects a pool and pings the server.
func Open(ctx context.Context, dsn string) (*DB, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return &DB{p}, nil
}

func (db *DB) Close() { db.Pool.Close() }

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// SaveResult upserts a result; saving the same game twice keeps the last.
func (db *DB) SaveResult(ctx context.Context, r Result) error {
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := db.Exec(ctx, `
		INSERT INTO jass_results(game_id, winner, team1_points, team2_points, turns, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO UPDATE
		   SET winner = EXCLUDED.winner,
		       team1_points = EXCLUDED.team1_points,
		       team2_points = EXCLUDED.team2_points,
		       turns = EXCLUDED.turns,
		       finished_at = EXCLUDED.finished_at
	`, r.GameID, int16(r.Winner), r.Team1Points, r.Team2Points, r.Turns, finished)
	if err != nil {
		return fmt.Errorf("database: save result %s: %w", r.GameID, err)
	}
	return nil
}

// RecentResults returns up to limit results, newest first.
func (db *DB) RecentResults(ctx context.Context, limit int) ([]Result, error) {
	rows, err := db.Query(ctx, `
		SELECT game_id, winner, team1_points, team2_points, turns, finished_at
		  FROM jass_results
		 ORDER BY finished_at DESC
		 LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("database: recent results: %w", err)
	}
	return collectResults(rows)
}

func collectResults(rows pgx.Rows) ([]Result, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Result, error) {
		var r Result
		var winner int16
		if err := row.Scan(&r.GameID, &winner, &r.Team1Points, &r.Team2Points, &r.Turns, &r.FinishedAt); err != nil {
			return r, err
		}
		if winner != int16(engine.Team1) && winner != int16(engine.Team2) {
			return r, fmt.Errorf("game %s: winner %d", r.GameID, winner)
		}
		r.Winner = engine.TeamID(winner)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("database: recent results: %w", err)
	}
	return out, nil
}

var _ ResultStore = (*DB)(nil)
