// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/roomsync/models"
)

// PostgreSQL is the plain database/sql archive store, for deployments
// that prefer raw SQL over the GORM implementation.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_id TEXT NOT NULL,
            game TEXT NOT NULL,
            players JSONB NOT NULL,
            log JSONB NOT NULL,
            ended_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records (room_id)`)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}
	log, err := json.Marshal(record.Log)
	if err != nil {
		return fmt.Errorf("marshal log: %w", err)
	}

	_, err = p.db.Exec(`
        INSERT INTO game_records (room_id, game, players, log, ended_at)
        VALUES ($1, $2, $3, $4, $5)`,
		record.RoomID, record.Game, players, log, record.EndedAt)
	return err
}

func (p *PostgreSQL) RecentGameRecords(roomID string, limit int) ([]models.GameRecord, error) {
	rows, err := p.db.Query(`
        SELECT room_id, game, players, log, ended_at
        FROM game_records
        WHERE room_id = $1
        ORDER BY ended_at DESC
        LIMIT $2`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var players, log []byte
		if err := rows.Scan(&record.RoomID, &record.Game, &players, &log, &record.EndedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(players, &record.Players); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(log, &record.Log); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
