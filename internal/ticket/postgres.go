package ticket

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id         BIGINT      NOT NULL,
	query      TEXT        NOT NULL,
	contact    TEXT        NOT NULL DEFAULT '',
	status     TEXT        NOT NULL DEFAULT 'open',
	created_at TIMESTAMPTZ NOT NULL
);`

// PostgresRecorder appends tickets to a PostgreSQL table. It keeps the same
// append-only contract and timestamp-derived ids as the CSV log, so the two
// backends are interchangeable behind Recorder.
type PostgresRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRecorder connects to the database and ensures the schema.
func NewPostgresRecorder(config DatabaseConfig, logger *zap.Logger) (*PostgresRecorder, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}
	return &PostgresRecorder{db: db, logger: logger}, nil
}

// Create implements Recorder.
func (r *PostgresRecorder) Create(ctx context.Context, query, contact string) (*models.Ticket, error) {
	t := newTicket(query, contact)

	const stmt = `
		INSERT INTO tickets (id, query, contact, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, stmt, t.ID, t.Query, t.Contact, t.Status, t.CreatedAt); err != nil {
		return nil, fmt.Errorf("error creating ticket: %w", err)
	}

	r.logger.Info("ticket created", zap.Int64("ticket_id", t.ID))
	return t, nil
}

// List implements Recorder, most recent first.
func (r *PostgresRecorder) List(ctx context.Context, limit int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	const stmt = `
		SELECT id, query, contact, status, created_at
		FROM tickets
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.Query, &t.Contact, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Close implements Recorder.
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
