package ticket

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/xaenox/support-bot/internal/models"
	"go.uber.org/zap"
)

var csvHeader = []string{"id", "query", "contact", "status", "created_at"}

// CSVRecorder appends tickets to a CSV log. The header row is written once,
// when the file does not yet exist; everything after is pure append. A
// mutex serializes writers within this process.
type CSVRecorder struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewCSVRecorder creates a recorder writing to path. The file is created
// lazily on the first ticket.
func NewCSVRecorder(path string, logger *zap.Logger) *CSVRecorder {
	return &CSVRecorder{path: path, logger: logger}
}

// Create implements Recorder.
func (r *CSVRecorder) Create(ctx context.Context, query, contact string) (*models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := newTicket(query, contact)

	_, statErr := os.Stat(r.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening ticket log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return nil, fmt.Errorf("writing ticket header: %w", err)
		}
	}
	if err := w.Write(ticketRow(t)); err != nil {
		return nil, fmt.Errorf("writing ticket row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing ticket log: %w", err)
	}

	r.logger.Info("ticket created",
		zap.Int64("ticket_id", t.ID),
		zap.String("path", r.path))
	return t, nil
}

// List returns up to limit tickets, most recent first. A missing log means
// no tickets yet.
func (r *CSVRecorder) List(ctx context.Context, limit int) ([]models.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ticket log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ticket log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := records[1:]
	var tickets []models.Ticket
	for i := len(rows) - 1; i >= 0 && (limit <= 0 || len(tickets) < limit); i-- {
		t, err := parseRow(rows[i])
		if err != nil {
			r.logger.Warn("skipping malformed ticket row", zap.Error(err))
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// Close implements Recorder. The file handle is not held between appends.
func (r *CSVRecorder) Close() error { return nil }

func ticketRow(t *models.Ticket) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Query,
		t.Contact,
		t.Status,
		t.CreatedAt.Format(time.RFC3339),
	}
}

func parseRow(row []string) (models.Ticket, error) {
	if len(row) < 5 {
		return models.Ticket{}, fmt.Errorf("expected 5 columns, got %d", len(row))
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("parsing ticket id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339, row[4])
	if err != nil {
		return models.Ticket{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return models.Ticket{
		ID:        id,
		Query:     row[1],
		Contact:   row[2],
		Status:    row[3],
		CreatedAt: createdAt,
	}, nil
}
