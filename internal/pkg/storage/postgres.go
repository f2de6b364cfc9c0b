package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/slipstream-bet/converter/internal/pkg/models"
)

// PostgresHistory archives every finished conversion for later analysis
// (success rates per bookmaker pair, odds drift, warning frequency).
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory opens the connection and ensures the schema exists.
func NewPostgresHistory(dsn string) (*PostgresHistory, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	h := &PostgresHistory{db: db}
	if err := h.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL conversion history initialized")
	return h, nil
}

func (h *PostgresHistory) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS conversion_history (
		id SERIAL PRIMARY KEY,
		task_id VARCHAR(64) NOT NULL,
		betslip_code VARCHAR(32) NOT NULL,
		source_bookmaker VARCHAR(64) NOT NULL,
		destination_bookmaker VARCHAR(64) NOT NULL,
		success BOOLEAN NOT NULL,
		partial BOOLEAN NOT NULL,
		new_betslip_code VARCHAR(32),
		selections JSONB NOT NULL DEFAULT '[]',
		warnings JSONB NOT NULL DEFAULT '[]',
		error TEXT,
		processing_ms DECIMAL(12, 2) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_conversion_history_task_id ON conversion_history(task_id);
	CREATE INDEX IF NOT EXISTS idx_conversion_history_route
		ON conversion_history(source_bookmaker, destination_bookmaker);
	`
	_, err := h.db.ExecContext(ctx, query)
	return err
}

// Record appends one finished conversion to the history table.
func (h *PostgresHistory) Record(ctx context.Context, task models.ConversionTask, result models.ConversionResult) error {
	selections, err := json.Marshal(result.Selections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}
	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
	INSERT INTO conversion_history (
		task_id, betslip_code, source_bookmaker, destination_bookmaker,
		success, partial, new_betslip_code, selections, warnings, error, processing_ms
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = h.db.ExecContext(ctx, query,
		task.TaskID, task.BetslipCode, task.SourceBookmaker, task.DestinationBookmaker,
		result.Success, result.Partial, nullable(result.NewBetslipCode),
		selections, warnings, nullable(result.Error), result.ProcessingMS)
	if err != nil {
		return fmt.Errorf("failed to insert conversion history: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (h *PostgresHistory) Close() error {
	return h.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
