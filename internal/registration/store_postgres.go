package registration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
)

// PostgresStore persists records in a single table. The feature vector and
// status history live in JSONB columns; the only indexed access path is the
// primary key, matching the full-scan-with-predicate contract.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the registrations table when missing. The service owns its
// schema; there is no separate migration tool at this scale.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registrations (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			email          TEXT NOT NULL,
			phone          TEXT NOT NULL,
			features       JSONB NOT NULL,
			fraud_bool     INT NOT NULL,
			confirmed      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL,
			status_history JSONB NOT NULL,
			version        INT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, record *Record) error {
	featuresJSON, err := json.Marshal(record.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	historyJSON, err := json.Marshal(record.History)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO registrations (id, name, email, phone, features, fraud_bool, confirmed, created_at, status_history, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		record.ID,
		record.Name,
		record.Email,
		record.Phone,
		featuresJSON,
		record.FraudBool,
		record.Confirmed,
		record.CreatedAt,
		historyJSON,
		record.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Record, error) {
	return s.query(ctx, Filter{})
}

func (s *PostgresStore) ListWhere(ctx context.Context, filter Filter) ([]*Record, error) {
	return s.query(ctx, filter)
}

func (s *PostgresStore) query(ctx context.Context, filter Filter) ([]*Record, error) {
	query := `
		SELECT id, name, email, phone, features, fraud_bool, confirmed, created_at, status_history, version
		FROM registrations
	`
	var args []any
	switch {
	case filter.ID != nil:
		query += ` WHERE id = $1`
		args = append(args, *filter.ID)
	case filter.FraudBool != nil:
		query += ` WHERE fraud_bool = $1`
		args = append(args, *filter.FraudBool)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresStore) Update(ctx context.Context, id string, expectedVersion int, patch Patch) error {
	historyJSON, err := json.Marshal(patch.History)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE registrations
		SET fraud_bool = $3, confirmed = $4, status_history = $5, version = version + 1
		WHERE id = $1 AND version = $2
	`, id, expectedVersion, patch.FraudBool, patch.Confirmed, historyJSON)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Disambiguate: the row is either missing or at a different version.
	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM registrations WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check registration existence: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrVersionMismatch
}

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		var (
			r            Record
			featuresJSON []byte
			historyJSON  []byte
		)
		err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Email,
			&r.Phone,
			&featuresJSON,
			&r.FraudBool,
			&r.Confirmed,
			&r.CreatedAt,
			&historyJSON,
			&r.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if err := json.Unmarshal(featuresJSON, &r.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features: %w", err)
		}
		if err := json.Unmarshal(historyJSON, &r.History); err != nil {
			return nil, fmt.Errorf("unmarshal status history: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return records, nil
}
