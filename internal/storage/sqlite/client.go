package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/storage"
	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_records (
		id TEXT PRIMARY KEY,
		document_name TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		source_text TEXT NOT NULL,
		document_summary TEXT NOT NULL,
		risk_assessment TEXT NOT NULL,
		financial_terms TEXT NOT NULL,
		obligations TEXT NOT NULL,
		key_clauses TEXT NOT NULL,
		overall_risk_level TEXT NOT NULL,
		ai_confidence REAL NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_created ON analysis_records(created_at);
	CREATE INDEX IF NOT EXISTS idx_records_risk ON analysis_records(overall_risk_level);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// InsertRecord creates a new analysis record. Ids are never reused, so a
// primary key conflict is reported as an error rather than upserted.
func (c *Client) InsertRecord(ctx context.Context, record *models.AnalysisRecord) error {
	summaryJSON, err := json.Marshal(record.DocumentSummary)
	if err != nil {
		return fmt.Errorf("failed to encode document summary: %w", err)
	}
	riskJSON, err := json.Marshal(record.RiskAssessment)
	if err != nil {
		return fmt.Errorf("failed to encode risk assessment: %w", err)
	}
	financialJSON, err := json.Marshal(record.FinancialTerms)
	if err != nil {
		return fmt.Errorf("failed to encode financial terms: %w", err)
	}
	obligationsJSON, err := json.Marshal(record.Obligations)
	if err != nil {
		return fmt.Errorf("failed to encode obligations: %w", err)
	}
	clausesJSON, err := json.Marshal(record.KeyClauses)
	if err != nil {
		return fmt.Errorf("failed to encode key clauses: %w", err)
	}

	query := `
		INSERT INTO analysis_records (id, document_name, analysis_type, source_text,
			document_summary, risk_assessment, financial_terms, obligations, key_clauses,
			overall_risk_level, ai_confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.ExecContext(ctx, query,
		record.ID,
		record.DocumentName,
		record.AnalysisType,
		record.SourceText,
		string(summaryJSON),
		string(riskJSON),
		string(financialJSON),
		string(obligationsJSON),
		string(clausesJSON),
		record.RiskAssessment.OverallRiskLevel,
		record.AIConfidence,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	logger.Debug("Analysis record inserted",
		zap.String("analysis_id", record.ID),
		zap.String("document_name", record.DocumentName),
	)
	return nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	query := `
		SELECT id, document_name, analysis_type, source_text, document_summary,
			risk_assessment, financial_terms, obligations, key_clauses, ai_confidence, created_at
		FROM analysis_records WHERE id = ?
	`

	var (
		record                                                             models.AnalysisRecord
		summaryJSON, riskJSON, financialJSON, obligationsJSON, clausesJSON string
		createdAt                                                          int64
	)

	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.DocumentName,
		&record.AnalysisType,
		&record.SourceText,
		&summaryJSON,
		&riskJSON,
		&financialJSON,
		&obligationsJSON,
		&clausesJSON,
		&record.AIConfidence,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}

	if err := json.Unmarshal([]byte(summaryJSON), &record.DocumentSummary); err != nil {
		return nil, fmt.Errorf("failed to decode document summary: %w", err)
	}
	if err := json.Unmarshal([]byte(riskJSON), &record.RiskAssessment); err != nil {
		return nil, fmt.Errorf("failed to decode risk assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(financialJSON), &record.FinancialTerms); err != nil {
		return nil, fmt.Errorf("failed to decode financial terms: %w", err)
	}
	if err := json.Unmarshal([]byte(obligationsJSON), &record.Obligations); err != nil {
		return nil, fmt.Errorf("failed to decode obligations: %w", err)
	}
	if err := json.Unmarshal([]byte(clausesJSON), &record.KeyClauses); err != nil {
		return nil, fmt.Errorf("failed to decode key clauses: %w", err)
	}
	record.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &record, nil
}

func (c *Client) ListRecords(ctx context.Context, limit int) ([]models.RecordSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, document_name, analysis_type, overall_risk_level, ai_confidence, created_at
		FROM analysis_records
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.RecordSummary, 0)
	for rows.Next() {
		var s models.RecordSummary
		var createdAt int64

		if err := rows.Scan(&s.ID, &s.DocumentName, &s.AnalysisType, &s.OverallRiskLevel, &s.AIConfidence, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return summaries, nil
}

// DeleteRecord removes a record permanently. Deleting an id that does not
// exist reports storage.ErrNotFound so callers can distinguish the no-op.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM analysis_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	logger.Info("Analysis record deleted", zap.String("analysis_id", id))
	return nil
}
