package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/logger"
	"github.com/huangsam/scholar/schema"
	"go.uber.org/zap"
)

// Table names for run history.
const (
	runsTable            = "scholar_runs"
	applicantScoresTable = "scholar_applicant_scores"
)

// HistoryTables lists the history tables in creation order.
var HistoryTables = []string{runsTable, applicantScoresTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	logger.L().Debug("history store ready", zap.String("backend", string(backend)))
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := []string{getCreateRunsQuery(backend), getCreateApplicantScoresQuery(backend)}
	for i, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", HistoryTables[i], err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for scholar_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				total_scored BIGINT,
				config_params TEXT,
				dataset_path VARCHAR(1024) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				total_scored BIGINT,
				config_params TEXT,
				dataset_path TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_scored INTEGER,
				config_params TEXT,
				dataset_path TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateApplicantScoresQuery returns the CREATE TABLE query for scholar_applicant_scores.
func getCreateApplicantScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(applicantScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				applicant_id VARCHAR(255) NOT NULL,
				scored_at DATETIME(6) NOT NULL,
				academic_score DOUBLE NOT NULL,
				financial_score DOUBLE NOT NULL,
				engagement_score DOUBLE NOT NULL,
				final_score DOUBLE NOT NULL,
				tier VARCHAR(50) NOT NULL,
				award_amount DOUBLE NOT NULL,
				applicant_rank INT NOT NULL,
				PRIMARY KEY (run_id, applicant_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				applicant_id TEXT NOT NULL,
				scored_at TIMESTAMPTZ NOT NULL,
				academic_score DOUBLE PRECISION NOT NULL,
				financial_score DOUBLE PRECISION NOT NULL,
				engagement_score DOUBLE PRECISION NOT NULL,
				final_score DOUBLE PRECISION NOT NULL,
				tier TEXT NOT NULL,
				award_amount DOUBLE PRECISION NOT NULL,
				applicant_rank INT NOT NULL,
				PRIMARY KEY (run_id, applicant_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				applicant_id TEXT NOT NULL,
				scored_at TEXT NOT NULL,
				academic_score REAL NOT NULL,
				financial_score REAL NOT NULL,
				engagement_score REAL NOT NULL,
				final_score REAL NOT NULL,
				tier TEXT NOT NULL,
				award_amount REAL NOT NULL,
				applicant_rank INTEGER NOT NULL,
				PRIMARY KEY (run_id, applicant_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new scoring run and returns its ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, datasetPath string, configParams map[string]any) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	runUUID := uuid.NewString()

	quotedTableName := quoteTableName(runsTable, hs.backend)
	columns := "run_uuid, start_time, config_params, dataset_path"
	args := []any{runUUID, formatTime(startTime, hs.backend), string(configJSON), datasetPath}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, quotedTableName, columns, placeholders(hs.backend, len(args)))
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, columns, placeholders(hs.backend, len(args)))
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert scoring run: %w", err)
	}

	logger.L().Debug("run started", zap.Int64("run_id", runID), zap.String("run_uuid", runUUID))
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalScored int) error {
	if hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	start := timeScanner{backend: hs.backend}
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	if startTime == nil {
		return fmt.Errorf("run %d has no start_time", runID)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_scored = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalScored, runID); err != nil {
		return fmt.Errorf("failed to update scoring run: %w", err)
	}
	return nil
}

// RecordApplicantScores stores the ranked results of a run in one transaction.
func (hs *HistoryStoreImpl) RecordApplicantScores(runID int64, records []schema.ApplicantScoreRecord) error {
	if hs.db == nil || len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, applicant_id, scored_at, academic_score, financial_score,
		                engagement_score, final_score, tier, award_amount, applicant_rank)
		VALUES (%s)
	`, quoteTableName(applicantScoresTable, hs.backend), placeholders(hs.backend, 10))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare applicant score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.ApplicantID, formatTime(r.ScoredAt, hs.backend),
			r.AcademicScore, r.FinancialScore, r.EngagementScore, r.FinalScore,
			r.Tier, r.AwardAmount, r.Rank); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert score for applicant %s: %w", r.ApplicantID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit applicant scores: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: hs.backend}
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := timeScanner{backend: hs.backend}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if err := row.Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}
	}

	for _, table := range HistoryTables {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalApplicantScores = int(status.TableSizes[applicantScoresTable])

	return status, nil
}

// GetAllRuns retrieves every stored run, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, total_scored, config_params, dataset_path
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		start := timeScanner{backend: hs.backend}
		end := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RunID, &record.RunUUID, start.dest(), end.dest(),
			&record.RunDurationMs, &record.TotalScored, &record.ConfigParams, &record.DatasetPath); err != nil {
			return nil, fmt.Errorf("failed to scan scoring run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scoring runs: %w", err)
	}
	return results, nil
}

// GetAllApplicantScores retrieves every stored applicant score ordered by run and rank.
func (hs *HistoryStoreImpl) GetAllApplicantScores() ([]schema.ApplicantScoreRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, applicant_id, scored_at, academic_score, financial_score,
		engagement_score, final_score, tier, award_amount, applicant_rank
		FROM %s ORDER BY run_id, applicant_rank`, quoteTableName(applicantScoresTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicant scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ApplicantScoreRecord
	for rows.Next() {
		var record schema.ApplicantScoreRecord
		scored := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RunID, &record.ApplicantID, scored.dest(),
			&record.AcademicScore, &record.FinancialScore, &record.EngagementScore, &record.FinalScore,
			&record.Tier, &record.AwardAmount, &record.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan applicant score: %w", err)
		}
		scoredAt, err := scored.value()
		if err != nil {
			return nil, err
		}
		if scoredAt != nil {
			record.ScoredAt = *scoredAt
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicant scores: %w", err)
	}
	return results, nil
}
