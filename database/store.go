package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"quoteserver/comparison"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// DBConfig конфигурация подключения к БД
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store хранилище котировок и запусков сравнения
type Store struct {
	conn *sql.DB
}

// StoredQuotation сохраненная котировка с метаданными хранения
type StoredQuotation struct {
	ID         string               `json:"id"`
	SourceFile string               `json:"source_file,omitempty"`
	Quotation  comparison.Quotation `json:"quotation"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// ComparisonRun сохраненный запуск сравнения
type ComparisonRun struct {
	ID           string             `json:"id"`
	QuotationIDs []string           `json:"quotation_ids"`
	Result       *comparison.Result `json:"result"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewStore создает подключение к базе данных и инициализирует схему
func NewStore(dbPath string) (*Store, error) {
	config := DBConfig{}

	// Для in-memory SQLite требуется ровно одно соединение, иначе каждое
	// новое соединение получает пустую БД без таблиц
	if isInMemoryDB(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}

	return NewStoreWithConfig(dbPath, config)
}

// isInMemoryDB определяет, что путь относится к in-memory SQLite
func isInMemoryDB(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	return strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory")
}

// NewStoreWithConfig создает подключение с явной конфигурацией пула
func NewStoreWithConfig(dbPath string, config DBConfig) (*Store, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite плохо справляется с большим количеством одновременных
	// соединений, ограничиваем пул
	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(3)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// WAL позволяет множественным читателям работать без блокировок
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Printf("[Store] Warning: Failed to enable WAL mode: %v", err)
	}

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema создает таблицы котировок и запусков сравнения
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quotations (
		id TEXT PRIMARY KEY,
		supplier_name TEXT NOT NULL,
		source_file TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_quotations_supplier ON quotations(supplier_name);

	CREATE TABLE IF NOT EXISTS comparison_runs (
		id TEXT PRIMARY KEY,
		quotation_ids TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_comparison_runs_created ON comparison_runs(created_at);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close закрывает подключение к базе данных
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping проверяет подключение к базе данных
func (s *Store) Ping() error {
	return s.conn.Ping()
}

// SaveQuotation сохраняет котировку и возвращает ее идентификатор
func (s *Store) SaveQuotation(quotation comparison.Quotation, sourceFile string) (*StoredQuotation, error) {
	if quotation.SupplierName == "" {
		return nil, fmt.Errorf("quotation supplier name is empty")
	}

	data, err := json.Marshal(quotation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quotation: %w", err)
	}

	now := time.Now().UTC()
	stored := &StoredQuotation{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		Quotation:  quotation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = s.conn.Exec(
		`INSERT INTO quotations (id, supplier_name, source_file, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		stored.ID, quotation.SupplierName, sourceFile, string(data), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quotation: %w", err)
	}

	return stored, nil
}

// GetQuotation возвращает котировку по идентификатору
func (s *Store) GetQuotation(id string) (*StoredQuotation, error) {
	row := s.conn.QueryRow(
		`SELECT id, source_file, data, created_at, updated_at FROM quotations WHERE id = ?`, id,
	)
	return scanQuotation(row)
}

// ListQuotations возвращает все котировки, новые первыми
func (s *Store) ListQuotations() ([]*StoredQuotation, error) {
	rows, err := s.conn.Query(
		`SELECT id, source_file, data, created_at, updated_at FROM quotations ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	var result []*StoredQuotation
	for rows.Next() {
		stored, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotations: %w", err)
	}
	return result, nil
}

// GetQuotations возвращает котировки по списку идентификаторов,
// сохраняя порядок запроса
func (s *Store) GetQuotations(ids []string) ([]*StoredQuotation, error) {
	result := make([]*StoredQuotation, 0, len(ids))
	for _, id := range ids {
		stored, err := s.GetQuotation(id)
		if err != nil {
			return nil, fmt.Errorf("quotation %s: %w", id, err)
		}
		result = append(result, stored)
	}
	return result, nil
}

// UpdateQuotation перезаписывает данные котировки
func (s *Store) UpdateQuotation(id string, quotation comparison.Quotation) (*StoredQuotation, error) {
	if quotation.SupplierName == "" {
		return nil, fmt.Errorf("quotation supplier name is empty")
	}

	data, err := json.Marshal(quotation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quotation: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.conn.Exec(
		`UPDATE quotations SET supplier_name = ?, data = ?, updated_at = ? WHERE id = ?`,
		quotation.SupplierName, string(data), now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetQuotation(id)
}

// DeleteQuotation удаляет котировку по идентификатору
func (s *Store) DeleteQuotation(id string) error {
	res, err := s.conn.Exec(`DELETE FROM quotations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveComparison сохраняет запуск сравнения
func (s *Store) SaveComparison(quotationIDs []string, result *comparison.Result) (*ComparisonRun, error) {
	resultData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	idsData, err := json.Marshal(quotationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quotation ids: %w", err)
	}

	run := &ComparisonRun{
		ID:           uuid.New().String(),
		QuotationIDs: quotationIDs,
		Result:       result,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.conn.Exec(
		`INSERT INTO comparison_runs (id, quotation_ids, result, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, string(idsData), string(resultData), run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comparison run: %w", err)
	}

	return run, nil
}

// GetComparison возвращает запуск сравнения по идентификатору
func (s *Store) GetComparison(id string) (*ComparisonRun, error) {
	row := s.conn.QueryRow(
		`SELECT id, quotation_ids, result, created_at FROM comparison_runs WHERE id = ?`, id,
	)
	return scanComparison(row)
}

// ListComparisons возвращает все запуски сравнения, новые первыми
func (s *Store) ListComparisons() ([]*ComparisonRun, error) {
	rows, err := s.conn.Query(
		`SELECT id, quotation_ids, result, created_at FROM comparison_runs ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison runs: %w", err)
	}
	defer rows.Close()

	var result []*ComparisonRun
	for rows.Next() {
		run, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comparison runs: %w", err)
	}
	return result, nil
}

// DeleteComparison удаляет запуск сравнения
func (s *Store) DeleteComparison(id string) error {
	res, err := s.conn.Exec(`DELETE FROM comparison_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comparison run: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner общий интерфейс sql.Row и sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanQuotation(row scanner) (*StoredQuotation, error) {
	var stored StoredQuotation
	var data string

	err := row.Scan(&stored.ID, &stored.SourceFile, &data, &stored.CreatedAt, &stored.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotation: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &stored.Quotation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quotation data: %w", err)
	}
	return &stored, nil
}

func scanComparison(row scanner) (*ComparisonRun, error) {
	var run ComparisonRun
	var idsData, resultData string

	err := row.Scan(&run.ID, &idsData, &resultData, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan comparison run: %w", err)
	}

	if err := json.Unmarshal([]byte(idsData), &run.QuotationIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quotation ids: %w", err)
	}
	if err := json.Unmarshal([]byte(resultData), &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comparison result: %w", err)
	}
	return &run, nil
}
