package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// DBServiceImpl implements the DBService interface
type DBServiceImpl struct {
	db *sql.DB
}

type DBOperations interface {
	Open(driverName, dataSourceName string) (*sql.DB, error)
	RunMigrations(db *sql.DB) error
}

// PostgresOperations opens real connections and applies the embedded
// migrations.
type PostgresOperations struct{}

func (PostgresOperations) Open(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

func (PostgresOperations) RunMigrations(db *sql.DB) error {
	return RunMigrations(db)
}

// NewDBService creates and returns a new DBService
func NewDBService(ops DBOperations, dsn string) (*DBServiceImpl, error) {
	db, err := ops.Open("postgres", dsn)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "open connection", Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &errors.DatabaseError{Operation: "ping database", Err: err}
	}

	if err := ops.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connection established")
	return &DBServiceImpl{db: db}, nil
}

// NewWithDB wraps an already opened connection.
func NewWithDB(db *sql.DB) *DBServiceImpl {
	return &DBServiceImpl{db: db}
}

func (s *DBServiceImpl) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &errors.DatabaseError{Operation: "ping database", Err: err}
	}
	return nil
}

func (s *DBServiceImpl) Close() error {
	return s.db.Close()
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (s *DBServiceImpl) inTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &errors.DatabaseError{Operation: operation + ": begin transaction", Err: err}
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &errors.DatabaseError{Operation: operation + ": commit", Err: err}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func rowsChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
