// Package txmanager менеджер транзакций для БД, обёрнутой в dbmetrics.
// Открытая транзакция передается через контекст (dbmetrics.WithTx),
// поэтому репозитории присоединяются к ней без изменения сигнатур.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/TMP-LessonService/pkg/dbmetrics"
)

// ErrBusy возвращается при конфликте сериализации, дедлоке или таймауте
// ожидания блокировки. Вызывающая сторона может повторить операцию.
var ErrBusy = errors.New("txmanager: transaction aborted due to contention")

// Коды ошибок PostgreSQL, после которых операцию имеет смысл повторить
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// IsRetryable возвращает true для ошибок, при которых транзакцию можно повторить
func IsRetryable(err error) bool {
	if errors.Is(err, ErrBusy) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return true
		}
	}
	return false
}

// TxBeginner интерфейс источника транзакций (реализуется *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер транзакций
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (read committed)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// Используется там, где проверка и запись должны быть атомарны
// (создание бронирования, каскадная отмена).
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.do(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("txmanager: rollback failed: %v (original error: %w)", rbErr, err)
		}
		if IsRetryable(err) {
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsRetryable(err) {
			return fmt.Errorf("%w: commit: %v", ErrBusy, err)
		}
		return fmt.Errorf("txmanager: commit: %w", err)
	}

	return nil
}
