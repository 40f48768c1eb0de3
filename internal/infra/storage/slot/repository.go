package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/dbmetrics"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/psqlbuilder"
)

const (
	tableSlots = "schedule_slots"

	columnDate = "to_char(slot_date, 'YYYY-MM-DD')"

	// Коды PostgreSQL: конкурентное изменение той же строки в SERIALIZABLE транзакции
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// Repository каталог слотов в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureCatalog добавляет отсутствующие слоты как свободные (ON CONFLICT DO NOTHING)
func (r *Repository) EnsureCatalog(ctx context.Context, slots []domain.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableSlots).Columns("slot_date", "slot_time", "available")
	for _, s := range slots {
		insert = insert.Values(s.Date, s.Time.String(), true)
	}

	query, args, err := insert.Suffix("ON CONFLICT (slot_date, slot_time) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureCatalog - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureCatalog - execute insert: %v", ErrExecQuery, err)
	}

	added, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureCatalog - get rows affected: %v", ErrExecQuery, err)
	}
	return int(added), nil
}

// List возвращает слоты, отсортированные по (date, time)
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columnDate, "slot_time", "available").
		From(tableSlots)

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *filter.Date})
	}
	if !filter.IncludeUnavailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": true})
	}

	query, args, err := selectBuilder.OrderBy("slot_date ASC", "slot_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0)
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.Date, &s.Time, &s.Available); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Get возвращает слот по ключу
func (r *Repository) Get(ctx context.Context, key domain.SlotKey) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columnDate, "slot_time", "available").
		From(tableSlots).
		Where(squirrel.Eq{"slot_date": key.Date}).
		Where(squirrel.Eq{"slot_time": key.Time.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Slot
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.Date, &s.Time, &s.Available)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan slot: %v", ErrScanRow, err)
	}

	return &s, nil
}

// Reserve атомарно переводит слот из свободного в занятый (compare-and-swap по флагу available)
func (r *Repository) Reserve(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlots).
		Set("available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_date": key.Date}).
		Where(squirrel.Eq{"slot_time": key.Time.String()}).
		Where(squirrel.Eq{"available": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		// Слот занят параллельной транзакцией, которая уже зафиксирована
		if isConcurrentUpdate(err) {
			return fmt.Errorf("%w: Reserve - concurrent update: %v", ErrSlotNotAvailable, err)
		}
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 1 {
		return nil
	}

	// Ни одна строка не обновлена: слота нет или он уже занят
	if _, err := r.Get(ctx, key); err != nil {
		return err
	}
	return ErrSlotNotAvailable
}

// Release освобождает слот. Повторное освобождение и неизвестный слот не являются ошибкой
func (r *Repository) Release(ctx context.Context, key domain.SlotKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSlots).
		Set("available", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_date": key.Date}).
		Where(squirrel.Eq{"slot_time": key.Time.String()}).
		Where(squirrel.Eq{"available": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

func isConcurrentUpdate(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}
