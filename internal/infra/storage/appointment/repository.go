package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VoiceReceptionist/internal/domain"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/dbmetrics"
	"github.com/m04kA/SMC-VoiceReceptionist/pkg/psqlbuilder"
)

const (
	tableAppointments = "appointments"

	// pqUniqueViolation код ошибки PostgreSQL unique_violation
	pqUniqueViolation = "23505"

	// pqSerializationFailure код конкурентного изменения в SERIALIZABLE транзакции
	pqSerializationFailure = "40001"
)

var appointmentColumns = []string{
	"id",
	"patient_name",
	"phone",
	"email",
	"to_char(appt_date, 'YYYY-MM-DD')",
	"appt_time",
	"appointment_type",
	"is_new_patient",
	"status",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

var returningAppointment = "RETURNING " + strings.Join(appointmentColumns, ", ")

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository хранилище записей в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую подтверждённую запись.
// Частичный уникальный индекс по (appt_date, appt_time) для активных записей
// превращается в ErrSlotOccupied.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAppointments).
		Columns(
			"patient_name",
			"phone",
			"email",
			"appt_date",
			"appt_time",
			"appointment_type",
			"is_new_patient",
			"status",
		).
		Values(
			appt.PatientName,
			appt.Phone,
			appt.Email,
			appt.Date,
			appt.Time.String(),
			appt.Type,
			appt.IsNewPatient,
			domain.StatusConfirmed,
		).
		Suffix(returningAppointment).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) || isSerializationFailure(err) {
			return nil, ErrSlotOccupied
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID возвращает запись по ID (включая отменённые)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments).
		Where(squirrel.Eq{"id": id})

	// В транзакции блокируем строку до конца операции
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// List возвращает записи в порядке создания
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(tableAppointments)

	if filter.Phone != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"phone": *filter.Phone})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusConfirmed})
	}

	query, args, err := selectBuilder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// FindByPhone возвращает активные записи пациента
func (r *Repository) FindByPhone(ctx context.Context, phone string) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentFilter{Phone: &phone})
}

// Reschedule переносит активную запись на другой слот
func (r *Repository) Reschedule(ctx context.Context, id int64, key domain.SlotKey) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("appt_date", key.Date).
		Set("appt_time", key.Time.String()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Suffix(returningAppointment).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.explainMissing(ctx, id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotOccupied
		}
		return nil, fmt.Errorf("%w: Reschedule - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// Cancel переводит запись в статус cancelled.
// Для уже отменённой записи возвращает ErrAppointmentCancelled.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableAppointments).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Suffix(returningAppointment).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	cancelled, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.explainMissing(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return cancelled, nil
}

// explainMissing определяет, почему UPDATE ... WHERE status = 'confirmed' не затронул строк
func (r *Repository) explainMissing(ctx context.Context, id int64) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsCancelled() {
		return ErrAppointmentCancelled
	}
	return fmt.Errorf("%w: appointment id=%d changed concurrently", ErrExecQuery, id)
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.PatientName,
		&appt.Phone,
		&appt.Email,
		&appt.Date,
		&appt.Time,
		&appt.Type,
		&appt.IsNewPatient,
		&appt.Status,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqSerializationFailure
}
