package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrAppointmentCancelled возвращается при попытке изменить отменённую запись
	ErrAppointmentCancelled = errors.New("appointment.repository: appointment already cancelled")

	// ErrSlotOccupied возвращается, когда на слот уже есть активная запись
	ErrSlotOccupied = errors.New("appointment.repository: slot already has an active appointment")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
