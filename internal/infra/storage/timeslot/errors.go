package timeslot

import "errors"

var (
	// ErrTimeSlotNotFound возвращается, когда временной слот не найден
	ErrTimeSlotNotFound = errors.New("timeslot.repository: time slot not found")

	// ErrOverlap возвращается при нарушении exclusion-ограничения на пересечение активных слотов
	ErrOverlap = errors.New("timeslot.repository: time slot overlaps an active slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)
