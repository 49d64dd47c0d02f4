package extra

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("extra.repository: service not found")

	// ErrDuplicate возвращается при нарушении уникальности описания среди активных услуг
	ErrDuplicate = errors.New("extra.repository: duplicate service description")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("extra.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("extra.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("extra.repository: failed to scan row")
)
