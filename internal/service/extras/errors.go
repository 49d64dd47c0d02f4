package extras

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("extras: service not found")

	// ErrDuplicateService возвращается, если активная услуга с таким описанием уже есть
	ErrDuplicateService = errors.New("extras: service with this description already exists")

	// ErrServiceInUse возвращается при удалении услуги, связанной с активными бронированиями
	ErrServiceInUse = errors.New("extras: service is linked to active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("extras: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("extras: internal error")
)
