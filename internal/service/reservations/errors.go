package reservations

import (
	"errors"
	"fmt"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservations: reservation not found")

	// ErrForbidden возвращается, когда у пользователя нет доступа к бронированию
	ErrForbidden = errors.New("reservations: access denied")

	// ErrTerminalState возвращается при попытке изменить завершенное бронирование
	ErrTerminalState = errors.New("reservations: reservation is in a terminal state")

	// ErrAlreadyCancelled бронирование уже отменено
	ErrAlreadyCancelled = fmt.Errorf("%w: already cancelled", ErrTerminalState)

	// ErrAlreadyCompleted бронирование уже завершено
	ErrAlreadyCompleted = fmt.Errorf("%w: already completed", ErrTerminalState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)
