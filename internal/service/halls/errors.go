package halls

import "errors"

var (
	// ErrHallNotFound возвращается, когда зал не найден
	ErrHallNotFound = errors.New("halls: hall not found")

	// ErrTimeSlotNotFound возвращается, когда слот для проверки доступности не найден
	ErrTimeSlotNotFound = errors.New("halls: time slot not found")

	// ErrDuplicateHall возвращается, если активный зал с таким названием и адресом уже есть
	ErrDuplicateHall = errors.New("halls: hall with this title and address already exists")

	// ErrHallInUse возвращается при удалении зала с активными бронированиями
	ErrHallInUse = errors.New("halls: hall has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("halls: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("halls: internal error")
)
