package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("users: user not found")

	// ErrDuplicateEmail возвращается, если email занят активным пользователем
	ErrDuplicateEmail = errors.New("users: email already in use")

	// ErrUserInUse возвращается при удалении клиента с активными бронированиями
	ErrUserInUse = errors.New("users: user has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
