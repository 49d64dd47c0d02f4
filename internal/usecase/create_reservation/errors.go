package create_reservation

import "errors"

var (
	// ErrHallNotFound возвращается, когда зал не найден или неактивен
	ErrHallNotFound = errors.New("create_reservation: hall not found")

	// ErrTimeSlotNotFound возвращается, когда слот не найден или неактивен
	ErrTimeSlotNotFound = errors.New("create_reservation: time slot not found")

	// ErrServiceNotFound возвращается, когда одна из услуг не найдена или неактивна
	ErrServiceNotFound = errors.New("create_reservation: service not found")

	// ErrClientNotFound возвращается, когда клиент не найден, неактивен или не является клиентом
	ErrClientNotFound = errors.New("create_reservation: client not found")

	// ErrForbidden возвращается, когда пользователь бронирует от имени другого клиента
	ErrForbidden = errors.New("create_reservation: access denied")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_reservation: reservation date is in the past")

	// ErrTooLateToBook возвращается, когда сегодняшний слот уже начался
	ErrTooLateToBook = errors.New("create_reservation: time slot has already started")

	// ErrSlotNotAvailable возвращается, когда зал в этот слот на эту дату уже занят
	ErrSlotNotAvailable = errors.New("create_reservation: hall is already reserved for this date and time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
