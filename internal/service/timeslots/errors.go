package timeslots

import "errors"

var (
	// ErrTimeSlotNotFound возвращается, когда слот не найден
	ErrTimeSlotNotFound = errors.New("timeslots: time slot not found")

	// ErrHallNotFound возвращается, когда зал для проверки доступности не найден
	ErrHallNotFound = errors.New("timeslots: hall not found")

	// ErrOverlap возвращается, если слот пересекается с другим активным слотом
	ErrOverlap = errors.New("timeslots: time slot overlaps an active time slot")

	// ErrTimeSlotInUse возвращается при удалении слота с активными бронированиями
	ErrTimeSlotInUse = errors.New("timeslots: time slot has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("timeslots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("timeslots: internal error")
)
