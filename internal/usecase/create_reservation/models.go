package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	HallID     int64
	Date       time.Time // дата без времени
	TimeSlotID int64
	ServiceIDs []int64
	ClientID   *int64 // обязателен для ADMIN/EMPLOYEE, для CLIENT может совпадать только с ним самим
}
