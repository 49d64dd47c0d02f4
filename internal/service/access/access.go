// Package access maps a principal's role to the operations it may perform.
package access

import (
	"errors"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// ErrForbidden возвращается, когда роль или владение не позволяют операцию
var ErrForbidden = errors.New("access: forbidden")

// Operation действие, которое проверяет политика
type Operation string

const (
	ReservationCreate   Operation = "reservation.create"
	ReservationRead     Operation = "reservation.read"
	ReservationCancel   Operation = "reservation.cancel"
	ReservationListMine Operation = "reservation.list_mine"
	ReservationListAll  Operation = "reservation.list_all"

	// CatalogBrowse чтение активных залов, слотов и услуг
	CatalogBrowse Operation = "catalog.browse"
	// CatalogManage создание, изменение, удаление, восстановление и просмотр неактивных записей
	CatalogManage Operation = "catalog.manage"
	// CatalogReport статистика по услугам
	CatalogReport Operation = "catalog.report"

	UserManage Operation = "user.manage"
)

var clientOps = map[Operation]bool{
	ReservationCreate:   true,
	ReservationRead:     true,
	ReservationCancel:   true,
	ReservationListMine: true,
	CatalogBrowse:       true,
}

var employeeOps = map[Operation]bool{
	ReservationCreate:  true,
	ReservationRead:    true,
	ReservationCancel:  true,
	ReservationListAll: true,
	CatalogBrowse:      true,
	CatalogManage:      true,
	CatalogReport:      true,
}

// Authorize проверяет, может ли principal выполнить op.
// ownerID владелец ресурса (клиент бронирования), nil если ресурс не персональный.
func Authorize(principal domain.Principal, op Operation, ownerID *int64) error {
	switch principal.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleEmployee:
		if employeeOps[op] {
			return nil
		}
	case domain.RoleClient:
		if !clientOps[op] {
			return ErrForbidden
		}
		if ownerID != nil && *ownerID != principal.UserID {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

// Can то же, что Authorize, в виде bool
func Can(principal domain.Principal, op Operation) bool {
	return Authorize(principal, op, nil) == nil
}
