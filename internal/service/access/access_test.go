package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

func TestAuthorize(t *testing.T) {
	admin := domain.Principal{UserID: 1, Role: domain.RoleAdmin}
	employee := domain.Principal{UserID: 2, Role: domain.RoleEmployee}
	client := domain.Principal{UserID: 3, Role: domain.RoleClient}
	unknown := domain.Principal{UserID: 4, Role: domain.Role(9)}

	own := int64(3)
	other := int64(99)

	tests := []struct {
		name      string
		principal domain.Principal
		op        Operation
		owner     *int64
		allowed   bool
	}{
		{"admin manages users", admin, UserManage, nil, true},
		{"admin lists own", admin, ReservationListMine, nil, true},
		{"admin cancels any", admin, ReservationCancel, &other, true},

		{"employee lists all", employee, ReservationListAll, nil, true},
		{"employee manages catalog", employee, CatalogManage, nil, true},
		{"employee reads foreign reservation", employee, ReservationRead, &other, true},
		{"employee cannot manage users", employee, UserManage, nil, false},
		{"employee has no own list", employee, ReservationListMine, nil, false},

		{"client reads own", client, ReservationRead, &own, true},
		{"client reads foreign", client, ReservationRead, &other, false},
		{"client cancels foreign", client, ReservationCancel, &other, false},
		{"client creates for self", client, ReservationCreate, &own, true},
		{"client creates for other", client, ReservationCreate, &other, false},
		{"client lists own", client, ReservationListMine, nil, true},
		{"client lists all", client, ReservationListAll, nil, false},
		{"client browses", client, CatalogBrowse, nil, true},
		{"client manages catalog", client, CatalogManage, nil, false},
		{"client reports", client, CatalogReport, nil, false},
		{"client manages users", client, UserManage, nil, false},

		{"unknown role", unknown, CatalogBrowse, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.op, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestCan(t *testing.T) {
	assert.True(t, Can(domain.Principal{Role: domain.RoleEmployee}, CatalogManage))
	assert.False(t, Can(domain.Principal{Role: domain.RoleClient}, CatalogManage))
}
