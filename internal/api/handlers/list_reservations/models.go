package list_reservations

import (
	"net/http"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/service/reservations/models"
)

// parseQuery читает фильтры списка: page, limit, status (или estado), hallId, clientId, date
func parseQuery(r *http.Request) (*models.ListAllRequest, error) {
	page, err := handlers.QueryPage(r)
	if err != nil {
		return nil, err
	}
	hallID, err := handlers.QueryInt64(r, "hallId")
	if err != nil {
		return nil, err
	}
	clientID, err := handlers.QueryInt64(r, "clientId")
	if err != nil {
		return nil, err
	}
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("status"))
	if status == "" {
		status = strings.TrimSpace(q.Get("estado"))
	}

	return &models.ListAllRequest{
		Page:     page,
		Status:   status,
		HallID:   hallID,
		ClientID: clientID,
		Date:     date,
	}, nil
}
