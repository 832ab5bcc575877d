package list_reservations

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// parseQuery разбирает необязательные from, to и status (через запятую или повтором)
func parseQuery(tenantID uuid.UUID, q url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{TenantID: tenantID}

	var err error
	if req.From, err = optionalDate(q.Get("from")); err != nil {
		return nil, err
	}
	if req.To, err = optionalDate(q.Get("to")); err != nil {
		return nil, err
	}

	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.Statuses = append(req.Statuses, part)
			}
		}
	}

	return req, nil
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
