package find_availability

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	findAvailability "github.com/m04kA/SMC-ReservationService/internal/usecase/find_availability"
)

// SlotResponse свободный слот
type SlotResponse struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:45"
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// parseQuery собирает запрос use case из query параметров.
// serviceIds принимается как через запятую, так и повторением параметра.
func parseQuery(q url.Values) (*findAvailability.Request, error) {
	from, err := domain.ParseDate(q.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := domain.ParseDate(q.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	var ids []uuid.UUID
	for _, raw := range q["serviceIds"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, fmt.Errorf("serviceIds: %w", err)
			}
			ids = append(ids, id)
		}
	}

	return &findAvailability.Request{From: from, To: to, ServiceIDs: ids}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return out
}
