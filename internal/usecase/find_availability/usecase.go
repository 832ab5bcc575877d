package find_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/core/slots"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/catalog"
)

// UseCase use case поиска свободных слотов
type UseCase struct {
	serviceRepo     ServiceRepository
	scheduleRepo    ScheduleRepository
	reservationRepo ReservationRepository
	location        *time.Location
	maxDays         int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс бизнеса, maxDays - максимальная длина периода поиска в днях.
func NewUseCase(
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	reservationRepo ReservationRepository,
	location *time.Location,
	maxDays int,
	logger Logger,
) *UseCase {
	if maxDays <= 0 {
		maxDays = domain.DefaultMaxAvailabilityDays
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		serviceRepo:     serviceRepo,
		scheduleRepo:    scheduleRepo,
		reservationRepo: reservationRepo,
		location:        location,
		maxDays:         maxDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case поиска свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailability: tenant=%s, from=%s, to=%s, services=%d",
		req.TenantID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), len(req.ServiceIDs))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDays); err != nil {
		uc.logger.Warn("FindAvailability: validation failed: %v", err)
		return nil, err
	}
	from, to := domain.DateOf(req.From), domain.DateOf(req.To)

	// 2. Получаем услуги и суммарную длительность
	services, err := uc.serviceRepo.FindByIDs(ctx, req.TenantID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("FindAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("FindAvailability: failed to load services: %v", err)
		return nil, fmt.Errorf("%w: failed to load services: %v", ErrInternal, err)
	}

	duration := 0
	for _, s := range services {
		duration += s.DurationMinutes
	}

	// 3. Получаем рабочие часы по дням недели
	weekly, err := uc.scheduleRepo.FindWeeklyHours(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("FindAvailability: failed to load working hours: %v", err)
		return nil, fmt.Errorf("%w: failed to load working hours: %v", ErrInternal, err)
	}

	// 4. Получаем занимающие время бронирования за период
	reservations, err := uc.reservationRepo.FindByTenantAndDateRange(ctx, req.TenantID, from, to, domain.BlockingStatuses)
	if err != nil {
		uc.logger.Error("FindAvailability: failed to load reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to load reservations: %v", ErrInternal, err)
	}

	// 5. Раскладываем по датам
	periods := make(map[time.Time][]domain.TimeRange)
	for _, date := range domain.DatesBetween(from, to) {
		if hours := weekly[date.Weekday()]; len(hours) > 0 {
			periods[date] = hours
		}
	}

	busy := make(map[time.Time][]domain.TimeRange)
	for _, r := range reservations {
		if !r.IsBlocking() {
			continue
		}
		date := domain.DateOf(r.Date)
		busy[date] = append(busy[date], r.Range())
	}

	// 6. Генерируем слоты
	generated, err := slots.ComputeSlots(periods, duration, busy)
	if err != nil {
		uc.logger.Warn("FindAvailability: slot generation failed: %v", err)
		return nil, err
	}

	// 7. Отбрасываем уже начавшиеся слоты
	now := uc.timeProvider.Now()
	resp := &Response{
		DurationMinutes: duration,
		Slots:           make([]Slot, 0, len(generated)),
	}
	for _, s := range generated {
		if s.StartsAt(uc.location).Before(now) {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{Date: s.Date, StartTime: s.Range.Start, EndTime: s.Range.End})
	}

	uc.logger.Info("FindAvailability: found %d slots of %d minutes for tenant=%s",
		len(resp.Slots), duration, req.TenantID)
	return resp, nil
}
