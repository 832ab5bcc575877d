package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Tenant изолированный бизнес-аккаунт
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Phone     *string
	Email     *string
	Address   *string
	Enabled   bool
	CreatedAt time.Time
}

// ConfigKey ключ настройки тенанта
type ConfigKey string

const (
	ConfigMinDaysBeforeCancellation ConfigKey = "MIN_DAYS_BEFORE_CANCELLATION"
	ConfigMinDaysBeforeConfirmation ConfigKey = "MIN_DAYS_BEFORE_CONFIRMATION"
)

// KnownConfigKeys все поддерживаемые ключи
var KnownConfigKeys = []ConfigKey{
	ConfigMinDaysBeforeCancellation,
	ConfigMinDaysBeforeConfirmation,
}

// ConfigEntry сырая пара ключ/значение, как она хранится в БД
type ConfigEntry struct {
	Key   ConfigKey
	Value string
}

// TenantPolicy типизированные временные правила тенанта.
// nil означает, что правило выключено.
type TenantPolicy struct {
	MinDaysBeforeCancellation *uint
	MinDaysBeforeConfirmation *uint
}

// ParseConfigValue парсит неотрицательное целое значение настройки
func ParseConfigValue(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConfigValue, raw)
	}
	return uint(v), nil
}

// ParsePolicy собирает политику из сырых настроек.
// Некорректные и неизвестные записи пропускаются, ошибки по ним возвращаются вместе с политикой.
func ParsePolicy(entries []ConfigEntry) (TenantPolicy, error) {
	var (
		policy TenantPolicy
		errs   []error
	)

	for _, e := range entries {
		switch e.Key {
		case ConfigMinDaysBeforeCancellation, ConfigMinDaysBeforeConfirmation:
			v, err := ParseConfigValue(e.Value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
				continue
			}
			if e.Key == ConfigMinDaysBeforeCancellation {
				policy.MinDaysBeforeCancellation = &v
			} else {
				policy.MinDaysBeforeConfirmation = &v
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownConfigKey, e.Key))
		}
	}

	return policy, errors.Join(errs...)
}

// Entries раскладывает политику обратно в пары ключ/значение (только заданные правила)
func (p TenantPolicy) Entries() []ConfigEntry {
	entries := make([]ConfigEntry, 0, len(KnownConfigKeys))
	if p.MinDaysBeforeCancellation != nil {
		entries = append(entries, ConfigEntry{
			Key:   ConfigMinDaysBeforeCancellation,
			Value: strconv.FormatUint(uint64(*p.MinDaysBeforeCancellation), 10),
		})
	}
	if p.MinDaysBeforeConfirmation != nil {
		entries = append(entries, ConfigEntry{
			Key:   ConfigMinDaysBeforeConfirmation,
			Value: strconv.FormatUint(uint64(*p.MinDaysBeforeConfirmation), 10),
		})
	}
	return entries
}

// MinDaysBefore возвращает минимальный запас в днях для перехода в target
func (p TenantPolicy) MinDaysBefore(target ReservationStatus) *uint {
	switch target {
	case StatusCancelled:
		return p.MinDaysBeforeCancellation
	case StatusConfirmed:
		return p.MinDaysBeforeConfirmation
	default:
		return nil
	}
}
