package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func tr(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.MustTimeString(start), End: types.MustTimeString(end)}
}

func ranges(slots []domain.TimeSlot) []domain.TimeRange {
	out := make([]domain.TimeRange, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Range)
	}
	return out
}

func TestComputeSlots_NoReservations(t *testing.T) {
	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:00")}},
		30,
		nil,
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("09:00", "09:30"), tr("09:30", "10:00")}, ranges(got))
	for _, s := range got {
		assert.Equal(t, monday, s.Date)
	}
}

func TestComputeSlots_OneReservation(t *testing.T) {
	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:00")}},
		30,
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "09:30")}},
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("09:30", "10:00")}, ranges(got))
}

func TestComputeSlots_BusyOnOtherDateIgnored(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)

	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:00")}},
		60,
		map[time.Time][]domain.TimeRange{tuesday: {tr("09:00", "10:00")}},
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("09:00", "10:00")}, ranges(got))
}

func TestComputeSlots_NoSlidingIntoGaps(t *testing.T) {
	// занято 09:00-09:15: окно 09:00-09:30 отбрасывается, курсор не сдвигается на 09:15
	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:00")}},
		30,
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "09:15")}},
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("09:30", "10:00")}, ranges(got))
}

func TestComputeSlots_TailDoesNotFit(t *testing.T) {
	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:10")}},
		30,
		nil,
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("09:00", "09:30"), tr("09:30", "10:00")}, ranges(got))
}

func TestComputeSlots_SkipsDegenerateRanges(t *testing.T) {
	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{monday: {tr("12:00", "12:00"), tr("14:00", "13:00"), tr("15:00", "16:00")}},
		60,
		nil,
	)

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{tr("15:00", "16:00")}, ranges(got))
}

func TestComputeSlots_EmptyInput(t *testing.T) {
	got, err := ComputeSlots(nil, 30, nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeSlots_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -15} {
		_, err := ComputeSlots(map[time.Time][]domain.TimeRange{monday: {tr("09:00", "10:00")}}, d, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestComputeSlots_OrderedAcrossDatesAndRanges(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)

	got, err := ComputeSlots(
		map[time.Time][]domain.TimeRange{
			tuesday: {tr("08:00", "09:00")},
			monday:  {tr("14:00", "15:00"), tr("09:00", "10:00")},
		},
		60,
		nil,
	)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.TimeSlot{Date: monday, Range: tr("09:00", "10:00")}, got[0])
	assert.Equal(t, domain.TimeSlot{Date: monday, Range: tr("14:00", "15:00")}, got[1])
	assert.Equal(t, domain.TimeSlot{Date: tuesday, Range: tr("08:00", "09:00")}, got[2])
}

func TestComputeSlots_GridProperties(t *testing.T) {
	periods := []domain.TimeRange{tr("08:00", "12:45"), tr("13:10", "19:00")}
	busy := []domain.TimeRange{tr("09:10", "09:50"), tr("14:00", "14:01"), tr("18:00", "19:00")}

	for _, d := range []int{5, 15, 25, 40, 60, 90} {
		got, err := ComputeSlots(
			map[time.Time][]domain.TimeRange{monday: periods},
			d,
			map[time.Time][]domain.TimeRange{monday: busy},
		)
		require.NoError(t, err)

		for _, s := range got {
			assert.Equal(t, d, s.Range.DurationMinutes())

			inPeriod := false
			for _, p := range periods {
				if p.Contains(s.Range) {
					inPeriod = true
					// слот лежит на сетке своего интервала
					assert.Zero(t, (s.Range.Start.Minutes()-p.Start.Minutes())%d)
				}
			}
			assert.True(t, inPeriod, "slot %s outside working hours", s.Range)

			for _, b := range busy {
				assert.False(t, domain.RangesOverlap(s.Range, b), "slot %s overlaps busy %s", s.Range, b)
			}
		}
	}
}

func TestComputeSlots_Idempotent(t *testing.T) {
	periods := map[time.Time][]domain.TimeRange{
		monday:                  {tr("09:00", "17:00")},
		monday.AddDate(0, 0, 1): {tr("10:00", "12:00"), tr("13:00", "18:00")},
	}
	busy := map[time.Time][]domain.TimeRange{monday: {tr("11:00", "12:30")}}

	first, err := ComputeSlots(periods, 45, busy)
	require.NoError(t, err)
	second, err := ComputeSlots(periods, 45, busy)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeSlotsForDate(t *testing.T) {
	got, err := ComputeSlotsForDate(monday.Add(13*time.Hour), []domain.TimeRange{tr("09:00", "10:00")}, 30, []domain.TimeRange{tr("09:30", "10:00")})

	require.NoError(t, err)
	assert.Equal(t, []domain.TimeSlot{{Date: monday, Range: tr("09:00", "09:30")}}, got)
}
