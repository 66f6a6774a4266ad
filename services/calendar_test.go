package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"roomdesk-backend/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func scopedRate(roomTypeID uint, start, end time.Time, mult float64) models.SeasonalRate {
	id := roomTypeID
	return models.SeasonalRate{RoomTypeID: &id, StartDate: start, EndDate: end, Multiplier: mult}
}

func wildcardRate(start, end time.Time, mult float64) models.SeasonalRate {
	return models.SeasonalRate{StartDate: start, EndDate: end, Multiplier: mult}
}

func TestNightsIn(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 10))
	checkOut := atCheckOutHour(day(2026, 7, 13))
	assert.Equal(t, 3, nightsIn(checkIn, checkOut))

	assert.Equal(t, 1, nightsIn(atCheckInHour(day(2026, 7, 10)), atCheckOutHour(day(2026, 7, 11))))
	assert.Equal(t, 0, nightsIn(atCheckInHour(day(2026, 7, 10)), atCheckOutHour(day(2026, 7, 10))))
	assert.Equal(t, 0, nightsIn(atCheckInHour(day(2026, 7, 13)), atCheckOutHour(day(2026, 7, 10))))
}

func TestResolveMultiplier_ScopedBeatsWildcard(t *testing.T) {
	rates := []models.SeasonalRate{
		wildcardRate(day(2026, 7, 1), day(2026, 7, 31), 2.0),
		scopedRate(5, day(2026, 7, 1), day(2026, 7, 31), 1.5),
	}

	// Room type 5 takes its own rate even though the wildcard sits first.
	assert.Equal(t, 1.5, resolveMultiplier(rates, 5, day(2026, 7, 10)))
	// Other types fall through to the wildcard.
	assert.Equal(t, 2.0, resolveMultiplier(rates, 9, day(2026, 7, 10)))
}

func TestResolveMultiplier_DefaultOutsideAnyWindow(t *testing.T) {
	rates := []models.SeasonalRate{
		wildcardRate(day(2026, 7, 1), day(2026, 7, 31), 2.0),
	}
	assert.Equal(t, 1.0, resolveMultiplier(rates, 5, day(2026, 8, 1)))
	assert.Equal(t, 1.0, resolveMultiplier(nil, 5, day(2026, 7, 10)))
}

func TestResolveMultiplier_InclusiveBounds(t *testing.T) {
	rates := []models.SeasonalRate{
		wildcardRate(day(2026, 7, 1), day(2026, 7, 31), 1.3),
	}
	assert.Equal(t, 1.3, resolveMultiplier(rates, 1, day(2026, 7, 1)))
	assert.Equal(t, 1.3, resolveMultiplier(rates, 1, day(2026, 7, 31)))
	assert.Equal(t, 1.0, resolveMultiplier(rates, 1, day(2026, 6, 30)))
	assert.Equal(t, 1.0, resolveMultiplier(rates, 1, day(2026, 8, 1)))
}

func TestResolveMultiplier_FirstMatchInStoreOrderWins(t *testing.T) {
	rates := []models.SeasonalRate{
		scopedRate(5, day(2026, 7, 1), day(2026, 7, 31), 1.5),
		scopedRate(5, day(2026, 7, 10), day(2026, 7, 20), 3.0),
	}
	assert.Equal(t, 1.5, resolveMultiplier(rates, 5, day(2026, 7, 15)))
}

func TestResolveMultiplier_IgnoresTimeOfDay(t *testing.T) {
	rates := []models.SeasonalRate{
		wildcardRate(day(2026, 7, 1), day(2026, 7, 31), 1.3),
	}
	// The night is pinned to 14:00 but matches at date grain.
	assert.Equal(t, 1.3, resolveMultiplier(rates, 1, atCheckInHour(day(2026, 7, 31))))
}

func TestSumNightly_AdditiveAcrossRateBoundary(t *testing.T) {
	// Two nights inside a 1.25 window plus one night outside it.
	rates := []models.SeasonalRate{
		wildcardRate(day(2026, 7, 1), day(2026, 7, 31), 1.25),
	}
	checkIn := atCheckInHour(day(2026, 7, 30))
	checkOut := atCheckOutHour(day(2026, 8, 2))

	total := sumNightly(100, rates, 1, checkIn, checkOut)
	assert.InDelta(t, 100*1.25+100*1.25+100*1.0, total, 1e-9)
}

func TestSumNightly_EmptyRangeIsZero(t *testing.T) {
	total := sumNightly(100, nil, 1, atCheckInHour(day(2026, 7, 10)), atCheckOutHour(day(2026, 7, 10)))
	assert.Zero(t, total)
}

func stay(unitID *uint, checkInDay, checkOutDay time.Time) models.Booking {
	return models.Booking{
		RoomUnitID: unitID,
		CheckIn:    atCheckInHour(checkInDay),
		CheckOut:   atCheckOutHour(checkOutDay),
		Status:     models.BookingStatusConfirmed,
	}
}

func TestMinRemaining_TightestNightGatesTheRange(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 10))
	checkOut := atCheckOutHour(day(2026, 7, 13))

	// Night of the 11th carries two stays, the others one.
	bookings := []models.Booking{
		stay(nil, day(2026, 7, 10), day(2026, 7, 12)),
		stay(nil, day(2026, 7, 11), day(2026, 7, 13)),
	}

	ok, remaining := minRemaining(5, bookings, nil, checkIn, checkOut)
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)
}

func TestMinRemaining_FullNightShortCircuits(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 10))
	checkOut := atCheckOutHour(day(2026, 7, 13))

	bookings := []models.Booking{
		stay(nil, day(2026, 7, 11), day(2026, 7, 12)),
		stay(nil, day(2026, 7, 11), day(2026, 7, 12)),
	}

	ok, remaining := minRemaining(2, bookings, nil, checkIn, checkOut)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
}

func TestMinRemaining_CheckoutDayFreesTheNight(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 12))
	checkOut := atCheckOutHour(day(2026, 7, 13))

	// Prior guest leaves at 11:00 on the 12th; the night of the 12th is free.
	bookings := []models.Booking{
		stay(nil, day(2026, 7, 10), day(2026, 7, 12)),
	}

	ok, remaining := minRemaining(1, bookings, nil, checkIn, checkOut)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestMinRemaining_BlockQuantitySubtracts(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 10))
	checkOut := atCheckOutHour(day(2026, 7, 12))

	blocks := []models.MaintenanceBlock{
		{StartDate: day(2026, 7, 10), EndDate: day(2026, 7, 11), QtyBlocked: 2},
	}

	ok, remaining := minRemaining(5, nil, blocks, checkIn, checkOut)
	assert.True(t, ok)
	assert.Equal(t, 3, remaining)
}

func TestMinRemaining_BlockEndDateIsExclusive(t *testing.T) {
	checkIn := atCheckInHour(day(2026, 7, 11))
	checkOut := atCheckOutHour(day(2026, 7, 12))

	// Block ends on the 11th, checkout-style: the night of the 11th is open.
	blocks := []models.MaintenanceBlock{
		{StartDate: day(2026, 7, 9), EndDate: day(2026, 7, 11), QtyBlocked: 1},
	}

	ok, remaining := minRemaining(1, nil, blocks, checkIn, checkOut)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestMinRemaining_EmptyRangeKeepsTotal(t *testing.T) {
	at := atCheckInHour(day(2026, 7, 10))
	ok, remaining := minRemaining(4, nil, nil, at, at)
	assert.True(t, ok)
	assert.Equal(t, 4, remaining)
}
