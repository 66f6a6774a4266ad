package services

import (
	"time"

	"roomdesk-backend/models"
)

// dateOf strips the clock from a timestamp, keeping the calendar day in the
// same location. Date-grain columns (seasonal rates, maintenance blocks)
// compare against this.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atCheckInHour and atCheckOutHour pin date-only input to the hotel's wall
// times: stays begin at 14:00 and end at 11:00.
func atCheckInHour(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 14, 0, 0, 0, d.Location())
}

func atCheckOutHour(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 11, 0, 0, 0, d.Location())
}

// nightsIn counts the nights priced or checked over the half-open range
// [checkIn, checkOut) at day grain.
func nightsIn(checkIn, checkOut time.Time) int {
	n := 0
	for curr := checkIn; curr.Before(checkOut); curr = curr.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// resolveMultiplier returns the price multiplier for one night. Room-type
// scoped rates win over tenant-wide wildcard rows; within a scope the first
// match in store order is taken. Rate bounds are inclusive on both ends at
// date grain.
func resolveMultiplier(rates []models.SeasonalRate, roomTypeID uint, night time.Time) float64 {
	d := dateOf(night)
	for i := range rates {
		r := &rates[i]
		if r.RoomTypeID == nil || *r.RoomTypeID != roomTypeID {
			continue
		}
		if !r.StartDate.After(d) && !r.EndDate.Before(d) {
			return r.Multiplier
		}
	}
	for i := range rates {
		r := &rates[i]
		if r.RoomTypeID != nil {
			continue
		}
		if !r.StartDate.After(d) && !r.EndDate.Before(d) {
			return r.Multiplier
		}
	}
	return 1.0
}

// sumNightly walks [checkIn, checkOut) one night at a time and accumulates
// base price times that night's multiplier. An empty or inverted range sums
// to zero; rejecting such ranges is the caller's job.
func sumNightly(base float64, rates []models.SeasonalRate, roomTypeID uint, checkIn, checkOut time.Time) float64 {
	total := 0.0
	for curr := checkIn; curr.Before(checkOut); curr = curr.AddDate(0, 0, 1) {
		total += base * resolveMultiplier(rates, roomTypeID, curr)
	}
	return total
}

// bookingOverlapsNight is the half-open overlap test for occupancy: a stay
// holds a night when it begins before the night ends and ends after the
// night begins.
func bookingOverlapsNight(b *models.Booking, nightStart, nightEnd time.Time) bool {
	return b.CheckIn.Before(nightEnd) && b.CheckOut.After(nightStart)
}

// blockOverlapsNight applies the same test at date grain; a block whose end
// date equals the night's day does not hold it (checkout-style end).
func blockOverlapsNight(m *models.MaintenanceBlock, nightStart, nightEnd time.Time) bool {
	return m.StartDate.Before(dateOf(nightEnd)) && m.EndDate.After(dateOf(nightStart))
}

// minRemaining computes the range-level remaining count: per night, subtract
// overlapping bookings and blocked quantities from the total; the tightest
// night gates the whole range. The first fully-booked night short-circuits
// to (false, 0). Callers pass bookings already filtered to occupying
// statuses.
func minRemaining(total int, bookings []models.Booking, blocks []models.MaintenanceBlock, checkIn, checkOut time.Time) (bool, int) {
	minAvail := total
	for curr := checkIn; curr.Before(checkOut); curr = curr.AddDate(0, 0, 1) {
		nightEnd := curr.AddDate(0, 0, 1)

		occupied := 0
		for i := range bookings {
			if bookingOverlapsNight(&bookings[i], curr, nightEnd) {
				occupied++
			}
		}
		blocked := 0
		for i := range blocks {
			if blockOverlapsNight(&blocks[i], curr, nightEnd) {
				blocked += blocks[i].QtyBlocked
			}
		}

		avail := total - occupied - blocked
		if avail <= 0 {
			return false, 0
		}
		if avail < minAvail {
			minAvail = avail
		}
	}
	return true, minAvail
}
