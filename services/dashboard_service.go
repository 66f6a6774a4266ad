package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"roomdesk-backend/models"
)

// DashboardService assembles the front-desk landing payload: today's
// movements, upcoming and in-house lists, revenue figures, the 14-day
// arrivals chart, and the audit tail.
type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{DB: db, Now: now}
}

// ChartPoint is one day of the arrivals revenue chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DashboardData struct {
	TodayCheckIns      []models.Booking  `json:"today_check_ins"`
	TodayCheckOuts     []models.Booking  `json:"today_check_outs"`
	TomorrowCheckIns   []models.Booking  `json:"tomorrow_check_ins"`
	TomorrowCheckOuts  []models.Booking  `json:"tomorrow_check_outs"`
	Upcoming           []models.Booking  `json:"upcoming"`
	Active             []models.Booking  `json:"active"`
	Revenue            float64           `json:"revenue"`
	FutureDeposits     float64           `json:"future_deposits"`
	OutstandingBalance float64           `json:"outstanding_balance"`
	OccupancyPercent   int               `json:"occupancy_percent"`
	Chart              []ChartPoint      `json:"chart"`
	Logs               []models.AuditLog `json:"logs"`
}

func (s *DashboardService) scoped(siteID uint) *gorm.DB {
	return s.DB.
		Preload("RoomType").
		Preload("RoomUnit").
		Where("site_config_id = ?", siteID)
}

// movementsOn lists non-cancelled bookings whose given date column falls on
// the day starting at dayStart.
func (s *DashboardService) movementsOn(siteID uint, column string, dayStart time.Time) ([]models.Booking, error) {
	dayEnd := dayStart.AddDate(0, 0, 1)
	var bookings []models.Booking
	err := s.scoped(siteID).
		Where(fmt.Sprintf("%s >= ? AND %s < ?", column, column), dayStart, dayEnd).
		Where("status <> ?", models.BookingStatusCancelled).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s movements: %w", column, err)
	}
	return bookings, nil
}

// Summary builds the whole dashboard. sortBy "created" orders the upcoming
// list by creation time, anything else by arrival date; search narrows it by
// booking code or guest name.
func (s *DashboardService) Summary(siteID uint, sortBy, search string) (*DashboardData, error) {
	today := dateOf(s.Now())
	tomorrow := today.AddDate(0, 0, 1)

	data := &DashboardData{}
	var err error

	if data.TodayCheckIns, err = s.movementsOn(siteID, "check_in", today); err != nil {
		return nil, err
	}
	if data.TodayCheckOuts, err = s.movementsOn(siteID, "check_out", today); err != nil {
		return nil, err
	}
	if data.TomorrowCheckIns, err = s.movementsOn(siteID, "check_in", tomorrow); err != nil {
		return nil, err
	}
	if data.TomorrowCheckOuts, err = s.movementsOn(siteID, "check_out", tomorrow); err != nil {
		return nil, err
	}

	upcomingQuery := s.scoped(siteID).Where("check_in >= ?", today)
	if search != "" {
		like := "%" + search + "%"
		upcomingQuery = upcomingQuery.Where("booking_code LIKE ? OR guest_name LIKE ?", like, like)
	}
	order := "check_in ASC"
	if sortBy == "created" {
		order = "created_at DESC"
	}
	if err := upcomingQuery.Order(order).Find(&data.Upcoming).Error; err != nil {
		return nil, fmt.Errorf("failed to load upcoming bookings: %w", err)
	}

	err = s.scoped(siteID).
		Where("status = ?", models.BookingStatusCheckedIn).
		Order("check_out ASC").
		Find(&data.Active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active bookings: %w", err)
	}

	for i := range data.Upcoming {
		b := &data.Upcoming[i]
		for _, st := range models.HistoryStatuses {
			if b.Status == st {
				data.Revenue += b.TotalPrice
				break
			}
		}
	}

	err = s.DB.Model(&models.Booking{}).
		Where("site_config_id = ? AND check_in >= ?", siteID, today).
		Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
		Select("COALESCE(SUM(deposit_amount), 0)").
		Scan(&data.FutureDeposits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum deposits: %w", err)
	}

	// Balance tracking has no data source yet; the field is kept so the
	// dashboard payload stays stable.
	data.OutstandingBalance = 0.0

	if data.OccupancyPercent, err = s.occupancy(siteID, today); err != nil {
		return nil, err
	}
	if data.Chart, err = s.arrivalsChart(siteID, today); err != nil {
		return nil, err
	}

	audit := &AuditService{DB: s.DB, Now: s.Now}
	if data.Logs, err = audit.Tail(siteID, 100); err != nil {
		return nil, err
	}
	return data, nil
}

// occupancy is the share of all units held at the start of today, as a
// truncated percentage.
func (s *DashboardService) occupancy(siteID uint, todayStart time.Time) (int, error) {
	var occupied int64
	err := s.DB.Model(&models.Booking{}).
		Where("site_config_id = ?", siteID).
		Where("check_in <= ? AND check_out > ?", todayStart, todayStart).
		Where("status IN ?", []string{models.BookingStatusCheckedIn, models.BookingStatusConfirmed}).
		Count(&occupied).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count occupied units: %w", err)
	}

	var totalUnits int
	err = s.DB.Model(&models.RoomType{}).
		Where("site_config_id = ?", siteID).
		Select("COALESCE(SUM(total_quantity), 0)").
		Scan(&totalUnits).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum unit capacity: %w", err)
	}
	if totalUnits == 0 {
		return 0, nil
	}
	return int(occupied) * 100 / totalUnits, nil
}

// arrivalsChart sums expected balances (total minus deposit) of confirmed
// bookings arriving on each of the next 14 days.
func (s *DashboardService) arrivalsChart(siteID uint, todayStart time.Time) ([]ChartPoint, error) {
	horizon := todayStart.AddDate(0, 0, 14)
	var arrivals []models.Booking
	err := s.DB.
		Where("site_config_id = ?", siteID).
		Where("status = ?", models.BookingStatusConfirmed).
		Where("check_in >= ? AND check_in < ?", todayStart, horizon).
		Find(&arrivals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chart arrivals: %w", err)
	}

	points := make([]ChartPoint, 0, 14)
	for day := todayStart; day.Before(horizon); day = day.AddDate(0, 0, 1) {
		next := day.AddDate(0, 0, 1)
		value := 0.0
		for i := range arrivals {
			b := &arrivals[i]
			if !b.CheckIn.Before(day) && b.CheckIn.Before(next) {
				value += b.TotalPrice - b.DepositAmount
			}
		}
		points = append(points, ChartPoint{Label: day.Format("Jan 02"), Value: value})
	}
	return points, nil
}
