package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response DTOs

type UtilizationResponse struct {
	Specialty        string          `json:"specialty"`
	WeekStart        time.Time       `json:"week_start"`
	WeekEnd          time.Time       `json:"week_end"`
	ScheduledMinutes int64           `json:"scheduled_minutes"`
	ScheduledHours   decimal.Decimal `json:"scheduled_hours"`
}

type PerformanceResponse struct {
	Specialty      string    `json:"specialty"`
	WeekStart      time.Time `json:"week_start"`
	WeekEnd        time.Time `json:"week_end"`
	CompletedCount int64     `json:"completed_count"`
	CancelledCount int64     `json:"cancelled_count"`
}
