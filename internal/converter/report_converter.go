package converter

import (
	"time"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// TallyToUtilization renders the scheduled minutes of a tally, with hours rounded to 2 places
func TallyToUtilization(specialty entity.Specialty, from, to time.Time, tally entity.WeeklyTally) *dto.UtilizationResponse {
	return &dto.UtilizationResponse{
		Specialty:        string(specialty),
		WeekStart:        from,
		WeekEnd:          to,
		ScheduledMinutes: tally.ScheduledMinutes,
		ScheduledHours:   decimal.NewFromInt(tally.ScheduledMinutes).Div(minutesPerHour).Round(2),
	}
}

// TallyToPerformance renders the completed/cancelled counters of a tally
func TallyToPerformance(specialty entity.Specialty, from, to time.Time, tally entity.WeeklyTally) *dto.PerformanceResponse {
	return &dto.PerformanceResponse{
		Specialty:      string(specialty),
		WeekStart:      from,
		WeekEnd:        to,
		CompletedCount: tally.CompletedCount,
		CancelledCount: tally.CancelledCount,
	}
}
