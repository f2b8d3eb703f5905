package usecase

import (
	"context"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// UtilizationUsecase aggregates appointments per specialty over the
// ISO week (Monday 00:00 to next Monday 00:00, clinic timezone) that
// contains now. An unknown specialty matches no doctors and reports zero.
type UtilizationUsecase interface {
	WeeklySpecialtyUtilization(ctx context.Context, now time.Time, specialty string) (*dto.UtilizationResponse, error)
	WeeklySpecialtyPerformance(ctx context.Context, now time.Time, specialty string) (*dto.PerformanceResponse, error)
}

type utilizationUsecase struct {
	log             *logrus.Logger
	location        *time.Location
	appointmentRepo repository.AppointmentRepository
}

func NewUtilizationUsecase(
	log *logrus.Logger,
	location *time.Location,
	appointmentRepo repository.AppointmentRepository,
) UtilizationUsecase {
	return &utilizationUsecase{
		log:             log,
		location:        location,
		appointmentRepo: appointmentRepo,
	}
}

// WeeklySpecialtyUtilization sums the durations of scheduled appointments.
func (u *utilizationUsecase) WeeklySpecialtyUtilization(ctx context.Context, now time.Time, specialty string) (*dto.UtilizationResponse, error) {
	s, from, to, tally, err := u.tally(ctx, now, specialty)
	if err != nil {
		return nil, err
	}
	return converter.TallyToUtilization(s, from, to, tally), nil
}

// WeeklySpecialtyPerformance counts completed and cancelled appointments.
func (u *utilizationUsecase) WeeklySpecialtyPerformance(ctx context.Context, now time.Time, specialty string) (*dto.PerformanceResponse, error) {
	s, from, to, tally, err := u.tally(ctx, now, specialty)
	if err != nil {
		return nil, err
	}
	return converter.TallyToPerformance(s, from, to, tally), nil
}

func (u *utilizationUsecase) tally(ctx context.Context, now time.Time, specialty string) (entity.Specialty, time.Time, time.Time, entity.WeeklyTally, error) {
	from, to := entity.WeekWindow(now, u.location)

	s, ok := entity.ParseSpecialty(specialty)
	if !ok {
		return s, from, to, entity.WeeklyTally{}, nil
	}

	tally, err := u.appointmentRepo.TallyBySpecialtyBetween(ctx, s, from, to)
	if err != nil {
		u.log.Warnf("Failed to tally appointments for %s: %+v", s, err)
		return s, from, to, entity.WeeklyTally{}, storeError("tally specialty week", err)
	}

	return s, from, to, tally, nil
}
