package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/domain/rule"
	"clinic-scheduling/internal/infrastructure/metrics"
	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AppointmentSchedulerUsecase interface {
	ScheduleAppointment(ctx context.Context, now time.Time, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListDoctorAppointments(ctx context.Context, now time.Time, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
	CompleteAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentSchedulerUsecase struct {
	tx              repository.Transactor
	log             *logrus.Logger
	location        *time.Location
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	locker          service.AdmissionLocker
	auditService    service.AuditService
	metrics         *metrics.Admissions
}

func NewAppointmentSchedulerUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	location *time.Location,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	locker service.AdmissionLocker,
	auditService service.AuditService,
	admissions *metrics.Admissions,
) AppointmentSchedulerUsecase {
	return &appointmentSchedulerUsecase{
		tx:              tx,
		log:             log,
		location:        location,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		locker:          locker,
		auditService:    auditService,
		metrics:         admissions,
	}
}

// ScheduleAppointment validates and books an appointment as of now.
//
// Flow:
// 1. Lock the doctor id so two admissions for one doctor run one after another
// 2. In one transaction:
//   - load the doctor with a row lock (absent doctor is a violation, not an error)
//   - load the doctor's scheduled appointments for that calendar day
//   - run every rule, insert on success
//
// Shift and overlap checks are skipped when the doctor does not exist.
func (u *appointmentSchedulerUsecase) ScheduleAppointment(ctx context.Context, now time.Time, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	input := rule.AppointmentInput{
		PatientName:     req.PatientName,
		DoctorID:        req.DoctorID,
		AppointmentTime: req.AppointmentTime,
		ReasonForVisit:  req.ReasonForVisit,
		DurationMinutes: req.DurationMinutes,
	}

	unlock, err := u.locker.Lock(ctx, service.DoctorLockPrefix+req.DoctorID.String())
	if err != nil {
		u.log.Warnf("Failed to lock doctor %s for appointment admission: %+v", req.DoctorID, err)
		u.metrics.Failed(metrics.KindAppointment)
		return nil, storeError("acquire admission lock", err)
	}
	defer unlock()

	var appointment *entity.Appointment
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		doctor, err := u.doctorRepo.FindByIDForUpdate(ctx, req.DoctorID)
		if err != nil {
			return storeError("find doctor", err)
		}

		facts := rule.AppointmentFacts{
			Doctor:   doctor,
			Now:      now,
			Location: u.location,
		}
		if doctor != nil {
			dayStart, dayEnd := entity.DayWindow(req.AppointmentTime, u.location)
			facts.Booked, err = u.appointmentRepo.FindScheduledByDoctorBetween(ctx, doctor.ID, dayStart, dayEnd)
			if err != nil {
				return storeError("find booked appointments", err)
			}
		}

		if violations := rule.CheckAppointment(input, facts); len(violations) > 0 {
			return &ValidationError{Violations: violations}
		}

		appointment = &entity.Appointment{
			ID:              uuid.New(),
			PatientName:     strings.TrimSpace(req.PatientName),
			DoctorID:        doctor.ID,
			AppointmentTime: req.AppointmentTime,
			ReasonForVisit:  strings.TrimSpace(req.ReasonForVisit),
			Status:          entity.AppointmentStatusScheduled,
			DurationMinutes: req.DurationMinutes,
			ClinicRoom:      req.ClinicRoom,
		}
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			return storeError("insert appointment", err)
		}
		appointment.Doctor = doctor

		if err := u.auditService.LogCreate(ctx, entity.AuditActionAppointmentSchedule, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
			return storeError("write audit log", err)
		}
		return nil
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			u.log.Infof("Appointment admission rejected for doctor %s: %s", req.DoctorID, strings.Join(validationErr.Messages(), "; "))
			u.metrics.Rejected(metrics.KindAppointment, validationErr.Violations)
			return nil, validationErr
		}
		u.log.Warnf("Failed to schedule appointment for doctor %s: %+v", req.DoctorID, err)
		u.metrics.Failed(metrics.KindAppointment)
		return nil, storeError("schedule appointment", err)
	}

	u.metrics.Admitted(metrics.KindAppointment)
	u.log.Infof("Appointment scheduled: id=%s, doctor=%s, at=%s, duration=%d",
		appointment.ID, appointment.DoctorID, appointment.AppointmentTime.Format(time.RFC3339), appointment.DurationMinutes)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentSchedulerUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, storeError("find appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListDoctorAppointments returns every appointment of the doctor on date
// (YYYY-MM-DD, clinic timezone). An empty date means the day containing now.
func (u *appointmentSchedulerUsecase) ListDoctorAppointments(ctx context.Context, now time.Time, doctorID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	day := now
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		day = parsed
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	from, to := entity.DayWindow(day, u.location)
	appointments, err := u.appointmentRepo.FindByDoctorBetween(ctx, doctorID, from, to)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, storeError("list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentSchedulerUsecase) CompleteAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.AppointmentStatusCompleted, entity.AuditActionAppointmentComplete)
}

func (u *appointmentSchedulerUsecase) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, appointmentID, entity.AppointmentStatusCancelled, entity.AuditActionAppointmentCancel)
}

// transition moves a scheduled appointment to next. The update is
// conditional on the row still being scheduled, so two concurrent
// transitions cannot both succeed.
func (u *appointmentSchedulerUsecase) transition(ctx context.Context, appointmentID uuid.UUID, next entity.AppointmentStatus, action string) (*dto.AppointmentResponse, error) {
	var updated *entity.Appointment
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := u.appointmentRepo.FindByID(ctx, appointmentID)
		if err != nil {
			return storeError("find appointment", err)
		}
		if current == nil {
			return ErrAppointmentNotFound
		}
		if !current.Status.CanTransitionTo(next) {
			return ErrAppointmentNotScheduled
		}

		affected, err := u.appointmentRepo.TransitionStatus(ctx, appointmentID, entity.AppointmentStatusScheduled, next)
		if err != nil {
			return storeError("update appointment status", err)
		}
		if affected == 0 {
			return ErrAppointmentNotScheduled
		}

		updated, err = u.appointmentRepo.FindByID(ctx, appointmentID)
		if err != nil {
			return storeError("reload appointment", err)
		}

		if err := u.auditService.LogUpdate(ctx, action, "appointment", appointmentID.String(),
			map[string]string{"status": string(current.Status)},
			map[string]string{"status": string(next)}); err != nil {
			return storeError("write audit log", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAppointmentNotFound) && !errors.Is(err, ErrAppointmentNotScheduled) {
			u.log.Warnf("Failed to move appointment %s to %s: %+v", appointmentID, next, err)
		}
		return nil, err
	}

	u.log.Infof("Appointment %s: id=%s", next, appointmentID)
	return converter.AppointmentToResponse(updated), nil
}
