package usecase_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/infrastructure/cache"
	"clinic-scheduling/internal/infrastructure/metrics"
	"clinic-scheduling/internal/repository/memory"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// monday is the fixed admission instant used across these tests.
var monday = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func at(day int, hhmm string) time.Time {
	c := entity.MustClockTime(hhmm)
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC).Add(c.Duration())
}

type testEnv struct {
	doctors      usecase.DoctorRegistryUsecase
	appointments usecase.AppointmentSchedulerUsecase
	reports      usecase.UtilizationUsecase
	auditLogs    usecase.AuditLogUsecase
}

type envOption func(*envDeps)

type envDeps struct {
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditRepo       repository.AuditLogRepository
}

func withAuditRepo(r repository.AuditLogRepository) envOption {
	return func(d *envDeps) { d.auditRepo = r }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	deps := &envDeps{
		doctorRepo:      store.Doctors(),
		appointmentRepo: store.Appointments(),
		auditRepo:       store.AuditLogs(),
	}
	for _, opt := range opts {
		opt(deps)
	}

	locker := service.NewLocalLocker(log, time.Second)
	t.Cleanup(locker.Stop)

	doctorCache, err := cache.NewDoctorCache(16)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	admissions := metrics.NewAdmissions(prometheus.NewRegistry())
	auditService := service.NewAuditService(log, deps.auditRepo)

	return &testEnv{
		doctors:      usecase.NewDoctorRegistryUsecase(store, log, deps.doctorRepo, locker, auditService, doctorCache, admissions),
		appointments: usecase.NewAppointmentSchedulerUsecase(store, log, time.UTC, deps.doctorRepo, deps.appointmentRepo, locker, auditService, admissions),
		reports:      usecase.NewUtilizationUsecase(log, time.UTC, deps.appointmentRepo),
		auditLogs:    usecase.NewAuditLogUsecase(log, deps.auditRepo),
	}
}

func doctorRequest() *dto.CreateDoctorRequest {
	return &dto.CreateDoctorRequest{
		FirstName:   "Jane",
		LastName:    "Smith",
		Specialty:   "Cardiology",
		PhoneNumber: "555-123-4567",
		Email:       "jane.smith@clinic.test",
		ShiftStart:  "09:00",
		ShiftEnd:    "17:00",
	}
}

func (e *testEnv) admitDoctor(t *testing.T, modify func(*dto.CreateDoctorRequest)) *dto.DoctorResponse {
	t.Helper()
	req := doctorRequest()
	if modify != nil {
		modify(req)
	}
	doctor, err := e.doctors.AdmitDoctor(context.Background(), req)
	if err != nil {
		t.Fatalf("AdmitDoctor: %v", err)
	}
	return doctor
}

func (e *testEnv) schedule(t *testing.T, doctor *dto.DoctorResponse, start time.Time, minutes int) *dto.AppointmentResponse {
	t.Helper()
	appointment, err := e.appointments.ScheduleAppointment(context.Background(), monday, &dto.CreateAppointmentRequest{
		PatientName:     "John Doe",
		DoctorID:        doctor.ID,
		AppointmentTime: start,
		ReasonForVisit:  "Checkup",
		DurationMinutes: minutes,
	})
	if err != nil {
		t.Fatalf("ScheduleAppointment(%s, %d): %v", start.Format(time.RFC3339), minutes, err)
	}
	return appointment
}

func (e *testEnv) counts(t *testing.T) (doctors, audits int) {
	t.Helper()
	ctx := context.Background()
	d, err := e.doctors.ListDoctors(ctx)
	if err != nil {
		t.Fatalf("ListDoctors: %v", err)
	}
	a, err := e.auditLogs.ListAuditLogs(ctx, &dto.AuditLogQuery{})
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	return d.Total, a.Total
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *usecase.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return validationErr.Messages()
}

var errStoreDown = errors.New("connection refused")

// failingAuditRepo fails every write.
type failingAuditRepo struct {
	repository.AuditLogRepository
}

func (failingAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	return errStoreDown
}

// failingTallyRepo fails aggregate reads.
type failingTallyRepo struct {
	repository.AppointmentRepository
}

func (failingTallyRepo) TallyBySpecialtyBetween(ctx context.Context, specialty entity.Specialty, from, to time.Time) (entity.WeeklyTally, error) {
	return entity.WeeklyTally{}, errStoreDown
}
