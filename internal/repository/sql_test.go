package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder keeps every statement gorm renders.
type sqlRecorder struct {
	logger.Interface

	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statements) == 0 {
		t.Fatal("no statement rendered")
	}
	return r.statements[len(r.statements)-1]
}

// newDryRunDB renders postgres SQL without a server.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	recorder := &sqlRecorder{Interface: logger.Discard}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=clinic dbname=clinic sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               recorder,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, recorder
}

func TestTallyBySpecialtyBetween_SingleConditionalAggregate(t *testing.T) {
	db, recorder := newDryRunDB(t)
	repo := NewAppointmentRepository(db)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	// DryRun cannot scan rows, so only the rendered statement matters
	_, _ = repo.TallyBySpecialtyBetween(context.Background(), entity.SpecialtyCardiology, from, from.AddDate(0, 0, 7))

	sql := recorder.last(t)
	for _, want := range []string{
		"SUM(CASE WHEN appointments.status =",
		"COUNT(CASE WHEN appointments.status =",
		"JOIN doctors ON doctors.id = appointments.doctor_id",
		"doctors.specialty =",
		"appointments.appointment_time >=",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("statement missing %q:\n%s", want, sql)
		}
	}
	if n := strings.Count(strings.ToUpper(sql), "SELECT"); n != 1 {
		t.Errorf("SELECT count = %d, want 1:\n%s", n, sql)
	}
	if len(recorder.statements) != 1 {
		t.Errorf("statements = %d, want 1", len(recorder.statements))
	}
}

func TestFindByIDForUpdate_LocksRow(t *testing.T) {
	db, recorder := newDryRunDB(t)
	repo := NewDoctorRepository(db)
	id := uuid.New()

	_, _ = repo.FindByIDForUpdate(context.Background(), id)
	locked := recorder.last(t)
	if !strings.HasSuffix(strings.TrimSpace(locked), "FOR UPDATE") {
		t.Errorf("statement does not lock the row:\n%s", locked)
	}
	if !strings.Contains(locked, id.String()) {
		t.Errorf("statement does not filter by id:\n%s", locked)
	}

	_, _ = repo.FindByID(context.Background(), id)
	if plain := recorder.last(t); strings.Contains(plain, "FOR UPDATE") {
		t.Errorf("plain lookup takes a row lock:\n%s", plain)
	}
}
