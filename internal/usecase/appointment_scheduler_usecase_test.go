package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/usecase"

	"github.com/google/uuid"
)

func TestScheduleAppointment_JaneSmith(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor := env.admitDoctor(t, nil)

	room := "B-12"
	appointment, err := env.appointments.ScheduleAppointment(ctx, monday, &dto.CreateAppointmentRequest{
		PatientName:     "John Doe",
		DoctorID:        doctor.ID,
		AppointmentTime: at(10, "10:00"),
		ReasonForVisit:  "Chest pain follow-up",
		DurationMinutes: 30,
		ClinicRoom:      &room,
	})
	if err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}

	if appointment.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if appointment.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("status = %q, want scheduled", appointment.Status)
	}
	if !appointment.EndTime.Equal(at(10, "10:30")) {
		t.Errorf("end = %s, want 10:30", appointment.EndTime)
	}
	if appointment.ClinicRoom == nil || *appointment.ClinicRoom != room {
		t.Errorf("clinic room = %v, want %s", appointment.ClinicRoom, room)
	}

	// Overlapping request for the same doctor
	_, err = env.appointments.ScheduleAppointment(ctx, monday, &dto.CreateAppointmentRequest{
		PatientName:     "Mary Major",
		DoctorID:        doctor.ID,
		AppointmentTime: at(10, "10:15"),
		ReasonForVisit:  "Palpitations",
		DurationMinutes: 30,
	})
	messages := validationMessages(t, err)
	if !reflect.DeepEqual(messages, []string{"appointment conflicts with an existing appointment"}) {
		t.Errorf("messages = %v", messages)
	}

	// Touching request is accepted
	env.schedule(t, doctor, at(10, "10:30"), 30)

	list, err := env.appointments.ListDoctorAppointments(ctx, monday, doctor.ID, "")
	if err != nil {
		t.Fatalf("ListDoctorAppointments: %v", err)
	}
	if list.Total != 2 {
		t.Errorf("appointments = %d, want 2", list.Total)
	}
}

func TestScheduleAppointment_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*dto.CreateAppointmentRequest)
		want   []string
	}{
		{
			name:   "bad_duration",
			modify: func(r *dto.CreateAppointmentRequest) { r.DurationMinutes = 20 },
			want:   []string{"duration must be a positive multiple of 15 minutes"},
		},
		{
			name:   "too_soon",
			modify: func(r *dto.CreateAppointmentRequest) { r.AppointmentTime = monday.Add(15 * time.Minute) },
			want: []string{
				"appointment must be scheduled at least 30 minutes in advance",
				"appointment must fall within the doctor's shift",
			},
		},
		{
			name:   "outside_shift",
			modify: func(r *dto.CreateAppointmentRequest) { r.AppointmentTime = at(10, "16:45") },
			want:   []string{"appointment must fall within the doctor's shift"},
		},
		{
			name:   "blank_reason",
			modify: func(r *dto.CreateAppointmentRequest) { r.ReasonForVisit = "   " },
			want:   []string{"reason for visit is required"},
		},
		{
			name:   "blank_patient",
			modify: func(r *dto.CreateAppointmentRequest) { r.PatientName = "" },
			want:   []string{"patient name is required"},
		},
		{
			name: "missing_doctor_skips_shift_and_overlap",
			modify: func(r *dto.CreateAppointmentRequest) {
				r.DoctorID = uuid.New()
				r.AppointmentTime = at(10, "23:00")
			},
			want: []string{"doctor does not exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			doctor := env.admitDoctor(t, nil)

			req := &dto.CreateAppointmentRequest{
				PatientName:     "John Doe",
				DoctorID:        doctor.ID,
				AppointmentTime: at(10, "11:00"),
				ReasonForVisit:  "Checkup",
				DurationMinutes: 30,
			}
			tt.modify(req)

			_, err := env.appointments.ScheduleAppointment(context.Background(), monday, req)
			messages := validationMessages(t, err)
			if !reflect.DeepEqual(messages, tt.want) {
				t.Errorf("messages = %v, want %v", messages, tt.want)
			}

			list, err := env.appointments.ListDoctorAppointments(context.Background(), monday, doctor.ID, "2025-03-10")
			if err != nil {
				t.Fatalf("ListDoctorAppointments: %v", err)
			}
			if list.Total != 0 {
				t.Errorf("appointments = %d, want none written", list.Total)
			}
		})
	}
}

func TestScheduleAppointment_OtherDayDoesNotConflict(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.admitDoctor(t, nil)

	env.schedule(t, doctor, at(10, "10:00"), 60)
	env.schedule(t, doctor, at(11, "10:00"), 60)
}

func TestScheduleAppointment_CancelledSlotIsFree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor := env.admitDoctor(t, nil)

	first := env.schedule(t, doctor, at(10, "10:00"), 30)
	if _, err := env.appointments.CancelAppointment(ctx, first.ID); err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}

	env.schedule(t, doctor, at(10, "10:00"), 30)
}

func TestAppointmentTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor := env.admitDoctor(t, nil)
	appointment := env.schedule(t, doctor, at(10, "10:00"), 30)

	completed, err := env.appointments.CompleteAppointment(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("CompleteAppointment: %v", err)
	}
	if completed.Status != string(entity.AppointmentStatusCompleted) {
		t.Errorf("status = %q, want completed", completed.Status)
	}

	if _, err := env.appointments.CancelAppointment(ctx, appointment.ID); !errors.Is(err, usecase.ErrAppointmentNotScheduled) {
		t.Errorf("cancel completed: err = %v, want ErrAppointmentNotScheduled", err)
	}
	if _, err := env.appointments.CompleteAppointment(ctx, uuid.New()); !errors.Is(err, usecase.ErrAppointmentNotFound) {
		t.Errorf("complete unknown: err = %v, want ErrAppointmentNotFound", err)
	}

	// admit doctor, schedule, complete
	if _, audits := env.counts(t); audits != 3 {
		t.Errorf("audit entries = %d, want 3", audits)
	}
}

func TestGetAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor := env.admitDoctor(t, nil)
	appointment := env.schedule(t, doctor, at(10, "10:00"), 30)

	got, err := env.appointments.GetAppointment(ctx, appointment.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.Doctor == nil || got.Doctor.ID != doctor.ID {
		t.Errorf("expected doctor %s to be loaded, got %+v", doctor.ID, got.Doctor)
	}

	if _, err := env.appointments.GetAppointment(ctx, uuid.New()); !errors.Is(err, usecase.ErrAppointmentNotFound) {
		t.Errorf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestListDoctorAppointments_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor := env.admitDoctor(t, nil)

	if _, err := env.appointments.ListDoctorAppointments(ctx, monday, doctor.ID, "10/03/2025"); !errors.Is(err, usecase.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
	if _, err := env.appointments.ListDoctorAppointments(ctx, monday, uuid.New(), ""); !errors.Is(err, usecase.ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

func TestScheduleAppointment_ConcurrentOverlap(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.admitDoctor(t, nil)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.appointments.ScheduleAppointment(context.Background(), monday, &dto.CreateAppointmentRequest{
				PatientName:     "John Doe",
				DoctorID:        doctor.ID,
				AppointmentTime: at(10, "10:00"),
				ReasonForVisit:  "Checkup",
				DurationMinutes: 30,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var admitted, rejected int
	for err := range errs {
		var validationErr *usecase.ValidationError
		switch {
		case err == nil:
			admitted++
		case errors.As(err, &validationErr) && validationErr.Has(entity.RuleNoOverlap):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if admitted != 1 || rejected != attempts-1 {
		t.Errorf("admitted=%d rejected=%d, want 1 and %d", admitted, rejected, attempts-1)
	}

	list, err := env.appointments.ListDoctorAppointments(context.Background(), monday, doctor.ID, "2025-03-10")
	if err != nil {
		t.Fatalf("ListDoctorAppointments: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("stored appointments = %d, want 1", list.Total)
	}
}
