// Package memory is an in-process implementation of the domain repositories.
//
// A Store serializes every operation behind one mutex. WithinTransaction
// holds that mutex for the whole callback and restores a snapshot of every
// table if the callback fails, so check-then-insert sequences are atomic.
package memory

import (
	"context"
	"sync"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
)

type txKey struct{}

type Store struct {
	mu           sync.Mutex
	doctors      map[uuid.UUID]entity.Doctor
	appointments map[uuid.UUID]entity.Appointment
	auditLogs    []entity.AuditLog
}

func NewStore() *Store {
	return &Store{
		doctors:      make(map[uuid.UUID]entity.Doctor),
		appointments: make(map[uuid.UUID]entity.Appointment),
	}
}

var _ domainRepo.Transactor = (*Store)(nil)

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Doctors returns the repository view over the doctors table.
func (s *Store) Doctors() domainRepo.DoctorRepository {
	return &doctorRepository{store: s}
}

// Appointments returns the repository view over the appointments table.
func (s *Store) Appointments() domainRepo.AppointmentRepository {
	return &appointmentRepository{store: s}
}

// AuditLogs returns the repository view over the audit log.
func (s *Store) AuditLogs() domainRepo.AuditLogRepository {
	return &auditLogRepository{store: s}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// run executes fn under the store lock unless ctx already holds it.
func (s *Store) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx(ctx) {
		return fn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

type snapshot struct {
	doctors      map[uuid.UUID]entity.Doctor
	appointments map[uuid.UUID]entity.Appointment
	auditLogs    []entity.AuditLog
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		doctors:      make(map[uuid.UUID]entity.Doctor, len(s.doctors)),
		appointments: make(map[uuid.UUID]entity.Appointment, len(s.appointments)),
		auditLogs:    append([]entity.AuditLog(nil), s.auditLogs...),
	}
	for k, v := range s.doctors {
		snap.doctors[k] = v
	}
	for k, v := range s.appointments {
		snap.appointments[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.doctors = snap.doctors
	s.appointments = snap.appointments
	s.auditLogs = snap.auditLogs
}
