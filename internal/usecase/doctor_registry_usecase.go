package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/domain/rule"
	"clinic-scheduling/internal/infrastructure/cache"
	"clinic-scheduling/internal/infrastructure/metrics"
	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DoctorRegistryUsecase interface {
	AdmitDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
}

type doctorRegistryUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	locker       service.AdmissionLocker
	auditService service.AuditService
	doctorCache  *cache.DoctorCache
	metrics      *metrics.Admissions
}

func NewDoctorRegistryUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	locker service.AdmissionLocker,
	auditService service.AuditService,
	doctorCache *cache.DoctorCache,
	admissions *metrics.Admissions,
) DoctorRegistryUsecase {
	return &doctorRegistryUsecase{
		tx:           tx,
		log:          log,
		doctorRepo:   doctorRepo,
		locker:       locker,
		auditService: auditService,
		doctorCache:  doctorCache,
		metrics:      admissions,
	}
}

// AdmitDoctor validates and stores a new doctor.
//
// Flow:
// 1. Parse shift times (malformed input is a request error, not a rule violation)
// 2. Lock the normalized email so concurrent admissions cannot both pass the uniqueness check
// 3. In one transaction: check email uniqueness, run every rule, insert on success
//
// Rule violations come back as *ValidationError, infrastructure failures as *StoreError.
func (u *doctorRegistryUsecase) AdmitDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	shiftStart, err := entity.ParseClockTime(req.ShiftStart)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}
	shiftEnd, err := entity.ParseClockTime(req.ShiftEnd)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	specialty, _ := entity.ParseSpecialty(req.Specialty)
	input := rule.DoctorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Specialty:   specialty,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		ShiftStart:  shiftStart,
		ShiftEnd:    shiftEnd,
	}
	email := entity.NormalizeEmail(req.Email)

	unlock, err := u.locker.Lock(ctx, service.EmailLockPrefix+email)
	if err != nil {
		u.log.Warnf("Failed to lock email for doctor admission: %+v", err)
		u.metrics.Failed(metrics.KindDoctor)
		return nil, storeError("acquire admission lock", err)
	}
	defer unlock()

	var doctor *entity.Doctor
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := u.doctorRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return storeError("check doctor email", err)
		}

		if violations := rule.CheckDoctor(input, rule.DoctorFacts{EmailTaken: taken}); len(violations) > 0 {
			return &ValidationError{Violations: violations}
		}

		doctor = &entity.Doctor{
			ID:          uuid.New(),
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Specialty:   specialty,
			PhoneNumber: entity.NormalizePhone(req.PhoneNumber),
			Email:       email,
			ShiftStart:  shiftStart,
			ShiftEnd:    shiftEnd,
		}
		if err := u.doctorRepo.Create(ctx, doctor); err != nil {
			return storeError("insert doctor", err)
		}

		if err := u.auditService.LogCreate(ctx, entity.AuditActionDoctorAdmit, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
			return storeError("write audit log", err)
		}
		return nil
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			u.log.Infof("Doctor admission rejected: %s", strings.Join(validationErr.Messages(), "; "))
			u.metrics.Rejected(metrics.KindDoctor, validationErr.Violations)
			return nil, validationErr
		}
		u.log.Warnf("Failed to admit doctor: %+v", err)
		u.metrics.Failed(metrics.KindDoctor)
		return nil, storeError("admit doctor", err)
	}

	u.doctorCache.Add(doctor)
	u.metrics.Admitted(metrics.KindDoctor)
	u.log.Infof("Doctor admitted: id=%s, name=%s, specialty=%s", doctor.ID, doctor.FullName(), doctor.Specialty)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorRegistryUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	if doctor, ok := u.doctorCache.Get(doctorID); ok {
		return converter.DoctorToResponse(doctor), nil
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeError("find doctor", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	u.doctorCache.Add(doctor)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorRegistryUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, storeError("list doctors", err)
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}
