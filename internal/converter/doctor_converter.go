package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		FirstName:   doctor.FirstName,
		LastName:    doctor.LastName,
		Specialty:   string(doctor.Specialty),
		PhoneNumber: doctor.PhoneNumber,
		Email:       doctor.Email,
		ShiftStart:  doctor.ShiftStart.String(),
		ShiftEnd:    doctor.ShiftEnd.String(),
		CreatedAt:   doctor.CreatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
