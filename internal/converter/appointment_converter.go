package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientName:     appointment.PatientName,
		DoctorID:        appointment.DoctorID,
		AppointmentTime: appointment.AppointmentTime,
		EndTime:         appointment.End(),
		ReasonForVisit:  appointment.ReasonForVisit,
		Status:          string(appointment.Status),
		DurationMinutes: appointment.DurationMinutes,
		ClinicRoom:      appointment.ClinicRoom,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	// Include doctor info if loaded
	if appointment.Doctor != nil {
		response.Doctor = DoctorToResponse(appointment.Doctor)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
