package handler

import (
	"net/http"

	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/clock"
	"clinic-scheduling/pkg/response"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	utilizationUsecase usecase.UtilizationUsecase
	clock              clock.Clock
}

func NewReportHandler(utilizationUsecase usecase.UtilizationUsecase, clock clock.Clock) *ReportHandler {
	return &ReportHandler{
		utilizationUsecase: utilizationUsecase,
		clock:              clock,
	}
}

func (h *ReportHandler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	specialty := mux.Vars(r)["specialty"]

	report, err := h.utilizationUsecase.WeeklySpecialtyUtilization(r.Context(), h.clock.Now(), specialty)
	if err != nil {
		writeError(w, err, "Failed to compute utilization")
		return
	}

	response.Success(w, http.StatusOK, "Utilization retrieved successfully", report)
}

func (h *ReportHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	specialty := mux.Vars(r)["specialty"]

	report, err := h.utilizationUsecase.WeeklySpecialtyPerformance(r.Context(), h.clock.Now(), specialty)
	if err != nil {
		writeError(w, err, "Failed to compute performance")
		return
	}

	response.Success(w, http.StatusOK, "Performance retrieved successfully", report)
}
