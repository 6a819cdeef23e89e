package admin

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=admin.go -destination=mock_admin.go -package=admin

type Service interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	CashReport(ctx context.Context) (*domain.CashReport, error)
}

type AdminHandler struct {
	adminService Service
}

func New(adminService Service) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Stats godoc
//
//	@Summary	Dashboard counters
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.StatsDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewStatsDTO(stats))
}

// CashReport godoc
//
//	@Summary	Cash journal totals and latest entries
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.CashReportDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/cash-report [get]
func (h *AdminHandler) CashReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.adminService.CashReport(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewCashReportDTO(report))
}
