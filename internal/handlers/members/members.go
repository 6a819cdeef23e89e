package members

import (
	"context"
	"io"
	"net/http"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/pkg/utils"
)

//go:generate mockgen -source=members.go -destination=mock_members.go -package=members

const maxSubscriptionBytes = 64 << 10

type Service interface {
	Subscribe(ctx context.Context, userID int, subscription []byte) error
	Profile(ctx context.Context, userID int) (*domain.Profile, error)
	History(ctx context.Context, userID int) ([]domain.HistoryItem, error)
	ListMembers(ctx context.Context) ([]domain.User, error)
	ListPending(ctx context.Context) ([]domain.User, error)
	SetVerification(ctx context.Context, userID int, status domain.VerificationStatus) error
	Detail(ctx context.Context, userID int) (*domain.MemberDetail, error)
}

type MemberHandler struct {
	memberService Service
}

func New(memberService Service) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// Subscribe godoc
//
//	@Summary	Save a web push subscription
//	@Tags		Members
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		object	true	"PushSubscription as returned by the browser"
//	@Success	201		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Not a push subscription"
//	@Failure	401		{object}	utils.Response	"User not authorized"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/subscribe [post]
func (h *MemberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubscriptionBytes))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.memberService.Subscribe(r.Context(), handlerutil.UserID(r), raw); err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusCreated, "Subscription saved")
}

// Profile godoc
//
//	@Summary	Own profile with active loan and recent history
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.ProfileDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	404	{object}	utils.Response	"User not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/profile [get]
func (h *MemberHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.memberService.Profile(r.Context(), handlerutil.UserID(r))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewProfileDTO(profile))
}

// History godoc
//
//	@Summary	Own transaction history, newest first
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.HistoryItemDTO
//	@Failure	401	{object}	utils.Response	"User not authorized"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/transactions/history [get]
func (h *MemberHandler) History(w http.ResponseWriter, r *http.Request) {
	items, err := h.memberService.History(r.Context(), handlerutil.UserID(r))
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewHistoryDTOs(items))
}

// ListMembers godoc
//
//	@Summary	All members
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.UserDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/users [get]
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.memberService.ListMembers(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserDTOs(users))
}

// ListPending godoc
//
//	@Summary	Members waiting for verification
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.UserDTO
//	@Failure	403	{object}	utils.Response	"Forbidden"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/users/pending [get]
func (h *MemberHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.memberService.ListPending(r.Context())
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewUserDTOs(users))
}

// SetStatus godoc
//
//	@Summary	Verify or reject a member
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int							true	"User id"
//	@Param		request	body		dto.VerificationRequestDTO	true	"New status"
//	@Success	200		{object}	utils.Response
//	@Failure	400		{object}	utils.Response	"Invalid status"
//	@Failure	404		{object}	utils.Response	"User not found"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/users/{id}/status [put]
func (h *MemberHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.VerificationRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.memberService.SetVerification(r.Context(), id, domain.VerificationStatus(req.Status)); err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Member status changed to "+req.Status)
}

// Detail godoc
//
//	@Summary	Member detail with active loan and repayments
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"User id"
//	@Success	200	{object}	dto.MemberDetailDTO
//	@Failure	404	{object}	utils.Response	"User not found"
//	@Failure	500	{object}	utils.Response	"Internal server error"
//	@Router		/api/admin/users/{id} [get]
func (h *MemberHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := handlerutil.PathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.memberService.Detail(r.Context(), id)
	if err != nil {
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewMemberDetailDTO(detail))
}
