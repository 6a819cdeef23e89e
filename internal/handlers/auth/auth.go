package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/handlers/handlerutil"
	"github.com/GlebRadaev/bumdes/internal/service/authservice"
	"github.com/GlebRadaev/bumdes/pkg/imgproc"
	"github.com/GlebRadaev/bumdes/pkg/utils"
	"github.com/GlebRadaev/bumdes/pkg/validate"
)

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=auth

const maxUploadBytes = 10 << 20

type Service interface {
	Register(ctx context.Context, reg authservice.Registration) (*domain.User, error)
	Authenticate(ctx context.Context, identity string, password string, role domain.Role) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new member
//	@Description	Create a member account waiting for admin verification. The ID card picture is optional and is compressed before storing.
//	@Tags			Auth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			nik			formData	string	true	"16 digit national id"
//	@Param			name		formData	string	true	"Full name"
//	@Param			email		formData	string	true	"E-mail"
//	@Param			password	formData	string	true	"Password"
//	@Param			address		formData	string	false	"Address"
//	@Param			phone		formData	string	true	"Phone number"
//	@Param			ktp			formData	file	false	"ID card picture"
//	@Success		201			{object}	dto.RegisterResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid form"
//	@Failure		409			{object}	utils.Response	"NIK or e-mail already registered"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return
	}
	req := dto.RegisterRequestDTO{
		NIK:      strings.TrimSpace(r.FormValue("nik")),
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Address:  strings.TrimSpace(r.FormValue("address")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var photo string
	file, _, err := r.FormFile("ktp")
	switch {
	case err == nil:
		defer file.Close()
		photo, err = imgproc.CompressToDataURI(file, imgproc.IDCard)
		if err != nil {
			zap.L().Info("rejected id card upload", zap.Error(err))
			utils.RespondWithError(w, http.StatusBadRequest, imgproc.ErrNotImage.Error())
			return
		}
	case !errors.Is(err, http.ErrMissingFile):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	user, err := h.authService.Register(r.Context(), authservice.Registration{
		NIK:         req.NIK,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Address:     req.Address,
		Phone:       req.Phone,
		IDCardPhoto: photo,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			utils.RespondWithError(w, http.StatusConflict, "NIK or e-mail already registered")
			return
		}
		handlerutil.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.RegisterResponseDTO{
		Message: "Registration received, waiting for verification",
		ID:      user.ID,
	})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with NIK or e-mail and get a JWT token. Members must be verified first.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		403		{object}	utils.Response	"Account not verified"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !handlerutil.DecodeJSON(w, r, &req) {
		return
	}
	role := domain.RoleMember
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	user, err := h.authService.Authenticate(r.Context(), req.Identity, req.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidCredentials):
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, authservice.ErrAccountPending), errors.Is(err, authservice.ErrAccountRejected):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			handlerutil.RespondWithServiceError(w, r, err)
		}
		return
	}
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "Login successful",
		Token:   token,
		Role:    string(user.Role),
		Name:    user.Name,
		Status:  string(user.VerificationStatus),
	})
}
