package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/internal/dto"
	"github.com/GlebRadaev/bumdes/internal/service/authservice"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

func registrationForm(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("ktp", "ktp.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validFields() map[string]string {
	return map[string]string{
		"nik":      "3201010101010001",
		"name":     "Siti Aminah",
		"email":    "siti@desa.id",
		"password": "rahasia123",
		"address":  "Dusun Krajan RT 01",
		"phone":    "081234567890",
	}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name          string
		fields        func() map[string]string
		file          func(t *testing.T) []byte
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name:   "Registration with ID card",
			fields: validFields,
			file:   pngBytes,
			prepareMock: func(service *MockService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, reg authservice.Registration) (*domain.User, error) {
						assert.Equal(t, "3201010101010001", reg.NIK)
						assert.True(t, strings.HasPrefix(reg.IDCardPhoto, "data:image/jpeg;base64,"))
						return &domain.User{ID: 12}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "Registration without ID card",
			fields: validFields,
			file:   func(t *testing.T) []byte { return nil },
			prepareMock: func(service *MockService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, reg authservice.Registration) (*domain.User, error) {
						assert.Empty(t, reg.IDCardPhoto)
						return &domain.User{ID: 12}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Upload is not an image",
			fields:        validFields,
			file:          func(t *testing.T) []byte { return []byte("not an image") },
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "file must be an image",
		},
		{
			name: "Short NIK",
			fields: func() map[string]string {
				f := validFields()
				f["nik"] = "3201"
				return f
			},
			file:          func(t *testing.T) []byte { return nil },
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "nik must be exactly 16 characters",
		},
		{
			name:   "NIK already registered",
			fields: validFields,
			file:   func(t *testing.T) []byte { return nil },
			prepareMock: func(service *MockService) {
				service.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAlreadyExists)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			body, contentType := registrationForm(t, tt.fields(), tt.file(t))
			r := httptest.NewRequest(http.MethodPost, "/api/register", body)
			r.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.Register(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestRegisterHandler_NotMultipart(t *testing.T) {
	handler, _ := NewMock(t)
	r := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"nik":"1"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Register(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	member := &domain.User{ID: 12, Name: "Siti Aminah", Role: domain.RoleMember, VerificationStatus: domain.VerificationVerified}

	tests := []struct {
		name          string
		body          string
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Member login",
			body: `{"identity":"siti@desa.id","password":"rahasia123"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "siti@desa.id", "rahasia123", domain.RoleMember).Return(member, nil)
				service.EXPECT().GenerateToken(member).Return("jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Admin login",
			body: `{"identity":"admin@bumdes.com","password":"admin123","role":"admin"}`,
			prepareMock: func(service *MockService) {
				admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
				service.EXPECT().Authenticate(gomock.Any(), "admin@bumdes.com", "admin123", domain.RoleAdmin).Return(admin, nil)
				service.EXPECT().GenerateToken(admin).Return("jwt-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: `{"identity":"siti@desa.id","password":"salah"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "siti@desa.id", "salah", domain.RoleMember).
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name: "Waiting for verification",
			body: `{"identity":"siti@desa.id","password":"rahasia123"}`,
			prepareMock: func(service *MockService) {
				service.EXPECT().Authenticate(gomock.Any(), "siti@desa.id", "rahasia123", domain.RoleMember).
					Return(nil, authservice.ErrAccountPending)
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "waiting for admin verification",
		},
		{
			name:          "Unknown role",
			body:          `{"identity":"x","password":"y","role":"root"}`,
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "role must be one of",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			r := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
				return
			}
			assert.Equal(t, "Bearer jwt-token", w.Header().Get("Authorization"))
			var resp dto.LoginResponseDTO
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "jwt-token", resp.Token)
		})
	}
}
