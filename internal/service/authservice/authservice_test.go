package authservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *auth.MockHashServiceInterface, *auth.MockJWTServiceInterface) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	hashService := auth.NewMockHashServiceInterface(ctrl)
	jwtService := auth.NewMockJWTServiceInterface(ctrl)

	service := New(repo, hashService, jwtService, time.Hour)
	return service, repo, hashService, jwtService
}

func TestRegister(t *testing.T) {
	service, userRepo, hashService, _ := NewMock(t)
	reg := Registration{
		NIK: "3201010101010001", Name: "Siti", Email: "siti@desa.id", Password: "rahasia",
		Address: "Dusun 1", Phone: "0812", IDCardPhoto: "data:image/jpeg;base64,AAAA",
	}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
		anyError      bool
	}{
		{
			name: "Successful registration",
			prepareMock: func() {
				hashService.EXPECT().HashPassword("rahasia").Return("hashed", nil)
				userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
						assert.Equal(t, domain.RoleMember, user.Role)
						assert.Equal(t, domain.VerificationPending, user.VerificationStatus)
						assert.Equal(t, "hashed", user.PasswordHash)
						assert.Equal(t, reg.IDCardPhoto, user.IDCardPhoto)
						user.ID = 1
						return user, nil
					})
			},
		},
		{
			name: "NIK or email taken",
			prepareMock: func() {
				hashService.EXPECT().HashPassword("rahasia").Return("hashed", nil)
				userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAlreadyExists)
			},
			expectedError: domain.ErrAlreadyExists,
		},
		{
			name: "Password rejected by hasher",
			prepareMock: func() {
				hashService.EXPECT().HashPassword("rahasia").Return("", auth.ErrPasswordTooLong)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name: "Database error",
			prepareMock: func() {
				hashService.EXPECT().HashPassword("rahasia").Return("hashed", nil)
				userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.Register(context.Background(), reg)
			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			case tt.anyError:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, user.ID)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	service, userRepo, hashService, _ := NewMock(t)

	member := func(status domain.VerificationStatus) *domain.User {
		return &domain.User{ID: 1, PasswordHash: "hashed", Role: domain.RoleMember, VerificationStatus: status}
	}

	tests := []struct {
		name          string
		role          domain.Role
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Verified member",
			role: domain.RoleMember,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleMember).Return(member(domain.VerificationVerified), nil)
				hashService.EXPECT().ComparePassword("hashed", "rahasia").Return(true)
			},
		},
		{
			name: "Admin is never gated",
			role: domain.RoleAdmin,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleAdmin).
					Return(&domain.User{ID: 2, PasswordHash: "hashed", Role: domain.RoleAdmin, VerificationStatus: domain.VerificationPending}, nil)
				hashService.EXPECT().ComparePassword("hashed", "rahasia").Return(true)
			},
		},
		{
			name: "Pending member",
			role: domain.RoleMember,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleMember).Return(member(domain.VerificationPending), nil)
				hashService.EXPECT().ComparePassword("hashed", "rahasia").Return(true)
			},
			expectedError: ErrAccountPending,
		},
		{
			name: "Rejected member",
			role: domain.RoleMember,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleMember).Return(member(domain.VerificationRejected), nil)
				hashService.EXPECT().ComparePassword("hashed", "rahasia").Return(true)
			},
			expectedError: ErrAccountRejected,
		},
		{
			name: "Unknown user",
			role: domain.RoleMember,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleMember).Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name: "Wrong password",
			role: domain.RoleMember,
			prepareMock: func() {
				userRepo.EXPECT().FindByIdentity(gomock.Any(), "siti@desa.id", domain.RoleMember).Return(member(domain.VerificationVerified), nil)
				hashService.EXPECT().ComparePassword("hashed", "rahasia").Return(false)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			user, err := service.Authenticate(context.Background(), "siti@desa.id", "rahasia", tt.role)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	service, _, _, jwtService := NewMock(t)
	user := &domain.User{ID: 1, Role: domain.RoleMember, VerificationStatus: domain.VerificationVerified}

	jwtService.EXPECT().
		GenerateJWT(auth.Identity{UserID: 1, Role: "member", Status: "verified"}, gomock.Any()).
		Return("token", nil)
	jwtService.EXPECT().
		GenerateJWT(gomock.Any(), gomock.Any()).
		Return("", errors.New("sign error"))

	token, err := service.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, "token", token)

	_, err = service.GenerateToken(user)
	assert.Error(t, err)
}
