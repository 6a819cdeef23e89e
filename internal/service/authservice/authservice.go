package authservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/bumdes/internal/domain"
	"github.com/GlebRadaev/bumdes/pkg/auth"
)

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account is waiting for admin verification")
	ErrAccountRejected    = errors.New("account registration was rejected")
)

type Repo interface {
	FindByIdentity(ctx context.Context, identity string, role domain.Role) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Registration struct {
	NIK         string
	Name        string
	Email       string
	Password    string
	Address     string
	Phone       string
	IDCardPhoto string
}

type Service struct {
	userRepo    Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a pending member with a zero balance.
func (s *Service) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	hashedPassword, err := s.hashService.HashPassword(reg.Password)
	if err != nil {
		zap.L().Info("can't hash password", zap.Error(err))
		return nil, domain.ValidationError(err.Error())
	}
	user := &domain.User{
		NIK:                reg.NIK,
		Name:               reg.Name,
		Email:              reg.Email,
		PasswordHash:       hashedPassword,
		Address:            reg.Address,
		Phone:              reg.Phone,
		IDCardPhoto:        reg.IDCardPhoto,
		Role:               domain.RoleMember,
		VerificationStatus: domain.VerificationPending,
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			zap.L().Info("nik or email already registered", zap.String("email", reg.Email))
		}
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.Int("userID", newUser.ID))
	return newUser, nil
}

// Authenticate accepts a NIK or an e-mail as identity. Members can log in
// only after an admin verified them.
func (s *Service) Authenticate(ctx context.Context, identity, password string, role domain.Role) (*domain.User, error) {
	user, err := s.userRepo.FindByIdentity(ctx, identity, role)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("invalid credentials", zap.String("identity", identity))
		return nil, ErrInvalidCredentials
	}

	if user.Role == domain.RoleMember {
		switch user.VerificationStatus {
		case domain.VerificationPending:
			return nil, ErrAccountPending
		case domain.VerificationRejected:
			return nil, ErrAccountRejected
		}
	}

	zap.L().Info("user successfully authenticated", zap.Int("userID", user.ID))
	return user, nil
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenTTL)

	token, err := s.jwtService.GenerateJWT(auth.Identity{
		UserID: user.ID,
		Role:   string(user.Role),
		Status: string(user.VerificationStatus),
	}, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}
