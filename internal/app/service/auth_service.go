package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/pkg/logger"
	"github.com/veissa/tiredOfLife/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker stores logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// ProfileData is the role specific part of a registration.
type ProfileData struct {
	// producer
	ShopName       string
	Description    string
	Address        string
	Certifications []string
	PickupInfo     model.PickupInfo

	// customer
	FirstName   string
	LastName    string
	Phone       string
	Preferences *model.CustomerPreferences
}

type RegisterInput struct {
	Email    string
	Password string
	Role     model.UserRole
	Profile  ProfileData
}

// PublicUser is the part of a user safe to return to clients.
type PublicUser struct {
	ID    uuid.UUID      `json:"id"`
	Email string         `json:"email"`
	Role  model.UserRole `json:"role"`
}

// UserWithProfile is a PublicUser plus its producer or customer profile
// (null when none exists).
type UserWithProfile struct {
	PublicUser
	Profile interface{} `json:"profile"`
}

type AuthService interface {
	Register(input RegisterInput) (*PublicUser, string, error)
	Login(email, password string) (*UserWithProfile, string, error)
	Me(userID uuid.UUID) (*UserWithProfile, error)
	Logout(ctx context.Context, token string, claims *util.Claims) error
}

type authService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	producerRepo repository.ProducerRepository
	customerRepo repository.CustomerRepository
	jwtSecret    string
	tokenExpiry  time.Duration
	revoker      TokenRevoker
}

// NewAuthService builds the service. revoker may be nil, in which case
// logout only succeeds client side.
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	producerRepo repository.ProducerRepository,
	customerRepo repository.CustomerRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
	revoker TokenRevoker,
) AuthService {
	return &authService{
		db:           db,
		userRepo:     userRepo,
		producerRepo: producerRepo,
		customerRepo: customerRepo,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
		revoker:      revoker,
	}
}

func (s *authService) Register(input RegisterInput) (*PublicUser, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := input.Role
	if role == "" {
		role = model.RoleCustomer
	}

	logger.Info("Attempting user registration", logger.Fields{
		"email": email,
		"role":  role,
	})

	if !role.Valid() {
		return nil, "", invalidFields("Unknown role", "role")
	}
	if role == model.RoleProducer {
		var missing []string
		if strings.TrimSpace(input.Profile.ShopName) == "" {
			missing = append(missing, "profileData.shopName")
		}
		if strings.TrimSpace(input.Profile.Description) == "" {
			missing = append(missing, "profileData.description")
		}
		if strings.TrimSpace(input.Profile.Address) == "" {
			missing = append(missing, "profileData.address")
		}
		if len(missing) > 0 {
			return nil, "", missingFields(missing...)
		}
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, logger.Fields{"email": email})
		return nil, "", err
	}
	if existing != nil {
		logger.Warn("Registration failed: email already exists", logger.Fields{"email": email})
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, logger.Fields{"email": email})
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		if role == model.RoleProducer {
			return s.producerRepo.WithTx(tx).Create(newProducerFromProfile(user.ID, input.Profile))
		}
		return s.customerRepo.WithTx(tx).Create(newCustomerFromProfile(user.ID, input.Profile))
	})
	if err != nil {
		logger.Error("Failed to persist registration", err, logger.Fields{"email": email})
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, logger.Fields{"user_id": user.ID})
		return nil, "", err
	}

	logger.Info("User registered successfully", logger.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return toPublicUser(user), token, nil
}

func newProducerFromProfile(userID uuid.UUID, p ProfileData) *model.Producer {
	return &model.Producer{
		UserID:         userID,
		ShopName:       strings.TrimSpace(p.ShopName),
		Description:    strings.TrimSpace(p.Description),
		Address:        strings.TrimSpace(p.Address),
		Certifications: normalizeCertifications(p.Certifications),
		PickupInfo:     p.PickupInfo,
		Images:         model.StringList{},
		IsActive:       true,
	}
}

func newCustomerFromProfile(userID uuid.UUID, p ProfileData) *model.Customer {
	customer := &model.Customer{
		UserID:    userID,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Phone:     strings.TrimSpace(p.Phone),
		Address:   strings.TrimSpace(p.Address),
	}
	if p.Preferences != nil {
		customer.Preferences = *p.Preferences
	}
	return customer
}

func (s *authService) Login(email, password string) (*UserWithProfile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger.Info("Login attempt", logger.Fields{"email": email})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", logger.Fields{"email": email})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, logger.Fields{"email": email})
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", logger.Fields{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	result, err := s.withProfile(user)
	if err != nil {
		return nil, "", err
	}

	token, err := util.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, logger.Fields{"user_id": user.ID})
		return nil, "", err
	}

	logger.Info("User logged in successfully", logger.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return result, token, nil
}

func (s *authService) Me(userID uuid.UUID) (*UserWithProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", logger.Fields{"user_id": userID})
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.withProfile(user)
}

// withProfile attaches the oldest producer profile or the customer profile.
func (s *authService) withProfile(user *model.User) (*UserWithProfile, error) {
	result := &UserWithProfile{PublicUser: *toPublicUser(user)}

	switch user.Role {
	case model.RoleProducer:
		producer, err := s.producerRepo.FindFirstByUser(user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if producer != nil {
			result.Profile = producer
		}
	default:
		customer, err := s.customerRepo.FindByUserID(user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if customer != nil {
			result.Profile = customer
		}
	}
	return result, nil
}

func (s *authService) Logout(ctx context.Context, token string, claims *util.Claims) error {
	if s.revoker == nil {
		logger.Debug("Token revocation disabled, logout is client side only", logger.Fields{
			"user_id": claims.UserID,
		})
		return nil
	}

	if err := s.revoker.Revoke(ctx, token, claims.RemainingValidity(time.Now())); err != nil {
		logger.Error("Failed to revoke token", err, logger.Fields{"user_id": claims.UserID})
		return err
	}

	logger.Info("User logged out", logger.Fields{"user_id": claims.UserID})
	return nil
}

func toPublicUser(user *model.User) *PublicUser {
	return &PublicUser{ID: user.ID, Email: user.Email, Role: user.Role}
}
