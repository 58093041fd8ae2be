package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"
	"groceryMarket/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AuthProvider holds credentials. It is either the hosted auth service or the
// local identity table.
type AuthProvider interface {
	CreateIdentity(ctx context.Context, email, password string, metadata map[string]string) (domain.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
	SignInWithPassword(ctx context.Context, email, password string) (domain.Identity, error)
}

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindAll(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	FindRole(ctx context.Context, id string) (string, error)
}

type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	FindByUserID(ctx context.Context, userID string) (domain.Vendor, error)
}

type RiderRepository interface {
	Create(ctx context.Context, rider *domain.RiderProfile) error
	FindByUserID(ctx context.Context, userID string) (domain.RiderProfile, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type SessionRepository interface {
	StoreSession(ctx context.Context, token, userID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, token string) error
}

type TokenIssuer interface {
	GenerateJWT(userID, role, email string) (string, error)
	TTL() time.Duration
}

type userService struct {
	auth      AuthProvider
	userRepo  UserRepository
	vendors   VendorRepository
	riders    RiderRepository
	notifRepo NotificationRepository
	sessions  SessionRepository
	tokens    TokenIssuer
	demo      *DemoDirectory
	validate  *validator.Validate
}

const (
	SubjectWelcome   = "Welcome to Grocery Market!"
	EmailBodyWelcome = `Hi %v,</br></br>your %v account is ready. Sign in any time to get started.`
)

type Deps struct {
	Auth          AuthProvider
	Users         UserRepository
	Vendors       VendorRepository
	Riders        RiderRepository
	Notifications NotificationRepository
	Sessions      SessionRepository
	Tokens        TokenIssuer
	Demo          *DemoDirectory
}

func NewUserService(deps Deps, validate *validator.Validate) *userService {
	return &userService{
		auth:      deps.Auth,
		userRepo:  deps.Users,
		vendors:   deps.Vendors,
		riders:    deps.Riders,
		notifRepo: deps.Notifications,
		sessions:  deps.Sessions,
		tokens:    deps.Tokens,
		demo:      deps.Demo,
		validate:  validate,
	}
}

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	FullName string `validate:"required"`
	Phone    string
	Role     string `validate:"required"`
	Address  string
	City     string
	Country  string
}

type LoginResult struct {
	User     domain.User `json:"user"`
	Role     string      `json:"role"`
	Redirect string      `json:"redirect"`
	Token    string      `json:"token,omitempty"`
	Demo     bool        `json:"demo"`
}

// Register writes the identity, the users row and the role profile as three
// separate steps. Only a failed users insert is compensated, by deleting
// the identity. A failed profile insert is logged and the user kept.
func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validate.Struct(in); err != nil {
		logger.Error("Invalid registration payload", err)
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !domain.ValidRole(in.Role) {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	// Admins are provisioned out of band, never through public sign-up.
	if in.Role == domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("%w: admin accounts cannot be self-registered", domain.ErrInvalidInput)
	}

	identity, err := s.auth.CreateIdentity(ctx, in.Email, in.Password, map[string]string{
		"full_name": in.FullName,
		"role":      in.Role,
	})
	if err != nil {
		logger.Error("Failed to create auth identity", err)
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:       identity.ID,
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     in.Role,
		Address:  in.Address,
		City:     in.City,
		Country:  in.Country,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create user row, removing identity", err, "user_id", identity.ID)
		if delErr := s.auth.DeleteIdentity(ctx, identity.ID); delErr != nil {
			logger.Error("Failed to remove orphaned identity", delErr, "user_id", identity.ID)
		}
		return domain.User{}, err
	}

	switch in.Role {
	case domain.RoleVendor:
		vendor := domain.Vendor{
			ID:           uuid.NewString(),
			UserID:       newUser.ID,
			BusinessName: in.FullName,
			Address:      in.Address,
			City:         in.City,
		}
		if err := s.vendors.Create(ctx, &vendor); err != nil {
			logger.Error("Failed to create vendor profile", err, "user_id", newUser.ID)
		}
	case domain.RoleRider:
		rider := domain.RiderProfile{
			ID:          uuid.NewString(),
			UserID:      newUser.ID,
			IsAvailable: true,
		}
		if err := s.riders.Create(ctx, &rider); err != nil {
			logger.Error("Failed to create rider profile", err, "user_id", newUser.ID)
		}
	}

	if s.notifRepo != nil {
		err = s.notifRepo.SendEmail(ctx, newUser.FullName, newUser.Email, SubjectWelcome, fmt.Sprintf(EmailBodyWelcome, newUser.FullName, newUser.Role))
		if err != nil {
			logger.Warn("Failed to send welcome email", err)
		}
	}

	metrics.Registrations.WithLabelValues(newUser.Role).Inc()
	return newUser, nil
}

// Login tries the demo table before the auth provider.
func (s *userService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if acc, ok := s.demo.Match(email, password); ok {
		metrics.Logins.WithLabelValues("demo", acc.Role).Inc()
		return LoginResult{
			User: domain.User{
				ID:       acc.UserID(),
				Email:    acc.Email,
				FullName: acc.FullName,
				Role:     acc.Role,
			},
			Role:     acc.Role,
			Redirect: RedirectFor(acc.Role),
			Demo:     true,
		}, nil
	}

	identity, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		logger.Error("Password sign-in failed", err)
		if errors.Is(err, domain.ErrUnauthorized) {
			return LoginResult{}, err
		}
		return LoginResult{}, fmt.Errorf("sign in: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, identity.ID)
	if errors.Is(err, domain.ErrNotFound) {
		user = domain.User{
			ID:       identity.ID,
			Email:    identity.Email,
			FullName: nameFromEmail(identity.Email),
			Role:     domain.RoleCustomer,
		}
		if err := s.userRepo.Create(ctx, &user); err != nil {
			logger.Warn("Failed to create missing user row", err, "user_id", identity.ID)
		}
	} else if err != nil {
		logger.Error("Failed to load user after sign-in", err)
		return LoginResult{}, err
	}

	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	token, err := s.tokens.GenerateJWT(user.ID, user.Role, user.Email)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return LoginResult{}, errors.New("failed to generate token")
	}

	if s.sessions != nil {
		if err := s.sessions.StoreSession(ctx, token, user.ID, s.tokens.TTL()); err != nil {
			logger.Error("Failed to store session", err)
			return LoginResult{}, err
		}
	}

	metrics.Logins.WithLabelValues("password", user.Role).Inc()
	return LoginResult{
		User:     user,
		Role:     user.Role,
		Redirect: RedirectFor(user.Role),
		Token:    token,
	}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil || token == "" {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, token); err != nil {
		logger.Error("Failed to revoke session", err)
		return err
	}
	return nil
}

// SeedDemoProfiles makes sure every demo account has a users row and, for
// vendors and riders, a role profile, so demo sessions can reach the
// role dashboards. Existing rows are left alone.
func (s *userService) SeedDemoProfiles(ctx context.Context) error {
	for _, acc := range s.demo.Accounts() {
		id := acc.UserID()

		_, err := s.userRepo.FindByID(ctx, id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			row := domain.User{ID: id, Email: strings.ToLower(acc.Email), FullName: acc.displayName(), Role: acc.Role}
			if err := s.userRepo.Create(ctx, &row); err != nil {
				logger.Error("Failed to seed demo user", err, "email", acc.Email)
				return err
			}
		case err != nil:
			logger.Error("Failed to look up demo user", err, "email", acc.Email)
			return err
		}

		if err := s.seedDemoRole(ctx, acc, id); err != nil {
			logger.Error("Failed to seed demo profile", err, "email", acc.Email, "role", acc.Role)
			return err
		}
	}
	return nil
}

func (s *userService) seedDemoRole(ctx context.Context, acc DemoAccount, userID string) error {
	switch acc.Role {
	case domain.RoleVendor:
		_, err := s.vendors.FindByUserID(ctx, userID)
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return s.vendors.Create(ctx, &domain.Vendor{ID: uuid.NewString(), UserID: userID, BusinessName: acc.displayName(), IsOnline: true})
	case domain.RoleRider:
		_, err := s.riders.FindByUserID(ctx, userID)
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return s.riders.Create(ctx, &domain.RiderProfile{ID: uuid.NewString(), UserID: userID, IsAvailable: true})
	}
	return nil
}

// DemoAccount resolves the demo account behind a demo session.
func (s *userService) DemoAccount(email string) (DemoAccount, bool) {
	return s.demo.Lookup(email)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, filter.Role)
	}

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}
	return users, nil
}

// GetUserRole falls back to customer when the row or the column is missing.
func (s *userService) GetUserRole(ctx context.Context, id string) (string, error) {
	role, err := s.userRepo.FindRole(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RoleCustomer, nil
	}
	if err != nil {
		logger.Error("Failed to get user role", err)
		return "", err
	}
	if role == "" {
		return domain.RoleCustomer, nil
	}
	return role, nil
}

func nameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
