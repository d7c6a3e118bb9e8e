package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-project-api/logger"
	"go-project-api/model"
	"go-project-api/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDuplicateEmail      = errors.New("email is already registered")
	ErrDuplicateUsername   = errors.New("username is already taken")
	ErrInvalidJoinCode     = errors.New("invalid join code")
	ErrRoleNotConfigured   = errors.New("required role is not configured")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

const uniqueViolation = "23505"

// IAuthService is the session-manager contract consumed by the HTTP layer.
type IAuthService interface {
	RegisterCompany(ctx context.Context, req model.RegisterCompanyRequest) (*model.AuthResponse, error)
	RegisterUser(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, rawToken string) (*model.AuthResponse, error)
	Logout(rawToken string) error
	ChangePassword(email, oldPassword, newPassword string) (bool, error)
	AdminUpdatePassword(userID int, newPassword string) error
}

// joinCodeAttempts bounds the regenerate-and-retry loop when a freshly
// generated join code collides with an existing company.
const joinCodeAttempts = 3

// AuthService orchestrates registration, login, token refresh, logout and
// password changes. All store failures are translated to the typed errors
// above before they reach the handlers.
type AuthService struct {
	db            *sql.DB
	userRepo      repository.IUserRepository
	roleRepo      repository.IRoleRepository
	companyRepo   repository.ICompanyRepository
	tokenSigner   ITokenSigner
	refreshTokens IRefreshTokenService
}

func NewAuthService(
	db *sql.DB,
	userRepo repository.IUserRepository,
	roleRepo repository.IRoleRepository,
	companyRepo repository.ICompanyRepository,
	tokenSigner ITokenSigner,
	refreshTokens IRefreshTokenService,
) *AuthService {
	return &AuthService{
		db:            db,
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		companyRepo:   companyRepo,
		tokenSigner:   tokenSigner,
		refreshTokens: refreshTokens,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// RegisterCompany creates a tenant with a generated join code and its admin
// user in one transaction, then opens a session for the admin.
func (s *AuthService) RegisterCompany(ctx context.Context, req model.RegisterCompanyRequest) (*model.AuthResponse, error) {
	adminRole, err := s.requireRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.checkDuplicates(req.Admin.Email, req.Admin.Name); err != nil {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(req.Admin.Password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	for attempt := 0; ; attempt++ {
		company := &model.Company{
			Name:     req.CompanyName,
			Domain:   req.Domain,
			JoinCode: generateJoinCode(),
		}
		user, err = s.createCompanyWithAdmin(ctx, company, req.Admin.Name, req.Admin.Email, hashedPassword, adminRole.ID)
		if err == nil {
			break
		}
		if isJoinCodeCollision(err) && attempt < joinCodeAttempts-1 {
			logger.Log.WithField("join_code", company.JoinCode).Warn("Join code collision, regenerating")
			continue
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"company": req.CompanyName,
		"admin":   req.Admin.Email,
	}).Info("Company registered")

	return s.openSession(ctx, user)
}

func (s *AuthService) createCompanyWithAdmin(ctx context.Context, company *model.Company, name, email, hashedPassword string, roleID int) (*model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.companyRepo.CreateCompany(tx, company); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  name,
		Email:     email,
		Password:  hashedPassword,
		CompanyID: sql.NullInt64{Int64: company.ID, Valid: true},
		Roles:     []string{model.RoleAdmin},
	}
	if err := s.userRepo.CreateUser(tx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.AssignRole(tx, user.ID, roleID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}
	return user, nil
}

// RegisterUser enrolls an ordinary user. With a join code the user is bound
// to the matching company; without one the user starts company-less.
func (s *AuthService) RegisterUser(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	userRole, err := s.requireRole(model.RoleUser)
	if err != nil {
		return nil, err
	}

	var companyID sql.NullInt64
	if req.JoinCode != "" {
		company, err := s.companyRepo.GetCompanyByJoinCode(req.JoinCode)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrInvalidJoinCode
			}
			return nil, err
		}
		companyID = sql.NullInt64{Int64: company.ID, Valid: true}
	}

	if err := s.checkDuplicates(req.Email, req.Username); err != nil {
		return nil, err
	}

	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		CompanyID: companyID,
		Roles:     []string{model.RoleUser},
	}
	if err := s.userRepo.CreateUser(tx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.AssignRole(tx, user.ID, userRole.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	logger.Log.WithField("email", req.Email).Info("User registered")

	return s.openSession(ctx, user)
}

// Login verifies credentials and rotates the user's refresh token. Both an
// unknown email and a wrong password surface as ErrInvalidCredentials so the
// API does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastActive(user.ID); err != nil {
		return nil, err
	}

	logger.Log.WithField("email", user.Email).Info("User logged in")

	return s.openSession(ctx, user)
}

// Refresh exchanges a valid refresh token for a brand-new token pair. The
// presented token is superseded because issuing deletes all prior tokens for
// the user, closing the replay window.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*model.AuthResponse, error) {
	token, err := s.refreshTokens.Lookup(rawToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := s.refreshTokens.VerifyNotExpired(token); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(token.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout revokes every refresh token of the token's owner. An unknown token
// is an error rather than an idempotent no-op, so clients learn when they
// hold a token that was already rotated away.
func (s *AuthService) Logout(rawToken string) error {
	token, err := s.refreshTokens.Lookup(rawToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return s.refreshTokens.RevokeAllForUser(token.UserID)
}

// ChangePassword verifies the old password before storing a new hash. Both
// an unknown identity and a wrong old password return (false, nil) so the
// endpoint cannot be used to probe for accounts. Existing refresh tokens
// stay valid after the change.
func (s *AuthService) ChangePassword(email, oldPassword, newPassword string) (bool, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	if !s.CheckPasswordHash(oldPassword, user.Password) {
		return false, nil
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		return false, err
	}

	logger.Log.WithField("email", email).Info("Password changed")
	return true, nil
}

// AdminUpdatePassword sets a user's password without the old-password check.
// Authorization for this privileged path is enforced by the admin middleware,
// not here.
func (s *AuthService) AdminUpdatePassword(userID int, newPassword string) error {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, hashedPassword)
}

// openSession issues the access token and a rotated refresh token for the
// user. Every successful register/login/refresh terminates here.
func (s *AuthService) openSession(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.tokenSigner.Issue(user)
	if err != nil {
		return nil, err
	}

	rawRefreshToken, _, err := s.refreshTokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Token:        accessToken,
		RefreshToken: rawRefreshToken,
		User:         user.View(),
	}, nil
}

// requireRole resolves a role row by name. A missing row means the seed
// migrations were not applied; that is a deployment bug, not user error.
func (s *AuthService) requireRole(name string) (*model.Role, error) {
	role, err := s.roleRepo.GetRoleByName(name)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Log.WithField("role", name).Error("Required role row is missing from the database")
			return nil, ErrRoleNotConfigured
		}
		return nil, err
	}
	return role, nil
}

func (s *AuthService) checkDuplicates(email, username string) error {
	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return ErrDuplicateEmail
	} else if err != sql.ErrNoRows {
		return err
	}

	if _, err := s.userRepo.GetUserByUsername(username); err == nil {
		return ErrDuplicateUsername
	} else if err != sql.ErrNoRows {
		return err
	}
	return nil
}

// generateJoinCode takes the first 8 characters of a UUID; collisions are
// handled by the caller's retry loop against the unique constraint.
func generateJoinCode() string {
	return uuid.NewString()[:8]
}

func isJoinCodeCollision(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "companies_join_code_key"
}
