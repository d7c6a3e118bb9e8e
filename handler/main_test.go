package handler

import (
	"context"
	"go-project-api/logger"
	"go-project-api/model"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// MockAuthService is a mock for service.IAuthService.
type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) RegisterCompany(ctx context.Context, req model.RegisterCompanyRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}
func (m *MockAuthService) RegisterUser(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}
func (m *MockAuthService) Refresh(ctx context.Context, rawToken string) (*model.AuthResponse, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}
func (m *MockAuthService) Logout(rawToken string) error {
	args := m.Called(rawToken)
	return args.Error(0)
}
func (m *MockAuthService) ChangePassword(email, oldPassword, newPassword string) (bool, error) {
	args := m.Called(email, oldPassword, newPassword)
	return args.Bool(0), args.Error(1)
}
func (m *MockAuthService) AdminUpdatePassword(userID int, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

// MockUserService is a mock for service.IUserService.
type MockUserService struct{ mock.Mock }

func (m *MockUserService) ListUsersForCompany(ctx context.Context, companyID int64) ([]model.UserView, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserView), args.Error(1)
}
func (m *MockUserService) UpdateUserRoles(ctx context.Context, userID int, roleNames []string) (*model.UserView, error) {
	args := m.Called(ctx, userID, roleNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserView), args.Error(1)
}
