package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-project-api/logger"
	"go-project-api/model"
	"go-project-api/repository"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrUnknownRole = errors.New("unknown role name")

// IUserService is the user-directory contract consumed by the HTTP layer.
type IUserService interface {
	ListUsersForCompany(ctx context.Context, companyID int64) ([]model.UserView, error)
	UpdateUserRoles(ctx context.Context, userID int, roleNames []string) (*model.UserView, error)
}

const companyUsersCacheTTL = 10 * time.Minute

// UserService handles user directory operations that sit next to the auth
// flows: listing a company's members and changing role sets.
type UserService struct {
	userRepo repository.IUserRepository
	roleRepo repository.IRoleRepository
	cache    ICacheClient
}

func NewUserService(userRepo repository.IUserRepository, roleRepo repository.IRoleRepository, cache ICacheClient) *UserService {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, cache: cache}
}

func companyUsersCacheKey(companyID int64) string {
	return fmt.Sprintf("company:%d:users", companyID)
}

// ListUsersForCompany returns the members of a company, using a cache-aside
// strategy so the member directory does not hit Postgres on every request.
func (s *UserService) ListUsersForCompany(ctx context.Context, companyID int64) ([]model.UserView, error) {
	cacheKey := companyUsersCacheKey(companyID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var views []model.UserView
			if err := json.Unmarshal([]byte(cached), &views); err == nil {
				return views, nil
			}
		}
	}

	users, err := s.userRepo.GetUsersByCompanyID(companyID)
	if err != nil {
		return nil, err
	}

	views := make([]model.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}

	if s.cache != nil {
		if data, err := json.Marshal(views); err == nil {
			s.cache.Set(ctx, cacheKey, data, companyUsersCacheTTL)
		}
	}

	return views, nil
}

// UpdateUserRoles replaces the user's role set with the named roles. Every
// name must resolve to a seeded role row.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID int, roleNames []string) (*model.UserView, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	roleIDs := make([]int, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := s.roleRepo.GetRoleByName(name)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrUnknownRole
			}
			return nil, err
		}
		roleIDs = append(roleIDs, role.ID)
	}

	if err := s.userRepo.ReplaceUserRoles(userID, roleIDs); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"roles":   roleNames,
	}).Info("User roles updated")

	if s.cache != nil && user.CompanyID.Valid {
		s.cache.Del(ctx, companyUsersCacheKey(user.CompanyID.Int64))
	}

	updated, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	view := updated.View()
	return &view, nil
}
