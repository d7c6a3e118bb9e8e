package service

import (
	"context"
	"database/sql"
	"go-project-api/model"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeCache is an in-memory ICacheClient good enough for cache-aside tests.
type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) *redis.StringCmd {
	if val, ok := c.store[key]; ok {
		return redis.NewStringResult(val, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		c.store[key] = string(v)
	case string:
		c.store[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.store, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestUserService_ListUsersForCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("second call is served from the cache", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		cache := newFakeCache()
		svc := NewUserService(mockUsers, new(MockRoleRepository), cache)

		members := []*model.User{
			{ID: 1, Username: "alice", Email: "alice@acme.com", CompanyID: sql.NullInt64{Int64: 7, Valid: true}, Roles: []string{model.RoleAdmin}},
			{ID: 2, Username: "bob", Email: "bob@acme.com", CompanyID: sql.NullInt64{Int64: 7, Valid: true}, Roles: []string{model.RoleUser}},
		}
		mockUsers.On("GetUsersByCompanyID", int64(7)).Return(members, nil).Once()

		first, err := svc.ListUsersForCompany(ctx, 7)
		assert.NoError(t, err)
		assert.Len(t, first, 2)

		second, err := svc.ListUsersForCompany(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, first, second)

		// The repository was only hit once; the .Once() expectation would
		// fail otherwise.
		mockUsers.AssertExpectations(t)
	})

	t.Run("works without a cache", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc := NewUserService(mockUsers, new(MockRoleRepository), nil)

		mockUsers.On("GetUsersByCompanyID", int64(7)).Return([]*model.User{}, nil).Once()

		views, err := svc.ListUsersForCompany(ctx, 7)
		assert.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestUserService_UpdateUserRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces roles and invalidates the company cache", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockRoles := new(MockRoleRepository)
		cache := newFakeCache()
		cache.store[companyUsersCacheKey(7)] = `[]`
		svc := NewUserService(mockUsers, mockRoles, cache)

		user := &model.User{ID: 2, Username: "bob", CompanyID: sql.NullInt64{Int64: 7, Valid: true}, Roles: []string{model.RoleUser}}
		updated := &model.User{ID: 2, Username: "bob", CompanyID: sql.NullInt64{Int64: 7, Valid: true}, Roles: []string{model.RoleAdmin, model.RoleUser}}

		mockUsers.On("GetUserByID", 2).Return(user, nil).Once()
		mockRoles.On("GetRoleByName", model.RoleAdmin).Return(&model.Role{ID: 1, Name: model.RoleAdmin}, nil).Once()
		mockRoles.On("GetRoleByName", model.RoleUser).Return(&model.Role{ID: 2, Name: model.RoleUser}, nil).Once()
		mockUsers.On("ReplaceUserRoles", 2, []int{1, 2}).Return(nil).Once()
		mockUsers.On("GetUserByID", 2).Return(updated, nil).Once()

		view, err := svc.UpdateUserRoles(ctx, 2, []string{model.RoleAdmin, model.RoleUser})

		assert.NoError(t, err)
		assert.Equal(t, []string{model.RoleAdmin, model.RoleUser}, view.Roles)
		assert.NotContains(t, cache.store, companyUsersCacheKey(7))
		mockUsers.AssertExpectations(t)
	})

	t.Run("unknown role name", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockRoles := new(MockRoleRepository)
		svc := NewUserService(mockUsers, mockRoles, nil)

		mockUsers.On("GetUserByID", 2).Return(&model.User{ID: 2}, nil).Once()
		mockRoles.On("GetRoleByName", "SUPERVISOR").Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateUserRoles(ctx, 2, []string{"SUPERVISOR"})

		assert.ErrorIs(t, err, ErrUnknownRole)
		mockUsers.AssertNotCalled(t, "ReplaceUserRoles", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		svc := NewUserService(mockUsers, new(MockRoleRepository), nil)

		mockUsers.On("GetUserByID", 404).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateUserRoles(ctx, 404, []string{model.RoleUser})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
