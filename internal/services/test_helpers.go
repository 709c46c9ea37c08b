package services

import (
	"context"
	"time"

	"github.com/bitemebuddy/admin-api/internal/models"
)

// MockUserRepository is a configurable test double for UserRepository
type MockUserRepository struct {
	ListFunc         func(ctx context.Context, c models.FilterCriteria) ([]*models.User, int, error)
	ListAllFunc      func(ctx context.Context) ([]*models.User, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*models.User, error)
	UpdateFunc       func(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	UpdateStatusFunc func(ctx context.Context, id int64, status string) error
	DeleteFunc       func(ctx context.Context, id int64) (string, error)
	StatsFunc        func(ctx context.Context) (*models.UserStats, error)
}

func (m *MockUserRepository) List(ctx context.Context, c models.FilterCriteria) ([]*models.User, int, error) {
	return m.ListFunc(ctx, c)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	return m.ListAllFunc(ctx)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	return m.UpdateFunc(ctx, id, upd)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (string, error) {
	return m.DeleteFunc(ctx, id)
}

func (m *MockUserRepository) Stats(ctx context.Context) (*models.UserStats, error) {
	return m.StatsFunc(ctx)
}

// NewTestUser creates a user with sensible defaults for tests
func NewTestUser(id int64, fullName, email string) *models.User {
	return &models.User{
		ID:        id,
		FullName:  fullName,
		Phone:     "+10000000001",
		Email:     email,
		Password:  "$2a$14$not-a-real-hash",
		Location:  "12 Main St | 40.7128 | -74.0060 | http://maps/x",
		Status:    models.StatusActive,
		CreatedAt: time.Date(2026, time.March, 5, 21, 41, 0, 0, time.UTC),
	}
}
