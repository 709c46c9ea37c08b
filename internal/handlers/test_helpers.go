package handlers

import (
	"context"
	"time"

	"github.com/bitemebuddy/admin-api/internal/location"
	"github.com/bitemebuddy/admin-api/internal/models"
)

// MockUserService is a configurable test double for UserService
type MockUserService struct {
	ListUsersFunc     func(c models.FilterCriteria) ([]*models.EnrichedUser, models.Pagination, error)
	GetUserFunc       func(id int64) (*models.EnrichedUser, error)
	UpdateUserFunc    func(id int64, upd models.UserUpdate) (*models.EnrichedUser, error)
	SetUserStatusFunc func(id int64, status string) (string, error)
	DeleteUserFunc    func(id int64) (string, error)
	StatsFunc         func() (*models.UserStats, error)
}

func (m *MockUserService) ListUsers(c models.FilterCriteria) ([]*models.EnrichedUser, models.Pagination, error) {
	return m.ListUsersFunc(c)
}

func (m *MockUserService) GetUser(id int64) (*models.EnrichedUser, error) {
	return m.GetUserFunc(id)
}

func (m *MockUserService) UpdateUser(id int64, upd models.UserUpdate) (*models.EnrichedUser, error) {
	return m.UpdateUserFunc(id, upd)
}

func (m *MockUserService) SetUserStatus(id int64, status string) (string, error) {
	return m.SetUserStatusFunc(id, status)
}

func (m *MockUserService) DeleteUser(id int64) (string, error) {
	return m.DeleteUserFunc(id)
}

func (m *MockUserService) Stats() (*models.UserStats, error) {
	return m.StatsFunc()
}

// MockExporter is a configurable test double for UserExporter
type MockExporter struct {
	ExportCSVFunc func() (string, string, error)
}

func (m *MockExporter) ExportCSV() (string, string, error) {
	return m.ExportCSVFunc()
}

// MockReporter is a configurable test double for UserReporter
type MockReporter struct {
	UserReportFunc func(id int64) ([]byte, string, error)
}

func (m *MockReporter) UserReport(id int64) ([]byte, string, error) {
	return m.UserReportFunc(id)
}

// MockPinger is a configurable test double for DatabasePinger
type MockPinger struct {
	HealthCheckFunc func(ctx context.Context) error
}

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	return m.HealthCheckFunc(ctx)
}

// MockCounter is a configurable test double for UserCounter
type MockCounter struct {
	CountFunc func(ctx context.Context, c models.FilterCriteria) (int, error)
}

func (m *MockCounter) Count(ctx context.Context, c models.FilterCriteria) (int, error) {
	return m.CountFunc(ctx, c)
}

// NewTestEnrichedUser builds an enriched user with sensible defaults for tests
func NewTestEnrichedUser(id int64, fullName, email string) *models.EnrichedUser {
	created := time.Date(2026, time.March, 5, 21, 41, 0, 0, time.UTC)
	raw := "12 Main St | 40.7128 | -74.0060 | http://maps/x"

	return &models.EnrichedUser{
		User: models.User{
			ID:        id,
			FullName:  fullName,
			Phone:     "+10000000001",
			Email:     email,
			Location:  raw,
			Status:    models.StatusActive,
			CreatedAt: created,
		},
		ParsedLocation:   location.Parse(raw),
		FormattedCreated: created.Format(models.DisplayTimeLayout),
		FormattedUpdated: created.Format(models.DisplayTimeLayout),
	}
}
