package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bitemebuddy/admin-api/internal/location"
	"github.com/bitemebuddy/admin-api/internal/models"
	"github.com/bitemebuddy/admin-api/pkg/auth"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context, c models.FilterCriteria) ([]*models.User, int, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) (string, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}

// UserService handles user listing, enrichment and mutation logic
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// enrichUser decorates a stored row with its decoded location and display
// timestamps. Exporters and handlers consume this shape, never the bare row.
func enrichUser(u *models.User) *models.EnrichedUser {
	return &models.EnrichedUser{
		User:             *u,
		ParsedLocation:   location.Parse(u.Location),
		FormattedCreated: u.CreatedAt.Format(models.DisplayTimeLayout),
		FormattedUpdated: u.LastUpdated().Format(models.DisplayTimeLayout),
	}
}

func enrichUsers(users []*models.User) []*models.EnrichedUser {
	enriched := make([]*models.EnrichedUser, len(users))
	for i, u := range users {
		enriched[i] = enrichUser(u)
	}
	return enriched
}

// ListUsers retrieves one enriched page of users plus pagination metadata.
// Page and total always derive from the same query predicate; a page beyond
// the last one yields an empty slice with the total intact.
func (s *UserService) ListUsers(c models.FilterCriteria) ([]*models.EnrichedUser, models.Pagination, error) {
	ctx := context.Background()

	users, total, err := s.repo.List(ctx, c)
	if err != nil {
		s.logger.Error("failed to list users",
			slog.Int("page", c.Page), slog.Int("per_page", c.PerPage), slog.Any("error", err))
		return nil, models.Pagination{}, err
	}

	return enrichUsers(users), models.NewPagination(c, total), nil
}

// GetUser retrieves a single enriched user by ID
func (s *UserService) GetUser(id int64) (*models.EnrichedUser, error) {
	ctx := context.Background()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.Int64("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, err
	}

	return enrichUser(user), nil
}

// UpdateUser applies a field-level update. The plaintext password, when
// present, is hashed here so the repository only ever sees the hash.
func (s *UserService) UpdateUser(id int64, upd models.UserUpdate) (*models.EnrichedUser, error) {
	ctx := context.Background()

	// An empty password field means "leave the password alone". Normalized
	// before the emptiness check so a body carrying only a blank password
	// does not reach the repository as a timestamp-only update.
	if upd.Password != nil && *upd.Password == "" {
		upd.Password = nil
	}

	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrBadRequest)
	}

	if upd.Status != nil && !models.ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", models.ErrBadRequest, *upd.Status)
	}

	if upd.Password != nil {
		hashed, err := auth.HashPassword(*upd.Password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		upd.Password = &hashed
	}

	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			s.logger.Info("user not found", slog.Int64("user_id", id))
		case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrPhoneTaken):
			s.logger.Info("uniqueness conflict on update", slog.Int64("user_id", id), slog.Any("error", err))
		default:
			s.logger.Error("failed to update user", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return nil, err
	}

	s.logger.Info("user updated", slog.Int64("user_id", id))
	return enrichUser(user), nil
}

// SetUserStatus activates or blocks a user and returns a confirmation
// message naming the action taken.
func (s *UserService) SetUserStatus(id int64, status string) (string, error) {
	ctx := context.Background()

	if !models.ValidStatus(status) {
		return "", fmt.Errorf("%w: invalid status %q", models.ErrBadRequest, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.Int64("user_id", id))
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to update user status", slog.Int64("user_id", id), slog.Any("error", err))
		return "", err
	}

	action := "activated"
	if status == models.StatusBlocked {
		action = "blocked"
	}

	s.logger.Info("user status changed", slog.Int64("user_id", id), slog.String("status", status))
	return fmt.Sprintf("User %s successfully", action), nil
}

// DeleteUser removes a user and returns the deleted user's full name.
func (s *UserService) DeleteUser(id int64) (string, error) {
	ctx := context.Background()

	fullName, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.Int64("user_id", id))
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.Int64("user_id", id), slog.Any("error", err))
		return "", err
	}

	s.logger.Info("user deleted", slog.Int64("user_id", id), slog.String("full_name", fullName))
	return fullName, nil
}

// Stats returns the dashboard counters.
func (s *UserService) Stats() (*models.UserStats, error) {
	ctx := context.Background()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to compute user stats", slog.Any("error", err))
		return nil, err
	}

	return stats, nil
}
