package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bitemebuddy/admin-api/internal/models"
	pkghttp "github.com/bitemebuddy/admin-api/pkg/http"
)

// DatabasePinger reports whether the storage backend is reachable.
type DatabasePinger interface {
	HealthCheck(ctx context.Context) error
}

// UserCounter counts users matching a filter predicate.
type UserCounter interface {
	Count(ctx context.Context, c models.FilterCriteria) (int, error)
}

// HealthHandler serves the liveness endpoint: a DB ping plus the user count.
type HealthHandler struct {
	db    DatabasePinger
	users UserCounter
}

func NewHealthHandler(db DatabasePinger, users UserCounter) *HealthHandler {
	return &HealthHandler{
		db:    db,
		users: users,
	}
}

// Health reports service health, 503 when the database is unreachable
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	count, err := h.users.Count(ctx, models.DefaultCriteria())
	if err != nil {
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "database query failed",
		})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     "Users Admin Panel",
		"users_count": count,
	})
}
