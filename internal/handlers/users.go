package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bitemebuddy/admin-api/internal/location"
	"github.com/bitemebuddy/admin-api/internal/models"
	"github.com/bitemebuddy/admin-api/internal/services"
	pkghttp "github.com/bitemebuddy/admin-api/pkg/http"
)

// UserService defines the interface for user business logic
type UserService interface {
	ListUsers(c models.FilterCriteria) ([]*models.EnrichedUser, models.Pagination, error)
	GetUser(id int64) (*models.EnrichedUser, error)
	UpdateUser(id int64, upd models.UserUpdate) (*models.EnrichedUser, error)
	SetUserStatus(id int64, status string) (string, error)
	DeleteUser(id int64) (string, error)
	Stats() (*models.UserStats, error)
}

// UserExporter builds the CSV dump returned by the export endpoint.
type UserExporter interface {
	ExportCSV() (string, string, error)
}

// UserReporter renders the per-user PDF report.
type UserReporter interface {
	UserReport(id int64) ([]byte, string, error)
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	service  UserService
	exporter UserExporter
	reporter UserReporter
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, exporter UserExporter, reporter UserReporter) *UserHandler {
	return &UserHandler{
		service:  service,
		exporter: exporter,
		reporter: reporter,
	}
}

// Request/Response DTOs

// UpdateUserRequest carries the optional field-level changes of a user update.
// Absent fields stay untouched; an empty password also means "keep current".
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,min=5,max=20"`
	Location *string `json:"location"`
	Status   *string `json:"status" validate:"omitempty,oneof=active blocked"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UserResponse is the enriched user shape the dashboard consumes.
type UserResponse struct {
	ID               int64             `json:"id"`
	FullName         string            `json:"full_name"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Location         string            `json:"location"`
	ProfilePic       *string           `json:"profile_pic"`
	Status           string            `json:"status"`
	CreatedAt        string            `json:"created_at"`
	ParsedLocation   location.Location `json:"parsed_location"`
	IsAutoDetected   bool              `json:"is_auto_detected"`
	FormattedCreated string            `json:"formatted_created"`
	FormattedUpdated string            `json:"formatted_updated"`
}

// ListUsersResponse is the listing envelope: one page plus its metadata
type ListUsersResponse struct {
	Success    bool              `json:"success"`
	Users      []*UserResponse   `json:"users"`
	Pagination models.Pagination `json:"pagination"`
}

func userToResponse(u *models.EnrichedUser) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		FullName:         u.FullName,
		Phone:            u.Phone,
		Email:            u.Email,
		Location:         u.Location,
		ProfilePic:       u.ProfilePic,
		Status:           u.Status,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
		ParsedLocation:   u.ParsedLocation,
		IsAutoDetected:   u.ParsedLocation.AutoDetected,
		FormattedCreated: u.FormattedCreated,
		FormattedUpdated: u.FormattedUpdated,
	}
}

// ListUsers retrieves a filtered, paginated page of users
//
// @Summary List users
// @Param page query int false "Page (default 1)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Param search query string false "Substring match on name/phone/email/location"
// @Param location_filter query string false "all|auto|manual"
// @Param status_filter query string false "all|active|blocked"
// @Param date_filter query string false "all|today|week|month"
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Router /admin/api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	users, pagination, err := h.service.ListUsers(criteria)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := &ListUsersResponse{
		Success:    true,
		Users:      make([]*UserResponse, len(users)),
		Pagination: pagination,
	}
	for i, u := range users {
		response.Users[i] = userToResponse(u)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// GetUser retrieves a single user by ID
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userToResponse(user),
	})
}

// UpdateUser applies a field-level update to a user
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	upd := models.UserUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Status:   req.Status,
		Password: req.Password,
	}

	user, err := h.service.UpdateUser(id, upd)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User updated successfully",
		"user":    userToResponse(user),
	})
}

// UpdateStatus activates or blocks a user
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !models.ValidStatus(req.Status) {
		pkghttp.WriteBadRequest(w, "Invalid status")
		return
	}

	message, err := h.service.SetUserStatus(id, req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

// DeleteUser removes a user permanently
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	fullName, err := h.service.DeleteUser(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("User %s deleted successfully", fullName),
	})
}

// Stats returns the dashboard counters
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

// ExportUsers returns the full users table as CSV data plus a download name
func (h *UserHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	csvData, filename, err := h.exporter.ExportCSV()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"csv_data": csvData,
		"filename": filename,
	})
}

// DownloadPDF streams the generated PDF report for one user
func (h *UserHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	doc, filename, err := h.reporter.UserReport(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// PDFInfo returns the download URL and suggested filename for a user's report
func (h *UserHandler) PDFInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"download_url": fmt.Sprintf("/admin/api/users/%d/download-pdf", id),
		"filename":     services.ReportFilename(user.FullName),
		"user_name":    user.FullName,
	})
}

// Photo returns the user's profile picture URL
func (h *UserHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if user.ProfilePic == nil || *user.ProfilePic == "" {
		pkghttp.WriteNotFound(w, "No photo available")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"photo_url": *user.ProfilePic,
	})
}

// DownloadPhoto returns a download descriptor for the user's hosted photo.
// Only Cloudinary-hosted pictures are downloadable from the dashboard.
func (h *UserHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if user.ProfilePic == nil || !strings.Contains(strings.ToLower(*user.ProfilePic), "cloudinary") {
		pkghttp.WriteNotFound(w, "No Cloudinary profile photo found for this user")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"photo_url": *user.ProfilePic,
		"user_name": user.FullName,
		"file_name": strings.ReplaceAll(user.FullName, " ", "_") + "_profile.jpg",
		"message":   "Photo download ready",
	})
}

// Helper functions

// criteriaFromQuery normalizes listing query parameters into FilterCriteria.
// Unknown location/date filter values fall back to "all"; an unknown status
// value is rejected because it would silently match nothing.
func criteriaFromQuery(r *http.Request) (models.FilterCriteria, error) {
	c := models.DefaultCriteria()
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return c, errors.New("Invalid page parameter")
		}
		c.Page = page
	}

	if v := q.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			return c, errors.New("Invalid per_page parameter")
		}
		c.PerPage = perPage
	}

	c.Search = q.Get("search")

	switch lf := models.LocationFilter(q.Get("location_filter")); lf {
	case models.LocationAuto, models.LocationManual:
		c.LocationFilter = lf
	}

	if v := q.Get("status_filter"); v != "" && v != "all" {
		if !models.ValidStatus(v) {
			return c, errors.New("Invalid status_filter parameter")
		}
		c.StatusFilter = v
	}

	switch df := models.DateFilter(q.Get("date_filter")); df {
	case models.DateToday, models.DateWeek, models.DateMonth:
		c.DateFilter = df
	}

	return c, nil
}

// userIDParam parses the {id} URL parameter, writing a 400 on failure.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		pkghttp.WriteBadRequest(w, "Invalid user ID")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service-layer sentinel errors onto the response
// envelope. Unrecognized errors become an opaque 500; their detail stays in
// the logs.
func (h *UserHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	case errors.Is(err, models.ErrEmailTaken):
		pkghttp.WriteConflict(w, "Email already registered to another user")
	case errors.Is(err, models.ErrPhoneTaken):
		pkghttp.WriteConflict(w, "Phone number already registered to another user")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
