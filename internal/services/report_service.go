package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/bitemebuddy/admin-api/internal/models"
)

// ReportService renders the per-user PDF profile report.
type ReportService struct {
	repo   UserRepository
	client *http.Client // fetches profile pictures, best effort
	logger *slog.Logger
}

func NewReportService(repo UserRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// ReportFilename builds the suggested download name for a user's report.
func ReportFilename(fullName string) string {
	return fmt.Sprintf("User_%s_Report_%s.pdf",
		strings.ReplaceAll(fullName, " ", "_"),
		time.Now().Format("20060102_150405"))
}

// UserReport generates the PDF report for one user and returns the document
// bytes plus the suggested filename.
func (s *ReportService) UserReport(id int64) ([]byte, string, error) {
	ctx := context.Background()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.Int64("user_id", id))
			return nil, "", models.ErrNotFound
		}
		s.logger.Error("failed to load user for report", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, "", err
	}

	doc, err := s.render(enrichUser(user))
	if err != nil {
		s.logger.Error("failed to render report", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, "", err
	}

	s.logger.Info("user report generated", slog.Int64("user_id", id), slog.Int("bytes", len(doc)))
	return doc, ReportFilename(user.FullName), nil
}

const (
	labelColWidth = 50
	valueColWidth = 110
)

func (s *ReportService) render(u *models.EnrichedUser) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 12, "USER PROFILE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(71, 85, 105)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format(models.DisplayTimeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	s.embedProfilePicture(pdf, u)

	sectionHeading(pdf, "BASIC INFORMATION")
	infoTable(pdf, [][2]string{
		{"User ID", "#" + strconv.FormatInt(u.ID, 10)},
		{"Full Name", u.FullName},
		{"Phone Number", u.Phone},
		{"Email Address", u.Email},
		{"Account Status", strings.ToUpper(u.Status)},
		{"Registration Date", u.FormattedCreated},
		{"Last Updated", u.FormattedUpdated},
	})

	sectionHeading(pdf, "LOCATION INFORMATION")
	locationRows := [][2]string{
		{"Address", u.ParsedLocation.Address},
		{"Location Type", locationTypeLabel(u.ParsedLocation.AutoDetected)},
	}
	if u.ParsedLocation.AutoDetected {
		locationRows = append(locationRows,
			[2]string{"Latitude", formatCoordinate(u.ParsedLocation.Latitude)},
			[2]string{"Longitude", formatCoordinate(u.ParsedLocation.Longitude)},
			[2]string{"Google Maps Link", orNotAvailable(stringOrEmpty(u.ParsedLocation.MapLink))},
		)
	}
	infoTable(pdf, locationRows)

	sectionHeading(pdf, "RAW DATABASE DATA")
	rawHeaderRow(pdf)
	infoTable(pdf, [][2]string{
		{"Full Location String", truncate(u.Location, 100)},
		{"Profile Picture URL", orNotAvailable(truncate(stringOrEmpty(u.ProfilePic), 80))},
		{"Created At (Raw)", u.CreatedAt.Format(time.RFC3339)},
		{"User ID (Database)", strconv.FormatInt(u.ID, 10)},
	})

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(148, 163, 184)
	pdf.CellFormat(0, 5, "Report generated by Bite Me Buddy Admin System | Confidential User Data", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// embedProfilePicture fetches and places the profile picture if one is set.
// Failures are logged and skipped; the report is still produced.
func (s *ReportService) embedProfilePicture(pdf *gofpdf.Fpdf, u *models.EnrichedUser) {
	if u.ProfilePic == nil || *u.ProfilePic == "" {
		return
	}

	resp, err := s.client.Get(*u.ProfilePic)
	if err != nil {
		s.logger.Debug("profile picture fetch failed", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("profile picture fetch failed",
			slog.Int64("user_id", u.ID), slog.Int("status", resp.StatusCode))
		return
	}

	opts := gofpdf.ImageOptions{ImageType: imageType(*u.ProfilePic), ReadDpi: true}
	name := fmt.Sprintf("profile-%d", u.ID)
	pdf.RegisterImageOptionsReader(name, opts, resp.Body)
	if pdf.Err() {
		// Unsupported or corrupt image; clear the error and render without it.
		s.logger.Debug("profile picture unusable", slog.Int64("user_id", u.ID))
		pdf.ClearError()
		return
	}

	// Centered 38mm square, roughly the 1.5 inch of the dashboard preview.
	pageWidth, _ := pdf.GetPageSize()
	pdf.ImageOptions(name, (pageWidth-38)/2, pdf.GetY(), 38, 38, false, opts, 0, "")
	pdf.Ln(42)
}

func imageType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".png"):
		return "PNG"
	case strings.Contains(lower, ".gif"):
		return "GIF"
	default:
		return "JPG"
	}
}

func sectionHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(51, 65, 85)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func infoTable(pdf *gofpdf.Fpdf, rows [][2]string) {
	pdf.SetDrawColor(226, 232, 240)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(241, 245, 249)
		pdf.SetTextColor(71, 85, 105)
		pdf.CellFormat(labelColWidth, 8, row[0], "1", 0, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(71, 85, 105)
		pdf.CellFormat(valueColWidth, 8, row[1], "1", 1, "L", false, 0, "")
	}
}

func rawHeaderRow(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelColWidth, 7, "Database Column", "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueColWidth, 7, "Value", "1", 1, "L", true, 0, "")
}

func locationTypeLabel(auto bool) string {
	if auto {
		return "Auto-detected"
	}
	return "Manual Entry"
}

func orNotAvailable(s string) string {
	if s == "" {
		return "Not available"
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
