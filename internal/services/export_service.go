package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bitemebuddy/admin-api/internal/location"
	"github.com/bitemebuddy/admin-api/internal/models"
)

var csvHeader = []string{
	"ID", "Full Name", "Phone", "Email", "Address",
	"Latitude", "Longitude", "Map Link", "Status", "Registration Date",
}

// ExportService builds the CSV dump of the whole users table.
type ExportService struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewExportService(repo UserRepository, logger *slog.Logger) *ExportService {
	return &ExportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportCSV returns the CSV content for all users, newest first, plus a
// timestamped download filename. Commas inside the address and email fields
// are replaced with semicolons before encoding, matching what the dashboard's
// import tooling expects.
func (s *ExportService) ExportCSV() (string, string, error) {
	ctx := context.Background()

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to export users", slog.Any("error", err))
		return "", "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", "", fmt.Errorf("write csv header: %w", err)
	}

	for _, u := range users {
		loc := location.Parse(u.Location)

		record := []string{
			strconv.FormatInt(u.ID, 10),
			u.FullName,
			u.Phone,
			strings.ReplaceAll(u.Email, ",", ";"),
			strings.ReplaceAll(loc.Address, ",", ";"),
			formatCoordinate(loc.Latitude),
			formatCoordinate(loc.Longitude),
			stringOrEmpty(loc.MapLink),
			u.Status,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return "", "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("20060102_150405"))

	s.logger.Info("users exported to csv", slog.Int("count", len(users)))
	return buf.String(), filename, nil
}

func formatCoordinate(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
