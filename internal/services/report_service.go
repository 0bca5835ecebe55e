package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/guided-platform/matching-service/internal/repositories"
	"github.com/guided-platform/matching-service/internal/validator"
)

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ExportInvites renders the invite pipeline as an Excel workbook for
// facilitators. One sheet with the full pipeline; terminal invites included
// since the sheet doubles as history.
func (s *reportService) ExportInvites(ctx context.Context, req *InviteListRequest) (*bytes.Buffer, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	filters := repositories.InviteFilters{
		StudentID: req.StudentID,
		MentorID:  req.MentorID,
		Status:    req.Status,
		Pending:   req.Pending,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	invites, _, err := s.repo.Invite().List(ctx, nil, filters)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list invites: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Invites"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Invite ID", "Student", "Mentor", "Score", "Status",
		"Student Accepted", "Mentor Accepted", "Created By",
		"Created", "Last Update", "Reasons",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	now := time.Now()
	for row, invite := range invites {
		values := []interface{}{
			invite.ID,
			partyName(invite.Student.FirstName, invite.Student.LastName, invite.StudentID),
			partyName(invite.Mentor.FirstName, invite.Mentor.LastName, invite.MentorID),
			invite.Score,
			string(invite.Status),
			invite.AcceptedByStudent,
			invite.AcceptedByMentor,
			string(invite.CreatedBy),
			invite.CreatedAt.Format("2006-01-02 15:04"),
			invite.UpdatedAt.Format("2006-01-02 15:04"),
			joinReasons(invite.Reasons),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}

		// Flag stalled pending invites so facilitators can nudge.
		if invite.Status.IsPending() && invite.IdleSince(now) > NudgeThreshold {
			cell, _ := excelize.CoordinatesToCellName(len(values)+1, row+2)
			f.SetCellValue(sheet, cell, "needs nudge")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate workbook: %w", err)
	}

	filename := fmt.Sprintf("invites_%s.xlsx", now.Format("2006-01-02"))

	s.logger.Info("invite report exported", "rows", len(invites), "filename", filename)

	return buf, filename, nil
}

func partyName(first, last, fallback string) string {
	if first == "" && last == "" {
		return fallback
	}
	return first + " " + last
}

func joinReasons(reasons []string) string {
	out := ""
	for i, reason := range reasons {
		if i > 0 {
			out += "; "
		}
		out += reason
	}
	return out
}
