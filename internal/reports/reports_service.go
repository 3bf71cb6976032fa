package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shiftleave/internal/domain"
	"shiftleave/internal/leave"
	"shiftleave/internal/shared/apperror"

	"go.uber.org/zap"
)

var (
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"only admins can access reports",
		http.StatusForbidden,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year or month",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=reports_service.go -destination=mock/reports_service_mock.go -package=mock
type Service interface {
	GetDailyReport(ctx context.Context, caller domain.Caller, date string) (DailyReportResponse, error)
	GetWeeklyReport(ctx context.Context, caller domain.Caller, startDate string) (WeeklyReportResponse, error)
	GetMonthlyReport(ctx context.Context, caller domain.Caller, year, month int) (MonthlyReportResponse, error)
}

type service struct {
	ledger leave.Repository
	logger *zap.Logger
}

// NewService membangun view agregasi di atas ledger; read-only, tidak
// pernah memutasi request.
func NewService(ledger leave.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("reports.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reports.service")
	}
	return &service{ledger: ledger, logger: l}
}

func (s *service) GetDailyReport(ctx context.Context, caller domain.Caller, date string) (DailyReportResponse, error) {
	if !caller.IsAdmin() {
		return DailyReportResponse{}, ErrAdminOnly
	}

	day, err := parseDate(date)
	if err != nil {
		return DailyReportResponse{}, err
	}
	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)

	leaves, err := s.ledger.FindByDateRange(ctx, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("daily report query failed", zap.Error(err))
		return DailyReportResponse{}, err
	}

	return DailyReportResponse{
		Date:    day.Format("2006-01-02"),
		Summary: summarize(leaves),
		Details: mapDetails(leaves),
	}, nil
}

func (s *service) GetWeeklyReport(ctx context.Context, caller domain.Caller, startDate string) (WeeklyReportResponse, error) {
	if !caller.IsAdmin() {
		return WeeklyReportResponse{}, ErrAdminOnly
	}

	start, err := parseDate(startDate)
	if err != nil {
		return WeeklyReportResponse{}, err
	}
	end := start.AddDate(0, 0, 6)

	leaves, err := s.ledger.FindByDateRange(ctx, start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		s.logger.Error("weekly report query failed", zap.Error(err))
		return WeeklyReportResponse{}, err
	}

	dailySummary := make(map[string]DaySummary, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		dateKey := day.Format("2006-01-02")
		dailySummary[dateKey] = summarize(filterByDate(leaves, dateKey))
	}

	return WeeklyReportResponse{
		Period: Period{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
		},
		TotalSummary: summarize(leaves).StatusSummary,
		DailySummary: dailySummary,
		Details:      mapDetails(leaves),
	}, nil
}

func (s *service) GetMonthlyReport(ctx context.Context, caller domain.Caller, year, month int) (MonthlyReportResponse, error) {
	if !caller.IsAdmin() {
		return MonthlyReportResponse{}, ErrAdminOnly
	}
	if month < 1 || month > 12 || year < 1970 || year > 2100 {
		return MonthlyReportResponse{}, ErrInvalidMonth
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	leaves, err := s.ledger.FindByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("monthly report query failed", zap.Error(err))
		return MonthlyReportResponse{}, err
	}

	// Bucket 7 hari tetap mulai dari tanggal 1, bukan minggu kalender;
	// bucket terakhir boleh pendek.
	weeks := (daysInMonth + 6) / 7
	weeklySummary := make(map[string]StatusSummary, weeks)
	for week := 0; week < weeks; week++ {
		weekStart := monthStart.AddDate(0, 0, week*7)
		weekEnd := weekStart.AddDate(0, 0, 6).Add(24*time.Hour - time.Nanosecond)

		var bucket []leave.Leave
		for _, l := range leaves {
			if !l.Date.Before(weekStart) && !l.Date.After(weekEnd) {
				bucket = append(bucket, l)
			}
		}
		weeklySummary[fmt.Sprintf("week_%d", week+1)] = summarize(bucket).StatusSummary
	}

	return MonthlyReportResponse{
		Period: Period{
			Year:  year,
			Month: month,
			Start: monthStart.Format("2006-01-02"),
			End:   monthStart.AddDate(0, 1, -1).Format("2006-01-02"),
		},
		TotalSummary:  summarize(leaves),
		WeeklySummary: weeklySummary,
		Details:       mapDetails(leaves),
	}, nil
}

func summarize(leaves []leave.Leave) DaySummary {
	var sum DaySummary
	sum.Total = len(leaves)
	for _, l := range leaves {
		switch l.Status {
		case leave.StatusApproved:
			sum.Approved++
		case leave.StatusPending:
			sum.Pending++
		case leave.StatusRejected:
			sum.Rejected++
		}
		switch l.Shift {
		case domain.Shift1:
			sum.ByShift.Shift1++
		case domain.Shift2:
			sum.ByShift.Shift2++
		case domain.ShiftNight:
			sum.ByShift.Night++
		}
	}
	return sum
}

func filterByDate(leaves []leave.Leave, dateKey string) []leave.Leave {
	var out []leave.Leave
	for _, l := range leaves {
		if l.Date.Format("2006-01-02") == dateKey {
			out = append(out, l)
		}
	}
	return out
}

func mapDetails(leaves []leave.Leave) []leave.LeaveResponse {
	out := make([]leave.LeaveResponse, len(leaves))
	for i, l := range leaves {
		out[i] = leave.MapToResponse(l)
	}
	return out
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}
