package reports

import "shiftleave/internal/leave"

type ShiftBreakdown struct {
	Shift1 int `json:"shift1"`
	Shift2 int `json:"shift2"`
	Night  int `json:"night"`
}

type StatusSummary struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

type DaySummary struct {
	StatusSummary
	ByShift ShiftBreakdown `json:"byShift"`
}

type Period struct {
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type DailyReportResponse struct {
	Date    string                `json:"date"`
	Summary DaySummary            `json:"summary"`
	Details []leave.LeaveResponse `json:"details"`
}

type WeeklyReportResponse struct {
	Period       Period                `json:"period"`
	TotalSummary StatusSummary         `json:"totalSummary"`
	DailySummary map[string]DaySummary `json:"dailySummary"`
	Details      []leave.LeaveResponse `json:"details"`
}

type MonthlyReportResponse struct {
	Period        Period                   `json:"period"`
	TotalSummary  DaySummary               `json:"totalSummary"`
	WeeklySummary map[string]StatusSummary `json:"weeklySummary"`
	Details       []leave.LeaveResponse    `json:"details"`
}
