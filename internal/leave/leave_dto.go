package leave

type CreateLeaveRequest struct {
	Shift  string `json:"shift" binding:"required,oneof=SHIFT1 SHIFT2 NIGHT"`
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type UpdateLeaveStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type LeaveResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Shift     string  `json:"shift"`
	Date      string  `json:"date"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type AvailabilityResponse struct {
	Shift     string `json:"shift"`
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Pending   int    `json:"pending"`
	Available int    `json:"available"`
	MaxSlots  int    `json:"maxSlots"`
}

// SlotSummary adalah isi satu sel kalender (satu shift pada satu hari)
type SlotSummary struct {
	Used      int `json:"used"`
	Pending   int `json:"pending"`
	Available int `json:"available"`
}

// CalendarDay key: "shift1" | "shift2" | "night"
type CalendarDay map[string]SlotSummary

// CalendarResponse key: "YYYY-MM-DD"
type CalendarResponse map[string]CalendarDay
