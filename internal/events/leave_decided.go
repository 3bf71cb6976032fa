package events

import "time"

const LeaveDecidedTopic = "leave.request.decision.v1"

type LeaveDecidedEvent struct {
	EventType string    `json:"event_type"`
	LeaveID   string    `json:"leave_id"`
	UserID    string    `json:"user_id"`
	Shift     string    `json:"shift"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}
