package domain

const (
	Shift1     = "SHIFT1"
	Shift2     = "SHIFT2"
	ShiftNight = "NIGHT"
)

func ValidShift(s string) bool {
	switch s {
	case Shift1, Shift2, ShiftNight:
		return true
	default:
		return false
	}
}

// ShiftCapacity adalah snapshot konfigurasi kapasitas per shift.
// Admission engine membaca satu snapshot per operasi, tidak pernah menulis.
type ShiftCapacity struct {
	Shift1Limit int   `json:"shift1Limit"`
	Shift2Limit int   `json:"shift2Limit"`
	NightLimit  int   `json:"nightLimit"`
	ActiveDays  []int `json:"activeDays"`
}

// MaxSlots mengembalikan 0 untuk shift yang tidak dikenal
func (c ShiftCapacity) MaxSlots(shift string) int {
	switch shift {
	case Shift1:
		return c.Shift1Limit
	case Shift2:
		return c.Shift2Limit
	case ShiftNight:
		return c.NightLimit
	default:
		return 0
	}
}
