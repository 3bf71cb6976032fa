package shiftconfig

type UpdateShiftConfigRequest struct {
	Shift1Limit *int  `json:"shift1Limit" binding:"required,min=0"`
	Shift2Limit *int  `json:"shift2Limit" binding:"required,min=0"`
	NightLimit  *int  `json:"nightLimit" binding:"required,min=0"`
	ActiveDays  []int `json:"activeDays" binding:"required,min=1,dive,min=0,max=6"`
}
