package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	leaveerrors "shiftleave/internal/leave/errors"

	"go.uber.org/zap"
)

const calendarKeyPrefix = "leave:calendar:"

// TTL pendek: pembaca boleh melihat state yang sedikit basi, invariant
// kapasitas hanya ditegakkan di jalur tulis.
const calendarCacheTTL = 60 * time.Second

func calendarKey(year int, month time.Month) string {
	return fmt.Sprintf("%s%04d-%02d", calendarKeyPrefix, year, month)
}

func (s *service) GetCalendar(ctx context.Context, year, month int) (CalendarResponse, error) {
	if month < 1 || month > 12 || year < 1970 || year > 2100 {
		return nil, leaveerrors.ErrInvalidMonth
	}

	cacheKey := calendarKey(year, time.Month(month))

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp CalendarResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Singleflight untuk mencegah query berulang ke DB saat cache kosong
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.buildCalendar(ctx, year, time.Month(month))
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, calendarCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(CalendarResponse), nil
}

func (s *service) buildCalendar(ctx context.Context, year int, month time.Month) (CalendarResponse, error) {
	cfg, err := s.capacity.ShiftCapacity(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	leaves, err := s.repo.FindByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	resp := make(CalendarResponse, daysInMonth)

	for day := 1; day <= daysInMonth; day++ {
		dateKey := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		resp[dateKey] = CalendarDay{
			"shift1": {Used: 0, Pending: 0, Available: cfg.Shift1Limit},
			"shift2": {Used: 0, Pending: 0, Available: cfg.Shift2Limit},
			"night":  {Used: 0, Pending: 0, Available: cfg.NightLimit},
		}
	}

	for _, l := range leaves {
		dateKey := l.Date.Format("2006-01-02")
		day, ok := resp[dateKey]
		if !ok {
			continue
		}
		shiftKey := strings.ToLower(l.Shift)
		slot, ok := day[shiftKey]
		if !ok {
			continue
		}

		// REJECTED tidak menempati slot
		switch l.Status {
		case StatusApproved:
			slot.Used++
			slot.Available--
		case StatusPending:
			slot.Pending++
			slot.Available--
		default:
			continue
		}
		if slot.Available < 0 {
			slot.Available = 0
		}
		day[shiftKey] = slot
	}

	return resp, nil
}

func (s *service) invalidateCalendar(ctx context.Context, date time.Time) {
	if s.rdb == nil {
		return
	}
	cacheKey := calendarKey(date.Year(), date.Month())
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("invalidate calendar cache failed",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
	}
}
