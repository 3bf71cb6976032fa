package shiftconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"shiftleave/internal/domain"
	shiftconfigerrors "shiftleave/internal/shiftconfig/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultShift1Limit = 5
	DefaultShift2Limit = 5
	DefaultNightLimit  = 10
)

// Senin sampai Jumat (Sunday=0 .. Saturday=6)
func defaultActiveDays() []int {
	return []int{1, 2, 3, 4, 5}
}

const configCacheKey = "config:shift"

//go:generate mockgen -source=shiftconfig_service.go -destination=mock/shiftconfig_service_mock.go -package=mock
type Service interface {
	ShiftCapacity(ctx context.Context) (domain.ShiftCapacity, error)
	SetShiftConfig(ctx context.Context, caller domain.Caller, req UpdateShiftConfigRequest) (domain.ShiftCapacity, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("shiftconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shiftconfig.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) ShiftCapacity(ctx context.Context) (domain.ShiftCapacity, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, configCacheKey).Result()
		if err == nil {
			var cfg domain.ShiftCapacity
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	v, err, _ := s.sf.Do(configCacheKey, func() (interface{}, error) {
		cfg, err := s.loadConfig(ctx)
		if err != nil {
			return domain.ShiftCapacity{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(cfg); err == nil {
				s.rdb.Set(ctx, configCacheKey, jsonData, 30*time.Minute)
			}
		}

		return cfg, nil
	})

	if err != nil {
		return domain.ShiftCapacity{}, err
	}

	return v.(domain.ShiftCapacity), nil
}

func (s *service) loadConfig(ctx context.Context) (domain.ShiftCapacity, error) {
	rows, err := s.repo.FindByKeys(ctx, []string{
		KeyShift1Limit, KeyShift2Limit, KeyNightLimit, KeyActiveDays,
	})
	if err != nil {
		return domain.ShiftCapacity{}, err
	}

	cfg := domain.ShiftCapacity{
		Shift1Limit: DefaultShift1Limit,
		Shift2Limit: DefaultShift2Limit,
		NightLimit:  DefaultNightLimit,
		ActiveDays:  defaultActiveDays(),
	}

	for _, row := range rows {
		switch row.Key {
		case KeyShift1Limit:
			if v, err := strconv.Atoi(row.Value); err == nil {
				cfg.Shift1Limit = v
			}
		case KeyShift2Limit:
			if v, err := strconv.Atoi(row.Value); err == nil {
				cfg.Shift2Limit = v
			}
		case KeyNightLimit:
			if v, err := strconv.Atoi(row.Value); err == nil {
				cfg.NightLimit = v
			}
		case KeyActiveDays:
			var days []int
			if err := json.Unmarshal([]byte(row.Value), &days); err == nil {
				cfg.ActiveDays = days
			}
		}
	}

	return cfg, nil
}

// SetShiftConfig menulis keempat key dalam satu transaksi: semua limit
// berubah bersama atau tidak sama sekali.
func (s *service) SetShiftConfig(ctx context.Context, caller domain.Caller, req UpdateShiftConfigRequest) (domain.ShiftCapacity, error) {
	if !caller.IsAdmin() {
		return domain.ShiftCapacity{}, shiftconfigerrors.ErrAdminOnly
	}
	if *req.Shift1Limit < 0 || *req.Shift2Limit < 0 || *req.NightLimit < 0 {
		return domain.ShiftCapacity{}, shiftconfigerrors.ErrInvalidLimit
	}
	for _, d := range req.ActiveDays {
		if d < 0 || d > 6 {
			return domain.ShiftCapacity{}, shiftconfigerrors.ErrInvalidActiveDays
		}
	}

	activeDays, err := json.Marshal(req.ActiveDays)
	if err != nil {
		return domain.ShiftCapacity{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set shift config begin tx failed", zap.Error(err))
		return domain.ShiftCapacity{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pairs := []struct {
		key   string
		value string
	}{
		{KeyShift1Limit, strconv.Itoa(*req.Shift1Limit)},
		{KeyShift2Limit, strconv.Itoa(*req.Shift2Limit)},
		{KeyNightLimit, strconv.Itoa(*req.NightLimit)},
		{KeyActiveDays, string(activeDays)},
	}
	for _, p := range pairs {
		if err := qtx.Upsert(ctx, p.key, p.value); err != nil {
			s.logger.Error("set shift config upsert failed",
				zap.String("key", p.key),
				zap.Error(err),
			)
			return domain.ShiftCapacity{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set shift config commit failed", zap.Error(err))
		return domain.ShiftCapacity{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, configCacheKey).Err(); err != nil {
			s.logger.Warn("invalidate shift config cache failed", zap.Error(err))
		}
	}

	s.logger.Info("set shift config success",
		zap.String("actor_id", caller.ID.String()),
		zap.Int("shift1_limit", *req.Shift1Limit),
		zap.Int("shift2_limit", *req.Shift2Limit),
		zap.Int("night_limit", *req.NightLimit),
	)

	return s.loadConfig(ctx)
}
