package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"shiftleave/internal/domain"
	"shiftleave/internal/events"
	leaveerrors "shiftleave/internal/leave/errors"
	"shiftleave/internal/messaging/kafka"
	"shiftleave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// CapacityProvider menyuplai snapshot kapasitas shift. Engine hanya membaca.
type CapacityProvider interface {
	ShiftCapacity(ctx context.Context) (domain.ShiftCapacity, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caller domain.Caller, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, caller domain.Caller) ([]LeaveResponse, error)
	GetByID(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, caller domain.Caller, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	GetAvailability(ctx context.Context, shift, date string) (AvailabilityResponse, error)
	GetCalendar(ctx context.Context, year, month int) (CalendarResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	capacity CapacityProvider
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	slots    *slotLock
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	capacity CapacityProvider,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		capacity: capacity,
		outbox:   outbox,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		slots:    newSlotLock(),
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, caller domain.Caller, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("user_id", caller.ID.String()),
		zap.String("shift", req.Shift),
		zap.String("date", req.Date),
	)

	if !domain.ValidShift(req.Shift) {
		return LeaveResponse{}, leaveerrors.ErrInvalidShift
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return LeaveResponse{}, err
	}
	dayStart, dayEnd := dayWindow(date)

	// Zona eksklusi per (shift, date): dua submit untuk slot yang sama
	// tidak boleh sama-sama melihat available > 0 dan sama-sama commit.
	unlock := s.slots.Lock(slotKey(req.Shift, date))
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsForUserShiftDate(ctx, caller.ID.String(), req.Shift, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("create leave duplicate check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if exists {
		s.logger.Warn("create leave duplicate detected",
			zap.String("user_id", caller.ID.String()),
			zap.String("shift", req.Shift),
			zap.String("date", req.Date),
		)
		return LeaveResponse{}, leaveerrors.ErrDuplicateRequest
	}

	snapshot, err := s.availability(ctx, qtx, req.Shift, date)
	if err != nil {
		s.logger.Error("create leave availability check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if snapshot.Available <= 0 {
		s.logger.Warn("create leave capacity exceeded",
			zap.String("shift", req.Shift),
			zap.String("date", req.Date),
			zap.Int("used", snapshot.Used),
			zap.Int("pending", snapshot.Pending),
			zap.Int("max_slots", snapshot.MaxSlots),
		)
		return LeaveResponse{}, leaveerrors.ErrCapacityExceeded
	}

	l := &Leave{
		ID:     uuid.New(),
		UserID: caller.ID,
		Shift:  req.Shift,
		Date:   dayStart,
		Reason: req.Reason,
		Status: StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.invalidateCalendar(ctx, dayStart)

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", caller.ID.String()),
		zap.String("shift", req.Shift),
		zap.String("date", req.Date),
	)

	return MapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, caller domain.Caller) ([]LeaveResponse, error) {
	var (
		leaves []Leave
		err    error
	)
	if caller.IsAdmin() {
		leaves, err = s.repo.FindAll(ctx)
	} else {
		leaves, err = s.repo.FindAllByUser(ctx, caller.ID.String())
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !caller.IsAdmin() && l.UserID != caller.ID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	return MapToResponse(*l), nil
}

func (s *service) UpdateStatus(ctx context.Context, caller domain.Caller, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave status requested",
		zap.String("leave_id", id),
		zap.String("actor_id", caller.ID.String()),
		zap.String("target_status", req.Status),
	)

	if !caller.IsAdmin() {
		return LeaveResponse{}, leaveerrors.ErrAdminOnly
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	// Satu arah: APPROVED dan REJECTED adalah status terminal.
	if l.Status != StatusPending {
		s.logger.Warn("update leave status invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", req.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	// Kapasitas tidak divalidasi ulang saat approval: slot sudah
	// direservasi lewat bucket pending sejak submit.
	now := time.Now().UTC()
	actorID := caller.ID
	l.Status = req.Status
	l.DecidedBy = &actorID
	l.DecidedAt = &now

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave status persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		if err := s.enqueueDecisionEvent(ctx, tx, l); err != nil {
			s.logger.Error("enqueue leave decision event failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.invalidateCalendar(ctx, l.Date)

	s.logger.Info("update leave status success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
	)
	return MapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !caller.IsAdmin() && l.UserID != caller.ID {
		return leaveerrors.ErrNotOwner
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidateCalendar(ctx, l.Date)

	s.logger.Info("delete leave success",
		zap.String("leave_id", id),
		zap.String("actor_id", caller.ID.String()),
	)
	return nil
}

func (s *service) GetAvailability(ctx context.Context, shift, date string) (AvailabilityResponse, error) {
	if !domain.ValidShift(shift) {
		return AvailabilityResponse{}, leaveerrors.ErrInvalidShift
	}
	d, err := parseDate(date)
	if err != nil {
		return AvailabilityResponse{}, err
	}
	return s.availability(ctx, s.repo, shift, d)
}

// availability menghitung snapshot untuk satu (shift, date). Deterministik
// terhadap isi ledger dan config saat dipanggil; isolasi terhadap writer
// konkuren menjadi tanggung jawab pemanggil.
func (s *service) availability(ctx context.Context, repo Repository, shift string, date time.Time) (AvailabilityResponse, error) {
	cfg, err := s.capacity.ShiftCapacity(ctx)
	if err != nil {
		return AvailabilityResponse{}, err
	}

	dayStart, dayEnd := dayWindow(date)
	approved, err := repo.CountByShiftDateStatus(ctx, shift, dayStart, dayEnd, StatusApproved)
	if err != nil {
		return AvailabilityResponse{}, err
	}
	pending, err := repo.CountByShiftDateStatus(ctx, shift, dayStart, dayEnd, StatusPending)
	if err != nil {
		return AvailabilityResponse{}, err
	}

	maxSlots := cfg.MaxSlots(shift)
	available := maxSlots - int(approved) - int(pending)
	if available < 0 {
		available = 0
	}

	return AvailabilityResponse{
		Shift:     shift,
		Date:      dayStart.Format("2006-01-02"),
		Used:      int(approved),
		Pending:   int(pending),
		Available: available,
		MaxSlots:  maxSlots,
	}, nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, l *Leave) error {
	evt := events.LeaveDecidedEvent{
		EventType: "leave.decided",
		LeaveID:   l.ID.String(),
		UserID:    l.UserID.String(),
		Shift:     l.Shift,
		Date:      l.Date.Format("2006-01-02"),
		Status:    l.Status,
		DecidedBy: l.DecidedBy.String(),
		DecidedAt: *l.DecidedAt,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// dayWindow menormalkan tanggal ke batas hari: semua request yang jatuh
// di dalam jendela ini ikut dihitung, apapun presisi time-of-day yang
// tersimpan.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

func slotKey(shift string, date time.Time) string {
	return shift + "|" + date.Format("2006-01-02")
}

func MapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		Shift:     l.Shift,
		Date:      l.Date.Format("2006-01-02"),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = MapToResponse(l)
	}
	return resp
}
