package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"shiftleave/internal/domain"
	"shiftleave/internal/leave"
	leaveerrors "shiftleave/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	withTxFn                 func(tx *sql.Tx) leave.Repository
	createFn                 func(ctx context.Context, l *leave.Leave) error
	findAllFn                func(ctx context.Context) ([]leave.Leave, error)
	findAllByUserFn          func(ctx context.Context, userID string) ([]leave.Leave, error)
	findByIDFn               func(ctx context.Context, id string) (*leave.Leave, error)
	existsForUserShiftDateFn func(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error)
	countByShiftDateStatusFn func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error)
	findByDateRangeFn        func(ctx context.Context, from, to time.Time) ([]leave.Leave, error)
	updateFn                 func(ctx context.Context, l *leave.Leave) error
	deleteFn                 func(ctx context.Context, id string) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) ExistsForUserShiftDate(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error) {
	if f.existsForUserShiftDateFn != nil {
		return f.existsForUserShiftDateFn(ctx, userID, shift, dayStart, dayEnd)
	}
	return false, nil
}

func (f *fakeLeaveRepository) CountByShiftDateStatus(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
	if f.countByShiftDateStatusFn != nil {
		return f.countByShiftDateStatusFn(ctx, shift, dayStart, dayEnd, status)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]leave.Leave, error) {
	if f.findByDateRangeFn != nil {
		return f.findByDateRangeFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeCapacityProvider struct {
	cfg domain.ShiftCapacity
	err error
}

func (f *fakeCapacityProvider) ShiftCapacity(ctx context.Context) (domain.ShiftCapacity, error) {
	return f.cfg, f.err
}

func defaultCapacity() domain.ShiftCapacity {
	return domain.ShiftCapacity{
		Shift1Limit: 5,
		Shift2Limit: 5,
		NightLimit:  10,
		ActiveDays:  []int{1, 2, 3, 4, 5},
	}
}

type leaveServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leave.Service
	repo     *fakeLeaveRepository
	capacity *fakeCapacityProvider
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	capacity := &fakeCapacityProvider{cfg: defaultCapacity()}
	svc := leave.NewService(db, repo, capacity, nil, nil)

	return &leaveServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		capacity: capacity,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func employeeCaller() domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: domain.RoleEmployee}
}

func adminCaller() domain.Caller {
	return domain.Caller{ID: uuid.New(), Role: domain.RoleAdmin}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		caller := employeeCaller()
		expectTx(t, deps.sqlMock, true)

		req := leave.CreateLeaveRequest{
			Shift:  domain.Shift1,
			Date:   "2026-03-02",
			Reason: "Family event",
		}

		deps.repo.existsForUserShiftDateFn = func(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error) {
			assert.Equal(t, caller.ID.String(), userID)
			assert.Equal(t, domain.Shift1, shift)
			assert.Equal(t, "2026-03-02", dayStart.Format("2006-01-02"))
			return false, nil
		}
		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			return 0, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, caller.ID, l.UserID)
			assert.Equal(t, domain.Shift1, l.Shift)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Nil(t, l.DecidedBy)
			return nil
		}

		resp, err := deps.service.Create(ctx, caller, req)

		assert.NoError(t, err)
		assert.Equal(t, caller.ID.String(), resp.UserID)
		assert.Equal(t, "2026-03-02", resp.Date)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid shift", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employeeCaller(), leave.CreateLeaveRequest{
			Shift: "SHIFT3",
			Date:  "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidShift)
	})

	t.Run("negative invalid date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employeeCaller(), leave.CreateLeaveRequest{
			Shift: domain.Shift2,
			Date:  "02-03-2026",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative duplicate request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.existsForUserShiftDateFn = func(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error) {
			// Termasuk request lama yang sudah REJECTED
			return true, nil
		}

		_, err := deps.service.Create(ctx, employeeCaller(), leave.CreateLeaveRequest{
			Shift: domain.Shift1,
			Date:  "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrDuplicateRequest)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative capacity exceeded", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			switch status {
			case leave.StatusApproved:
				return 3, nil
			case leave.StatusPending:
				return 2, nil
			}
			return 0, nil
		}

		_, err := deps.service.Create(ctx, employeeCaller(), leave.CreateLeaveRequest{
			Shift: domain.Shift1,
			Date:  "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrCapacityExceeded)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pending requests reserve slots", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		// 5 slot SHIFT1: 0 approved tapi 5 pending berarti penuh.
		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			if status == leave.StatusPending {
				return 5, nil
			}
			return 0, nil
		}

		_, err := deps.service.Create(ctx, employeeCaller(), leave.CreateLeaveRequest{
			Shift: domain.Shift1,
			Date:  "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrCapacityExceeded)
	})

	t.Run("concurrent submits admit exactly one for last slot", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.capacity.cfg = domain.ShiftCapacity{
			Shift1Limit: 1,
			Shift2Limit: 1,
			NightLimit:  1,
			ActiveDays:  []int{1, 2, 3, 4, 5},
		}

		// Pemegang lock pertama commit, yang kedua melihat pending=1 dan rollback.
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		var mu sync.Mutex
		pending := 0

		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			if status == leave.StatusPending {
				return int64(pending), nil
			}
			return 0, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			mu.Lock()
			defer mu.Unlock()
			pending++
			return nil
		}

		req := leave.CreateLeaveRequest{Shift: domain.Shift2, Date: "2026-03-03"}

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := deps.service.Create(ctx, employeeCaller(), req)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var successes, capacityErrs int
		for err := range results {
			switch {
			case err == nil:
				successes++
			case errors.Is(err, leaveerrors.ErrCapacityExceeded):
				capacityErrs++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, capacityErrs)
		assert.Equal(t, 1, pending)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees all requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.Leave, error) {
			return []leave.Leave{
				{ID: uuid.New(), UserID: uuid.New(), Shift: domain.Shift1, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending},
				{ID: uuid.New(), UserID: uuid.New(), Shift: domain.ShiftNight, Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Status: leave.StatusApproved},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, adminCaller())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("employee sees own requests only", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		caller := employeeCaller()
		deps.repo.findAllByUserFn = func(ctx context.Context, userID string) ([]leave.Leave, error) {
			assert.Equal(t, caller.ID.String(), userID)
			return []leave.Leave{
				{ID: uuid.New(), UserID: caller.ID, Shift: domain.Shift2, Date: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, caller)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, caller.ID.String(), resp[0].UserID)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.Leave, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, adminCaller())

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can read", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		caller := employeeCaller()
		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: caller.ID, Shift: domain.Shift1, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending}, nil
		}

		resp, err := deps.service.GetByID(ctx, caller, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})

	t.Run("negative foreign request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: uuid.New(), Status: leave.StatusPending}, nil
		}

		_, err := deps.service.GetByID(ctx, employeeCaller(), id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, employeeCaller(), "not-a-uuid")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		admin := adminCaller()
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: uuid.New(), Shift: domain.Shift1, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.DecidedBy)
			assert.Equal(t, admin.ID, *l.DecidedBy)
			assert.NotNil(t, l.DecidedAt)
			return nil
		}

		resp, err := deps.service.UpdateStatus(ctx, admin, id.String(), leave.UpdateLeaveStatusRequest{Status: leave.StatusApproved})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-admin", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.UpdateStatus(ctx, employeeCaller(), uuid.New().String(), leave.UpdateLeaveStatusRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrAdminOnly)
	})

	t.Run("negative decided request is terminal", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: uuid.New(), Status: leave.StatusApproved}, nil
		}

		_, err := deps.service.UpdateStatus(ctx, adminCaller(), id.String(), leave.UpdateLeaveStatusRequest{Status: leave.StatusRejected})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative target status must be terminal", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.UpdateStatus(ctx, adminCaller(), uuid.New().String(), leave.UpdateLeaveStatusRequest{Status: leave.StatusPending})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes own request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		caller := employeeCaller()
		id := uuid.New()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: caller.ID, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending}, nil
		}
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, targetID string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, caller, id.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative foreign request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: id, UserID: uuid.New(), Status: leave.StatusPending}, nil
		}

		err := deps.service.Delete(ctx, employeeCaller(), id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			switch status {
			case leave.StatusApproved:
				return 2, nil
			case leave.StatusPending:
				return 1, nil
			}
			return 0, nil
		}

		resp, err := deps.service.GetAvailability(ctx, domain.ShiftNight, "2026-03-02")

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Used)
		assert.Equal(t, 1, resp.Pending)
		assert.Equal(t, 7, resp.Available)
		assert.Equal(t, 10, resp.MaxSlots)
	})

	t.Run("availability never negative", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.countByShiftDateStatusFn = func(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
			if status == leave.StatusApproved {
				return 9, nil
			}
			return 2, nil
		}

		resp, err := deps.service.GetAvailability(ctx, domain.Shift1, "2026-03-02")

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Available)
	})

	t.Run("negative invalid shift", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAvailability(ctx, "DAY", "2026-03-02")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidShift)
	})
}

func TestLeaveService_GetCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("builds month with defaults and folds ledger", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByDateRangeFn = func(ctx context.Context, from, to time.Time) ([]leave.Leave, error) {
			return []leave.Leave{
				{Shift: domain.Shift1, Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Status: leave.StatusApproved},
				{Shift: domain.Shift1, Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Status: leave.StatusPending},
				{Shift: domain.ShiftNight, Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), Status: leave.StatusRejected},
			}, nil
		}

		resp, err := deps.service.GetCalendar(ctx, 2026, 2)

		assert.NoError(t, err)
		assert.Len(t, resp, 28)

		day := resp["2026-02-10"]
		assert.Equal(t, 1, day["shift1"].Used)
		assert.Equal(t, 1, day["shift1"].Pending)
		assert.Equal(t, 3, day["shift1"].Available)

		// REJECTED tidak menempati slot
		assert.Equal(t, 0, day["night"].Used)
		assert.Equal(t, 10, day["night"].Available)

		// Hari tanpa request tetap muncul dengan slot penuh
		empty := resp["2026-02-11"]
		assert.Equal(t, 5, empty["shift2"].Available)
	})

	t.Run("negative invalid month", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetCalendar(ctx, 2026, 13)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidMonth)
	})
}
