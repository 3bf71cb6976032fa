package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindAllByUser(ctx context.Context, userID string) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	ExistsForUserShiftDate(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error)
	CountByShiftDateStatus(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx mengikat query berikutnya ke transaksi: check-and-insert pada
// admission harus satu unit dengan commitnya.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: tx}),
		&gorm.Config{DisableAutomaticPing: true},
	)
	if err != nil {
		return &repository{db: r.db, tx: tx}
	}
	return &repository{db: txdb, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindByID di dalam transaksi mengunci barisnya (SELECT ... FOR UPDATE):
// dua keputusan konkuren untuk request yang sama harus antre, bukan
// sama-sama membaca PENDING lalu saling menimpa.
func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	q := r.db.WithContext(ctx)
	if r.tx != nil {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&l, "id = ?", id).Error
	return &l, err
}

// ExistsForUserShiftDate mencocokkan request dengan status apapun,
// termasuk REJECTED.
func (r *repository) ExistsForUserShiftDate(ctx context.Context, userID, shift string, dayStart, dayEnd time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("shift = ?", shift).
		Where("date >= ? AND date <= ?", dayStart, dayEnd).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountByShiftDateStatus(ctx context.Context, shift string, dayStart, dayEnd time.Time, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("shift = ?", shift).
		Where("date >= ? AND date <= ?", dayStart, dayEnd).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) FindByDateRange(ctx context.Context, from, to time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&Leave{}, "id = ?", id).Error
}
