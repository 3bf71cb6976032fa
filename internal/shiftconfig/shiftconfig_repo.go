package shiftconfig

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=shiftconfig_repo.go -destination=mock/shiftconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByKeys(ctx context.Context, keys []string) ([]Config, error)
	Upsert(ctx context.Context, key, value string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) FindByKeys(ctx context.Context, keys []string) ([]Config, error) {
	var configs []Config
	err := r.db.WithContext(ctx).
		Where("key IN ?", keys).
		Find(&configs).Error
	return configs, err
}

// Upsert menggunakan raw SQL atomik agar penulisan key yang sama dari
// dua admin tidak saling menimpa setengah jadi.
func (r *repository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO configs (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, key, value)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, key, value).Error
}
