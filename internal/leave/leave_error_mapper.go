package leave

import (
	"errors"

	leaveerrors "shiftleave/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	// Index unik (user_id, date, shift) adalah penjaga kedua terhadap
	// duplicate; pre-check bisa kalah balapan dengan writer di luar lock.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "idx_leaves_user_date_shift" {
			return leaveerrors.ErrDuplicateRequest
		}
	}

	return err
}
