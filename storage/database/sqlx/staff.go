package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/staff"
)

type staffRepository struct {
	db   core.DB
	exec core.DBExecutor
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db core.DB) staff.Repository {
	return &staffRepository{db: db, exec: db}
}

func (repo *staffRepository) Atomic(ctx context.Context, fn func(repo staff.Repository) error) error {
	if _, inTx := repo.exec.(core.DBTransactor); inTx {
		return fn(repo)
	}
	return core.RunInTx(ctx, repo.db, func(tx core.DBTransactor) error {
		return fn(&staffRepository{db: repo.db, exec: tx})
	})
}

func (repo *staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	const q = `INSERT INTO staffs (staff_id, name, subject, pin_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	if _, err := repo.exec.ExecContext(ctx, q, stf.ID, stf.Name, stf.Subject, stf.PinHash, stf.CreatedAt); err != nil {
		if isUniqueViolation(err, staffsPKey) {
			return staff.Staff{}, staff.ErrStaffIDExists
		}
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return stf, nil
}

func (repo *staffRepository) CreateClass(ctx context.Context, cls staff.Class) (staff.Class, error) {
	const q = `INSERT INTO classes (class_name, staff_id) VALUES ($1, $2) RETURNING class_id`

	if err := repo.exec.QueryRowxContext(ctx, q, cls.Name, cls.StaffID).Scan(&cls.ID); err != nil {
		return staff.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *staffRepository) GetStaff(ctx context.Context, staffID string) (staff.Staff, error) {
	const q = `SELECT staff_id, name, subject, pin_hash, created_at FROM staffs WHERE staff_id = $1`

	var stf staff.Staff
	if err := repo.exec.GetContext(ctx, &stf, q, staffID); err != nil {
		return staff.Staff{}, errors.Wrap(trapNoRowsErr(err, staff.ErrNotFound), "getting staff")
	}
	return stf, nil
}

func (repo *staffRepository) GetClass(ctx context.Context, staffID, className string) (staff.Class, error) {
	const q = `SELECT class_id, class_name, staff_id FROM classes
		WHERE staff_id = $1 AND class_name = $2 ORDER BY class_id LIMIT 1`

	var cls staff.Class
	if err := repo.exec.GetContext(ctx, &cls, q, staffID, className); err != nil {
		return staff.Class{}, errors.Wrap(trapNoRowsErr(err, staff.ErrNotFound), "getting class")
	}
	return cls, nil
}

func (repo *staffRepository) ListClasses(ctx context.Context, staffID string) ([]staff.Class, error) {
	const q = `SELECT class_id, class_name, staff_id FROM classes WHERE staff_id = $1 ORDER BY class_id`

	classes := make([]staff.Class, 0)
	if err := repo.exec.SelectContext(ctx, &classes, q, staffID); err != nil {
		return nil, errors.Wrap(err, "listing classes")
	}
	return classes, nil
}

func (repo *staffRepository) UpdatePin(ctx context.Context, staffID string, pinHash []byte) error {
	const q = `UPDATE staffs SET pin_hash = $1 WHERE staff_id = $2`

	res, err := repo.exec.ExecContext(ctx, q, pinHash, staffID)
	if err != nil {
		return errors.Wrap(err, "updating pin")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating pin")
	}
	if n == 0 {
		return staff.ErrNotFound
	}
	return nil
}
