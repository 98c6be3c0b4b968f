package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/staff"
)

type staffRepository struct {
	db *DB
	tx bool
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) Atomic(ctx context.Context, fn func(repo staff.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return repo.db.atomic(repo.tx, func() error {
		return fn(&staffRepository{db: repo.db, tx: true})
	})
}

func (repo *staffRepository) CreateStaff(_ context.Context, stf staff.Staff) (staff.Staff, error) {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("CreateStaff"); err != nil {
		return staff.Staff{}, err
	}
	if _, ok := repo.db.staffs[stf.ID]; ok {
		return staff.Staff{}, staff.ErrStaffIDExists
	}
	repo.db.staffs[stf.ID] = stf
	return stf, nil
}

func (repo *staffRepository) CreateClass(_ context.Context, cls staff.Class) (staff.Class, error) {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("CreateClass"); err != nil {
		return staff.Class{}, err
	}
	if _, ok := repo.db.staffs[cls.StaffID]; !ok {
		return staff.Class{}, errors.Errorf("class %q: staff %q does not exist", cls.Name, cls.StaffID)
	}
	repo.db.classSeq++
	cls.ID = repo.db.classSeq
	repo.db.classes[cls.ID] = cls
	return cls, nil
}

func (repo *staffRepository) GetStaff(_ context.Context, staffID string) (staff.Staff, error) {
	defer repo.db.read(repo.tx)()

	if stf, ok := repo.db.staffs[staffID]; ok {
		return stf, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetClass(_ context.Context, staffID, className string) (staff.Class, error) {
	defer repo.db.read(repo.tx)()

	for _, cls := range repo.listClasses(staffID) {
		if cls.Name == className {
			return cls, nil
		}
	}
	return staff.Class{}, staff.ErrNotFound
}

func (repo *staffRepository) ListClasses(_ context.Context, staffID string) ([]staff.Class, error) {
	defer repo.db.read(repo.tx)()
	return repo.listClasses(staffID), nil
}

func (repo *staffRepository) listClasses(staffID string) []staff.Class {
	classes := make([]staff.Class, 0)
	for _, cls := range repo.db.classes {
		if cls.StaffID == staffID {
			classes = append(classes, cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes
}

func (repo *staffRepository) UpdatePin(_ context.Context, staffID string, pinHash []byte) error {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("UpdatePin"); err != nil {
		return err
	}
	stf, ok := repo.db.staffs[staffID]
	if !ok {
		return staff.ErrNotFound
	}
	stf.PinHash = pinHash
	repo.db.staffs[staffID] = stf
	return nil
}
