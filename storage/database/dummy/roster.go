package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/roster"
)

type rosterRepository struct {
	db *DB
	tx bool
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db}
}

func (repo *rosterRepository) Atomic(ctx context.Context, fn func(repo roster.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return repo.db.atomic(repo.tx, func() error {
		return fn(&rosterRepository{db: repo.db, tx: true})
	})
}

func (repo *rosterRepository) listStudents(classID int) []roster.Student {
	students := make([]roster.Student, 0)
	for _, stud := range repo.db.students {
		if stud.ClassID == classID {
			students = append(students, stud)
		}
	}
	// byte order, like the sqlx repository's COLLATE "C"
	sort.Slice(students, func(i, j int) bool {
		if students[i].RegistrationNumber != students[j].RegistrationNumber {
			return students[i].RegistrationNumber < students[j].RegistrationNumber
		}
		return students[i].ID < students[j].ID
	})
	return students
}

func (repo *rosterRepository) ListStudents(_ context.Context, classID int) ([]roster.Student, error) {
	defer repo.db.read(repo.tx)()
	return repo.listStudents(classID), nil
}

func (repo *rosterRepository) createStudent(ns roster.NewStudent) (roster.Student, error) {
	if _, ok := repo.db.classes[ns.ClassID]; !ok {
		return roster.Student{}, errors.Errorf("student %q: class %d does not exist", ns.Name, ns.ClassID)
	}
	repo.db.studentSeq++
	stud := roster.Student{
		ID:                 repo.db.studentSeq,
		Name:               ns.Name,
		RegistrationNumber: ns.RegistrationNumber,
		ClassID:            ns.ClassID,
	}
	repo.db.students[stud.ID] = stud
	return stud, nil
}

func (repo *rosterRepository) CreateStudent(_ context.Context, ns roster.NewStudent) (roster.Student, error) {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("CreateStudent"); err != nil {
		return roster.Student{}, err
	}
	return repo.createStudent(ns)
}

// CreateStudents is all-or-nothing, like a single multi-row INSERT.
func (repo *rosterRepository) CreateStudents(_ context.Context, nss []roster.NewStudent) (int, error) {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("CreateStudents"); err != nil {
		return 0, err
	}
	for _, ns := range nss {
		if _, ok := repo.db.classes[ns.ClassID]; !ok {
			return 0, errors.Errorf("student %q: class %d does not exist", ns.Name, ns.ClassID)
		}
	}
	for _, ns := range nss {
		if _, err := repo.createStudent(ns); err != nil {
			return 0, err
		}
	}
	return len(nss), nil
}

func (repo *rosterRepository) DeleteStudent(_ context.Context, studentID int) error {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("DeleteStudent"); err != nil {
		return err
	}
	delete(repo.db.students, studentID)
	for key := range repo.db.attendances {
		if key.studentID == studentID {
			delete(repo.db.attendances, key)
		}
	}
	return nil
}

func (repo *rosterRepository) UpsertAttendance(_ context.Context, rec roster.AttendanceRecord) error {
	defer repo.db.write(repo.tx)()

	if err := repo.db.fail("UpsertAttendance"); err != nil {
		return err
	}
	if _, ok := repo.db.students[rec.StudentID]; !ok {
		return errors.Errorf("attendance: student %d does not exist", rec.StudentID)
	}
	if _, ok := repo.db.classes[rec.ClassID]; !ok {
		return errors.Errorf("attendance: class %d does not exist", rec.ClassID)
	}

	key := attendanceKey{studentID: rec.StudentID, date: rec.Date}
	if existing, ok := repo.db.attendances[key]; ok {
		existing.Present = rec.Present
		repo.db.attendances[key] = existing
		return nil
	}
	repo.db.attendances[key] = rec
	return nil
}

func (repo *rosterRepository) AttendanceSheet(_ context.Context, classID int, date string) ([]roster.SheetEntry, error) {
	defer repo.db.read(repo.tx)()

	students := repo.listStudents(classID)
	entries := make([]roster.SheetEntry, 0, len(students))
	for _, stud := range students {
		entry := roster.SheetEntry{Student: stud}
		if rec, ok := repo.db.attendances[attendanceKey{studentID: stud.ID, date: date}]; ok {
			entry.Present.SetValid(rec.Present)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
