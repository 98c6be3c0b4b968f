package roster

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNoStudents  = errors.New("at least one student is required")
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

type (
	Repository interface {
		// Atomic runs fn against a Repository bound to a single transaction.
		Atomic(ctx context.Context, fn func(repo Repository) error) error
		// ListStudents orders by registration number, then student id.
		ListStudents(ctx context.Context, classID int) ([]Student, error)
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		// CreateStudents inserts all students at once and returns how many were added.
		CreateStudents(ctx context.Context, nss []NewStudent) (int, error)
		DeleteStudent(ctx context.Context, studentID int) error
		// UpsertAttendance overwrites present for an existing (student, date) record.
		UpsertAttendance(ctx context.Context, rec AttendanceRecord) error
		// AttendanceSheet lists every student of the class with their mark for date.
		AttendanceSheet(ctx context.Context, classID int, date string) ([]SheetEntry, error)
	}

	Service interface {
		ListStudents(ctx context.Context, classID int) ([]Student, error)
		AddStudent(ctx context.Context, ns NewStudent) (Student, error)
		BulkAddStudents(ctx context.Context, nss []NewStudent) (int, error)
		DeleteStudent(ctx context.Context, studentID int) error
		SaveAttendance(ctx context.Context, entries []AttendanceEntry) error
		AttendanceSheet(ctx context.Context, classID int, date string) (Sheet, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) ListStudents(ctx context.Context, classID int) ([]Student, error) {
	students, err := svc.repo.ListStudents(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	if students == nil {
		students = make([]Student, 0)
	}
	return students, nil
}

func (svc *service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	return svc.repo.CreateStudent(ctx, ns)
}

func (svc *service) BulkAddStudents(ctx context.Context, nss []NewStudent) (int, error) {
	if len(nss) == 0 {
		return 0, core.NewValidationError(ErrNoStudents)
	}

	var count int
	err := svc.repo.Atomic(ctx, func(repo Repository) error {
		var err error
		count, err = repo.CreateStudents(ctx, nss)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "adding students")
	}
	return count, nil
}

func (svc *service) DeleteStudent(ctx context.Context, studentID int) error {
	return svc.repo.DeleteStudent(ctx, studentID)
}

// SaveAttendance normalizes every date before writing anything, then upserts all entries in order.
func (svc *service) SaveAttendance(ctx context.Context, entries []AttendanceEntry) error {
	records := make([]AttendanceRecord, 0, len(entries))
	for i, entry := range entries {
		date, err := NormalizeDate(entry.Date)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{
				Field: fmt.Sprintf("attendance[%d].date", i),
				Error: ErrInvalidDate.Error(),
			})
		}
		records = append(records, AttendanceRecord{
			StudentID: entry.StudentID,
			ClassID:   entry.ClassID,
			Date:      date,
			Present:   entry.Present,
		})
	}
	if len(records) == 0 {
		return nil
	}

	return svc.repo.Atomic(ctx, func(repo Repository) error {
		for _, rec := range records {
			if err := repo.UpsertAttendance(ctx, rec); err != nil {
				return errors.Wrapf(err, "saving attendance of student %d on %s", rec.StudentID, rec.Date)
			}
		}
		return nil
	})
}

// AttendanceSheet defaults to today (UTC) when date is empty.
func (svc *service) AttendanceSheet(ctx context.Context, classID int, date string) (Sheet, error) {
	if core.CleanString(date) == "" {
		date = core.NowFunc().UTC().Format(DateLayout)
	}
	date, err := NormalizeDate(date)
	if err != nil {
		return Sheet{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: ErrInvalidDate.Error()})
	}

	entries, err := svc.repo.AttendanceSheet(ctx, classID, date)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "getting attendance sheet")
	}
	if entries == nil {
		entries = make([]SheetEntry, 0)
	}
	return Sheet{ClassID: classID, Date: date, Students: entries}, nil
}
