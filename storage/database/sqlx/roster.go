package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/roster"
)

// maxStudentsPerInsert keeps multi-row inserts under the 65535 bind parameters limit.
const maxStudentsPerInsert = 10000

type rosterRepository struct {
	db   core.DB
	exec core.DBExecutor
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db core.DB) roster.Repository {
	return &rosterRepository{db: db, exec: db}
}

func (repo *rosterRepository) Atomic(ctx context.Context, fn func(repo roster.Repository) error) error {
	if _, inTx := repo.exec.(core.DBTransactor); inTx {
		return fn(repo)
	}
	return core.RunInTx(ctx, repo.db, func(tx core.DBTransactor) error {
		return fn(&rosterRepository{db: repo.db, exec: tx})
	})
}

// ListStudents sorts registration numbers byte-wise (COLLATE "C"), whatever the database collation.
func (repo *rosterRepository) ListStudents(ctx context.Context, classID int) ([]roster.Student, error) {
	const q = `SELECT student_id, name, registration_number, class_id FROM students
		WHERE class_id = $1 ORDER BY registration_number COLLATE "C" ASC, student_id ASC`

	students := make([]roster.Student, 0)
	if err := repo.exec.SelectContext(ctx, &students, q, classID); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo *rosterRepository) CreateStudent(ctx context.Context, ns roster.NewStudent) (roster.Student, error) {
	const q = `INSERT INTO students (name, registration_number, class_id) VALUES ($1, $2, $3) RETURNING student_id`

	stud := roster.Student{Name: ns.Name, RegistrationNumber: ns.RegistrationNumber, ClassID: ns.ClassID}
	if err := repo.exec.QueryRowxContext(ctx, q, ns.Name, ns.RegistrationNumber, ns.ClassID).Scan(&stud.ID); err != nil {
		return roster.Student{}, errors.Wrap(err, "inserting student")
	}
	return stud, nil
}

func (repo *rosterRepository) CreateStudents(ctx context.Context, nss []roster.NewStudent) (int, error) {
	const q = `INSERT INTO students (name, registration_number, class_id) VALUES (:name, :registration_number, :class_id)`

	var count int
	for start := 0; start < len(nss); start += maxStudentsPerInsert {
		end := start + maxStudentsPerInsert
		if end > len(nss) {
			end = len(nss)
		}
		res, err := sqlx.NamedExecContext(ctx, repo.exec, q, nss[start:end])
		if err != nil {
			return 0, errors.Wrap(err, "inserting students")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "inserting students")
		}
		count += int(n)
	}
	return count, nil
}

func (repo *rosterRepository) DeleteStudent(ctx context.Context, studentID int) error {
	const q = `DELETE FROM students WHERE student_id = $1`

	if _, err := repo.exec.ExecContext(ctx, q, studentID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo *rosterRepository) UpsertAttendance(ctx context.Context, rec roster.AttendanceRecord) error {
	const q = `INSERT INTO attendances (student_id, class_id, attendance_date, present) VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, attendance_date) DO UPDATE SET present = EXCLUDED.present`

	if _, err := repo.exec.ExecContext(ctx, q, rec.StudentID, rec.ClassID, rec.Date, rec.Present); err != nil {
		return errors.Wrap(err, "upserting attendance")
	}
	return nil
}

func (repo *rosterRepository) AttendanceSheet(ctx context.Context, classID int, date string) ([]roster.SheetEntry, error) {
	const q = `SELECT s.student_id, s.name, s.registration_number, s.class_id, a.present
		FROM students s
		LEFT JOIN attendances a ON a.student_id = s.student_id AND a.attendance_date = $2
		WHERE s.class_id = $1
		ORDER BY s.registration_number COLLATE "C" ASC, s.student_id ASC`

	entries := make([]roster.SheetEntry, 0)
	if err := repo.exec.SelectContext(ctx, &entries, q, classID, date); err != nil {
		return nil, errors.Wrap(err, "selecting attendance sheet")
	}
	return entries, nil
}
