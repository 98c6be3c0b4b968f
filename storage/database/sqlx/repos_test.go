package sqlxrepos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/staff"
)

var errBoom = errors.New("boom")

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func TestStaffRepository_CreateStaff(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	stf := staff.Staff{ID: "AN123", Name: "Ann Lee", Subject: "Math", PinHash: []byte("hash"), CreatedAt: now}

	t.Run("inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO staffs").
			WithArgs("AN123", "Ann Lee", "Math", []byte("hash"), now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := NewStaffRepository(db).CreateStaff(ctx, stf)
		require.NoError(t, err)
		assert.Equal(t, stf, got)
	})

	t.Run("primary key violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO staffs").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "staffs_pkey"})

		_, err := NewStaffRepository(db).CreateStaff(ctx, stf)
		assert.Equal(t, staff.ErrStaffIDExists, err)
	})

	t.Run("other unique violation", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO staffs").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "something_else_key"})

		_, err := NewStaffRepository(db).CreateStaff(ctx, stf)
		assert.Error(t, err)
		assert.NotEqual(t, staff.ErrStaffIDExists, errors.Cause(err))
	})
}

func TestStaffRepository_Atomic(t *testing.T) {
	ctx := context.Background()
	stf := staff.Staff{ID: "AN123", Name: "Ann Lee", Subject: "Math", PinHash: []byte("hash")}

	t.Run("commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO staffs").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO classes").
			WithArgs("Grade 5A", "AN123").
			WillReturnRows(sqlmock.NewRows([]string{"class_id"}).AddRow(1))
		mock.ExpectQuery("INSERT INTO classes").
			WithArgs("Grade 5B", "AN123").
			WillReturnRows(sqlmock.NewRows([]string{"class_id"}).AddRow(2))
		mock.ExpectCommit()

		var classes []staff.Class
		err := NewStaffRepository(db).Atomic(ctx, func(repo staff.Repository) error {
			if _, err := repo.CreateStaff(ctx, stf); err != nil {
				return err
			}
			for _, name := range []string{"Grade 5A", "Grade 5B"} {
				cls, err := repo.CreateClass(ctx, staff.Class{Name: name, StaffID: stf.ID})
				if err != nil {
					return err
				}
				classes = append(classes, cls)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []staff.Class{
			{ID: 1, Name: "Grade 5A", StaffID: "AN123"},
			{ID: 2, Name: "Grade 5B", StaffID: "AN123"},
		}, classes)
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO staffs").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO classes").WillReturnError(errBoom)
		mock.ExpectRollback()

		err := NewStaffRepository(db).Atomic(ctx, func(repo staff.Repository) error {
			if _, err := repo.CreateStaff(ctx, stf); err != nil {
				return err
			}
			_, err := repo.CreateClass(ctx, staff.Class{Name: "Grade 5A", StaffID: stf.ID})
			return err
		})
		assert.Equal(t, errBoom, errors.Cause(err))
	})
}

func TestStaffRepository_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("staff found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM staffs WHERE staff_id = ").
			WithArgs("AN123").
			WillReturnRows(sqlmock.NewRows([]string{"staff_id", "name", "subject", "pin_hash", "created_at"}).
				AddRow("AN123", "Ann Lee", "Math", []byte("hash"), now))

		got, err := NewStaffRepository(db).GetStaff(ctx, "AN123")
		require.NoError(t, err)
		assert.Equal(t, staff.Staff{ID: "AN123", Name: "Ann Lee", Subject: "Math", PinHash: []byte("hash"), CreatedAt: now}, got)
	})

	t.Run("staff not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM staffs").WillReturnError(sql.ErrNoRows)

		_, err := NewStaffRepository(db).GetStaff(ctx, "XX000")
		assert.Equal(t, staff.ErrNotFound, errors.Cause(err))
	})

	t.Run("class not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM classes").
			WithArgs("AN123", "Grade 9").
			WillReturnRows(sqlmock.NewRows([]string{"class_id", "class_name", "staff_id"}))

		_, err := NewStaffRepository(db).GetClass(ctx, "AN123", "Grade 9")
		assert.Equal(t, staff.ErrNotFound, errors.Cause(err))
	})

	t.Run("list classes", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM classes").
			WithArgs("AN123").
			WillReturnRows(sqlmock.NewRows([]string{"class_id", "class_name", "staff_id"}).
				AddRow(1, "Grade 5A", "AN123").
				AddRow(2, "Grade 5B", "AN123"))

		got, err := NewStaffRepository(db).ListClasses(ctx, "AN123")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestStaffRepository_UpdatePin(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE staffs SET pin_hash").
			WithArgs([]byte("new"), "AN123").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewStaffRepository(db).UpdatePin(ctx, "AN123", []byte("new")))
	})

	t.Run("unknown staff", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE staffs SET pin_hash").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.Equal(t, staff.ErrNotFound, NewStaffRepository(db).UpdatePin(ctx, "XX000", []byte("new")))
	})
}

func TestRosterRepository_ListStudents(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM students WHERE class_id = (.+) ORDER BY registration_number COLLATE \"C\" ASC, student_id ASC").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "registration_number", "class_id"}).
			AddRow(7, "Ben", "2024001", 3).
			AddRow(5, "Cy", "2024002", 3))

	got, err := NewRosterRepository(db).ListStudents(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []roster.Student{
		{ID: 7, Name: "Ben", RegistrationNumber: "2024001", ClassID: 3},
		{ID: 5, Name: "Cy", RegistrationNumber: "2024002", ClassID: 3},
	}, got)
}

func TestRosterRepository_CreateStudent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Ben", "2024001", 3).
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(7))

	got, err := NewRosterRepository(db).CreateStudent(context.Background(), roster.NewStudent{Name: "Ben", RegistrationNumber: "2024001", ClassID: 3})
	require.NoError(t, err)
	assert.Equal(t, roster.Student{ID: 7, Name: "Ben", RegistrationNumber: "2024001", ClassID: 3}, got)
}

func TestRosterRepository_CreateStudents(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO students").
		WithArgs("Ben", "2024001", 3, "Cy", "2024002", 3).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewRosterRepository(db).CreateStudents(context.Background(), []roster.NewStudent{
		{Name: "Ben", RegistrationNumber: "2024001", ClassID: 3},
		{Name: "Cy", RegistrationNumber: "2024002", ClassID: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRosterRepository_UpsertAttendance(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendances (.+) ON CONFLICT \\(student_id, attendance_date\\) DO UPDATE SET present = EXCLUDED.present").
		WithArgs(7, 3, "2024-03-10", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendances").
		WithArgs(8, 3, "2024-03-10", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := NewRosterRepository(db).Atomic(ctx, func(repo roster.Repository) error {
		if err := repo.UpsertAttendance(ctx, roster.AttendanceRecord{StudentID: 7, ClassID: 3, Date: "2024-03-10", Present: true}); err != nil {
			return err
		}
		return repo.UpsertAttendance(ctx, roster.AttendanceRecord{StudentID: 8, ClassID: 3, Date: "2024-03-10", Present: false})
	})
	assert.NoError(t, err)
}

func TestRosterRepository_AttendanceSheet(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`LEFT JOIN attendances (.+) ORDER BY s.registration_number COLLATE "C" ASC`).
		WithArgs(3, "2024-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "registration_number", "class_id", "present"}).
			AddRow(7, "Ben", "2024001", 3, true).
			AddRow(8, "Cy", "2024002", 3, nil))

	got, err := NewRosterRepository(db).AttendanceSheet(context.Background(), 3, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Present.Valid)
	assert.True(t, got[0].Present.Bool)
	assert.False(t, got[1].Present.Valid)
	assert.Equal(t, "Cy", got[1].Name)
}

func TestRosterRepository_DeleteStudent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("DELETE FROM students WHERE student_id = ").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, NewRosterRepository(db).DeleteStudent(context.Background(), 7))
}
