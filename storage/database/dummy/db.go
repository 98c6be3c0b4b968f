package dummydb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/roster"
	"github.com/trezcool/mahudhurio/core/staff"
)

type (
	// DB is an in-memory stand-in for the database, with the same constraints
	// (primary & foreign keys, cascades, unique attendance per student & date).
	DB struct {
		sync.RWMutex

		staffs      map[string]staff.Staff
		classes     map[int]staff.Class
		students    map[int]roster.Student
		attendances map[attendanceKey]roster.AttendanceRecord
		classSeq    int
		studentSeq  int

		// FailOn, when set, is called before every write with the operation name
		// (e.g. "CreateClass"); a non-nil error aborts that write.
		FailOn func(op string) error
	}

	attendanceKey struct {
		studentID int
		date      string
	}

	snapshot struct {
		staffs      map[string]staff.Staff
		classes     map[int]staff.Class
		students    map[int]roster.Student
		attendances map[attendanceKey]roster.AttendanceRecord
		classSeq    int
		studentSeq  int
	}
)

func Open() *DB {
	return &DB{
		staffs:      make(map[string]staff.Staff),
		classes:     make(map[int]staff.Class),
		students:    make(map[int]roster.Student),
		attendances: make(map[attendanceKey]roster.AttendanceRecord),
	}
}

func noop() {}

// read & write lock the DB unless the caller already holds it inside a transaction.
func (db *DB) read(tx bool) func() {
	if tx {
		return noop
	}
	db.RLock()
	return db.RUnlock
}

func (db *DB) write(tx bool) func() {
	if tx {
		return noop
	}
	db.Lock()
	return db.Unlock
}

func (db *DB) fail(op string) error {
	if db.FailOn == nil {
		return nil
	}
	return db.FailOn(op)
}

// atomic holds the write lock while fn runs and restores the previous state if fn fails or panics.
func (db *DB) atomic(tx bool, fn func() error) (err error) {
	if tx {
		return fn()
	}

	db.Lock()
	defer db.Unlock()

	snap := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(snap)
			panic(p)
		}
		if err != nil {
			db.restore(snap)
		}
	}()
	return fn()
}

func (db *DB) snapshot() snapshot {
	snap := snapshot{
		staffs:      make(map[string]staff.Staff, len(db.staffs)),
		classes:     make(map[int]staff.Class, len(db.classes)),
		students:    make(map[int]roster.Student, len(db.students)),
		attendances: make(map[attendanceKey]roster.AttendanceRecord, len(db.attendances)),
		classSeq:    db.classSeq,
		studentSeq:  db.studentSeq,
	}
	for k, v := range db.staffs {
		snap.staffs[k] = v
	}
	for k, v := range db.classes {
		snap.classes[k] = v
	}
	for k, v := range db.students {
		snap.students[k] = v
	}
	for k, v := range db.attendances {
		snap.attendances[k] = v
	}
	return snap
}

func (db *DB) restore(snap snapshot) {
	db.staffs = snap.staffs
	db.classes = snap.classes
	db.students = snap.students
	db.attendances = snap.attendances
	db.classSeq = snap.classSeq
	db.studentSeq = snap.studentSeq
}

// Counts returns the number of rows in each table. Used by tests.
func (db *DB) Counts() (staffs, classes, students, attendances int) {
	db.RLock()
	defer db.RUnlock()
	return len(db.staffs), len(db.classes), len(db.students), len(db.attendances)
}

// Attendance returns the stored mark of a student on date. Used by tests.
func (db *DB) Attendance(studentID int, date string) (roster.AttendanceRecord, bool) {
	db.RLock()
	defer db.RUnlock()
	rec, ok := db.attendances[attendanceKey{studentID: studentID, date: date}]
	return rec, ok
}
