package roster

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

const DateLayout = "2006-01-02"

// RegistrationNumber accepts a JSON string or number; spreadsheet cells parse to numbers.
type RegistrationNumber string

func (rn *RegistrationNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*rn = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*rn = RegistrationNumber(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return errors.Errorf("registration number must be a string or a number, got %s", data)
		}
		*rn = RegistrationNumber(num.String())
	}
	return nil
}

type Student struct {
	ID                 int                `json:"student_id" db:"student_id"`
	Name               string             `json:"name" db:"name"`
	RegistrationNumber RegistrationNumber `json:"registration_number" db:"registration_number"`
	ClassID            int                `json:"class_id" db:"class_id"`
}

// NewStudent contains information needed to add a Student to a class. No field is mandatory.
type NewStudent struct {
	Name               string             `json:"name" db:"name"`
	RegistrationNumber RegistrationNumber `json:"registration_number" db:"registration_number"`
	ClassID            int                `json:"class_id" db:"class_id"`
}

// AttendanceEntry is one mark submitted by the client. Date may be a full ISO-8601 timestamp.
type AttendanceEntry struct {
	StudentID int    `json:"student_id"`
	ClassID   int    `json:"class_id"`
	Present   bool   `json:"present"`
	Date      string `json:"date"`
}

// AttendanceRecord is the stored mark for a student on a calendar date (YYYY-MM-DD).
type AttendanceRecord struct {
	StudentID int    `json:"student_id" db:"student_id"`
	ClassID   int    `json:"class_id" db:"class_id"`
	Date      string `json:"attendance_date" db:"attendance_date"`
	Present   bool   `json:"present" db:"present"`
}

// SheetEntry is a student of a class with their mark for a date. Present is null when unmarked.
type SheetEntry struct {
	Student
	Present null.Bool `json:"present" db:"present"`
}

// IsPresent reports unmarked students as present, like the dashboard does.
func (se SheetEntry) IsPresent() bool {
	return !se.Present.Valid || se.Present.Bool
}

// Sheet is the attendance of a whole class on one date.
type Sheet struct {
	ClassID  int          `json:"class_id"`
	Date     string       `json:"date"`
	Students []SheetEntry `json:"students"`
}

// Summary returns the total, present and absent student counts.
func (sh Sheet) Summary() (total, present, absent int) {
	total = len(sh.Students)
	for _, se := range sh.Students {
		if se.IsPresent() {
			present++
		}
	}
	return total, present, total - present
}

// NormalizeDate truncates a date or date-time string to its calendar date.
// "2024-03-10T14:22:00.000Z" becomes "2024-03-10".
func NormalizeDate(raw string) (string, error) {
	date := strings.SplitN(strings.TrimSpace(raw), "T", 2)[0]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", errors.Wrapf(ErrInvalidDate, "%q", raw)
	}
	return date, nil
}
