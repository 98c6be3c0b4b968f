package sheetsvc

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/mahudhurio/core/roster"
)

const (
	HeaderName               = "Student Name"
	HeaderRegistrationNumber = "Registration Number"
	HeaderAttendance         = "Attendance"

	// ContentType of .xlsx files.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	// errors
	ErrNoSheet        = errors.New("the workbook has no sheet")
	ErrMissingHeaders = errors.Errorf("the first row must contain %q and %q columns", HeaderName, HeaderRegistrationNumber)
)

// ReadRoster parses the first sheet of an .xlsx workbook into students of classID.
// The header row needs "Student Name" and "Registration Number" columns (any order, case-insensitive);
// rows with both cells empty are skipped.
func ReadRoster(r io.Reader, classID int) ([]roster.NewStudent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheets[0])
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeaders
	}

	nameCol, regNoCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case strings.ToLower(HeaderName):
			nameCol = i
		case strings.ToLower(HeaderRegistrationNumber):
			regNoCol = i
		}
	}
	if nameCol < 0 || regNoCol < 0 {
		return nil, ErrMissingHeaders
	}

	students := make([]roster.NewStudent, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name, regNo := cell(row, nameCol), cell(row, regNoCol)
		if name == "" && regNo == "" {
			continue
		}
		students = append(students, roster.NewStudent{
			Name:               name,
			RegistrationNumber: roster.RegistrationNumber(regNo),
			ClassID:            classID,
		})
	}
	return students, nil
}

// cell returns the trimmed value at col; GetRows drops trailing empty cells.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
