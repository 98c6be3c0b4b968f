package sheetsvc

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/mahudhurio/core/roster"
)

const attendanceSheet = "Attendance"

// ExportFilename is the download name of a class attendance export.
func ExportFilename(sheet roster.Sheet) string {
	return fmt.Sprintf("attendance-%d-%s.xlsx", sheet.ClassID, sheet.Date)
}

// WriteAttendance writes sheet as an .xlsx workbook: one row per student (1 present, 0 absent),
// a blank row, then the total, present and absent counts.
func WriteAttendance(w io.Writer, sheet roster.Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	row := 1
	setRow := func(values ...interface{}) error {
		axis, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(attendanceSheet, axis, &values)
	}

	if err := setRow(HeaderRegistrationNumber, HeaderName, HeaderAttendance); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, se := range sheet.Students {
		mark := 0
		if se.IsPresent() {
			mark = 1
		}
		if err := setRow(string(se.RegistrationNumber), se.Name, mark); err != nil {
			return errors.Wrapf(err, "writing student %d", se.ID)
		}
	}

	total, present, absent := sheet.Summary()
	row++ // blank
	for _, summary := range []struct {
		label string
		count int
	}{
		{"Total Students", total},
		{"Present Students", present},
		{"Absent Students", absent},
	} {
		if err := setRow(summary.label, summary.count); err != nil {
			return errors.Wrap(err, "writing summary")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
