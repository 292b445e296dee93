// Package exportsvc writes the calculation history and the subject list as XLSX workbooks.
package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/core/history"
)

// Sheet names
const (
	HistorySheet  = "History"
	StatsSheet    = "Analytics"
	SubjectsSheet = "Subjects"
	SummarySheet  = "Summary"

	defaultSheet = "Sheet1"
)

var (
	historyHeader = []interface{}{"ID", "Title", "Prelims", "Midterm", "Pre-finals", "Finals", "Final Grade", "GWA", "Remark", "Saved"}
	subjectHeader = []interface{}{"ID", "Subject", "Units", "Grade", "Weighted"}
)

type workbook struct {
	f      *excelize.File
	header int
}

func newWorkbook(firstSheet string) (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, firstSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &workbook{f: f, header: header}, nil
}

func (wb *workbook) sheet(name string) error {
	if idx, _ := wb.f.GetSheetIndex(name); idx >= 0 {
		return nil
	}
	_, err := wb.f.NewSheet(name)
	return err
}

// table writes a header row followed by rows, starting at A1.
func (wb *workbook) table(sheet string, header []interface{}, rows [][]interface{}) error {
	if err := wb.sheet(sheet); err != nil {
		return err
	}
	if err := wb.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err = wb.f.SetCellStyle(sheet, "A1", last, wb.header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = wb.f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	col, _ := excelize.ColumnNumberToName(len(header))
	return wb.f.SetColWidth(sheet, "A", col, 14)
}

// pairs writes label/value rows in columns A and B.
func (wb *workbook) pairs(sheet string, rows [][]interface{}) error {
	if err := wb.sheet(sheet); err != nil {
		return err
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(sheet, cell, cell, wb.header); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(sheet, "A", "B", 22)
}

func (wb *workbook) writeTo(w io.Writer) error {
	defer func() { _ = wb.f.Close() }()
	_, err := wb.f.WriteTo(w)
	return err
}

// WriteHistory writes every record, newest first, and their analytics on a second sheet.
func WriteHistory(w io.Writer, recs []history.Record) error {
	wb, err := newWorkbook(HistorySheet)
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}

	rows := make([][]interface{}, 0, len(recs))
	for _, rec := range recs {
		c := rec.Classification()
		rows = append(rows, []interface{}{
			rec.ID, rec.Title, rec.Prelims, rec.Midterm, rec.Prefinals, rec.Finals,
			rec.FinalGrade, c.GWA, c.Remark, rec.Timestamp,
		})
	}
	if err = wb.table(HistorySheet, historyHeader, rows); err != nil {
		return errors.Wrap(err, "writing history sheet")
	}

	stats := history.ComputeStats(recs)
	err = wb.pairs(StatsSheet, [][]interface{}{
		{"Total Calculations", stats.Total},
		{"Highest Grade", stats.Highest},
		{"Lowest Grade", stats.Lowest},
		{"Average Grade", stats.Average},
		{"Passed", stats.Passed},
		{"Failed", stats.Failed},
		{"Pass/Fail Ratio", stats.PassFailRatio},
	})
	if err != nil {
		return errors.Wrap(err, "writing analytics sheet")
	}
	return errors.Wrap(wb.writeTo(w), "writing workbook")
}

// WriteSubjects writes the subject list and, when a GWA is defined, its summary on a second sheet.
func WriteSubjects(w io.Writer, subjects []gwa.Subject) error {
	wb, err := newWorkbook(SubjectsSheet)
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}

	rows := make([][]interface{}, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, []interface{}{s.ID, s.Name, s.Units, s.Grade, s.WeightedGrade()})
	}
	if err = wb.table(SubjectsSheet, subjectHeader, rows); err != nil {
		return errors.Wrap(err, "writing subjects sheet")
	}

	if sum, ok := gwa.Evaluate(subjects); ok {
		err = wb.pairs(SummarySheet, [][]interface{}{
			{"GWA", sum.GWA},
			{"Total Units", sum.TotalUnits},
			{"Remark", sum.Remark},
			{"Academic Status", sum.Status},
			{"Dean's List", yesNo(sum.DeansListEligible)},
			{"President's List", yesNo(sum.PresidentsListEligible)},
		})
		if err != nil {
			return errors.Wrap(err, "writing summary sheet")
		}
	}
	return errors.Wrap(wb.writeTo(w), "writing workbook")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
