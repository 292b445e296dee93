package main

import (
	"context"

	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/core/history"
)

func (cli *commandLine) calc(args []string) error {
	fs := cli.flagSet("calc")
	prelims := fs.String("prelims", "", "Prelims grade (0-100)")
	midterm := fs.String("midterm", "", "Midterm grade (0-100)")
	prefinals := fs.String("prefinals", "", "Pre-finals grade (0-100)")
	finals := fs.String("finals", "", "Finals grade (0-100)")
	save := fs.Bool("save", false, "Save the calculation to history")
	title := fs.String("title", "", "Title of the saved calculation (default \"Untitled\")")
	id := fs.Int64("id", 0, "Update the saved calculation with this ID instead of adding one")
	if err := parse(fs, args); err != nil {
		return err
	}

	pg := grade.PeriodGrades{Prelims: *prelims, Midterm: *midterm, Prefinals: *prefinals, Finals: *finals}
	fg, err := grade.ComputeFinalGrade(pg)
	if err != nil {
		return err
	}
	c := grade.Classify(fg.Float64())
	cli.printf("Final Grade: %s\n", cli.bold(fg.String()))
	cli.printf("GWA:         %s\n", cli.paint(c.Severity, c.GWA))
	cli.printf("Remark:      %s\n", cli.paint(c.Severity, c.Remark))

	if !*save && *id == 0 {
		return nil
	}
	rec, ok, err := cli.hist.Save(context.Background(), history.SaveRecord{ID: *id, Grades: pg, Title: *title})
	if err != nil {
		return err
	}
	if !ok {
		cli.printf("No saved calculation with ID %d; nothing saved.\n", *id)
		return nil
	}
	if *id != 0 {
		cli.printf("Updated %q (ID %d).\n", rec.Title, rec.ID)
	} else {
		cli.printf("Saved %q (ID %d).\n", rec.Title, rec.ID)
	}
	return nil
}
