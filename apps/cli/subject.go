package main

import (
	"context"
	"flag"
	"os"

	"github.com/trezcool/gradecalc/core/gwa"
	exportsvc "github.com/trezcool/gradecalc/services/export"
)

func (cli *commandLine) printSubjectUsage() {
	cli.println("Usage:")
	cli.println("  subject list                                  - list subjects with the GWA summary")
	cli.println("  subject add -name N -units U -grade G         - add a subject")
	cli.println("  subject edit -id ID [-name N] [-units U] [-grade G]")
	cli.println("                                                - change the given fields of a subject")
	cli.println("  subject delete -id ID                         - delete a subject")
	cli.println("  subject clear [-yes]                          - delete every subject")
	cli.println("  subject import -history ID [-units U]         - add a subject from a saved calculation")
	cli.println("  subject export -o FILE.xlsx                   - export the subjects and the GWA summary")
}

func (cli *commandLine) subject(args []string) error {
	if len(args) < 1 {
		cli.printSubjectUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[0] {
	case "list":
		return cli.listSubjects(ctx)

	case "add":
		fs := cli.flagSet("subject add")
		name := fs.String("name", "", "Subject name")
		units := fs.Int("units", 3, "Credit units (1-6)")
		grd := fs.Float64("grade", 0, "Grade: 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00 or 5.00")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		s, err := cli.gwa.AddSubject(ctx, gwa.NewSubject{Name: *name, Units: *units, Grade: *grd})
		if err != nil {
			return err
		}
		cli.printf("Added %q (ID %d).\n", s.Name, s.ID)
		return cli.checkGoal(ctx)

	case "edit":
		fs := cli.flagSet("subject edit")
		id := fs.Int64("id", 0, "ID of the subject to edit")
		name := fs.String("name", "", "New name")
		units := fs.Int("units", 0, "New credit units (1-6)")
		grd := fs.Float64("grade", 0, "New grade")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			fs.Usage()
			return errHelp
		}

		var us gwa.UpdateSubject
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				us.Name = name
			case "units":
				us.Units = units
			case "grade":
				us.Grade = grd
			}
		})
		s, ok, err := cli.gwa.EditSubject(ctx, *id, us)
		if err != nil {
			return err
		}
		if !ok {
			cli.printf("No subject with ID %d; nothing changed.\n", *id)
			return nil
		}
		cli.printf("Updated %q (ID %d).\n", s.Name, s.ID)
		return cli.checkGoal(ctx)

	case "delete":
		fs := cli.flagSet("subject delete")
		id := fs.Int64("id", 0, "ID of the subject to delete")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			fs.Usage()
			return errHelp
		}
		if err := cli.gwa.DeleteSubject(ctx, *id); err != nil {
			return err
		}
		cli.println("Deleted.")
		return cli.checkGoal(ctx)

	case "clear":
		fs := cli.flagSet("subject clear")
		yes := fs.Bool("yes", false, "Do not ask for confirmation")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := cli.confirm("Delete every subject?", *yes); err != nil {
			return err
		}
		if err := cli.gwa.ClearSubjects(ctx); err != nil {
			return err
		}
		cli.println("Subjects cleared.")
		return cli.checkGoal(ctx)

	case "import":
		fs := cli.flagSet("subject import")
		histID := fs.Int64("history", 0, "ID of the saved calculation to import")
		units := fs.Int("units", gwa.DefaultImportUnits, "Credit units of the new subject")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *histID == 0 {
			fs.Usage()
			return errHelp
		}
		rec, err := cli.hist.Get(ctx, *histID)
		if err != nil {
			return err
		}
		s, err := cli.gwa.ImportFromHistory(ctx, rec, *units)
		if err != nil {
			return err
		}
		cli.printf("Imported %q as a %d-unit subject graded %s (ID %d).\n", s.Name, s.Units, fixed2(s.Grade), s.ID)
		return cli.checkGoal(ctx)

	case "export":
		fs := cli.flagSet("subject export")
		out := fs.String("o", "", "Path of the XLSX file to write")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *out == "" {
			fs.Usage()
			return errHelp
		}
		subjects, err := cli.gwa.ListSubjects(ctx)
		if err != nil {
			return err
		}
		if err = writeFile(*out, func(f *os.File) error { return exportsvc.WriteSubjects(f, subjects) }); err != nil {
			return err
		}
		cli.printf("Exported %d subjects to %s.\n", len(subjects), *out)
		return nil

	default:
		cli.printSubjectUsage()
		return errHelp
	}
}

func (cli *commandLine) listSubjects(ctx context.Context) error {
	subjects, err := cli.gwa.ListSubjects(ctx)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		cli.println("No subjects yet.")
		return nil
	}

	tw := cli.table()
	_, _ = tw.Write([]byte("ID\tSUBJECT\tUNITS\tGRADE\n"))
	for _, s := range subjects {
		fprintf(tw, "%d\t%s\t%d\t%s\n", s.ID, s.Name, s.Units, fixed2(s.Grade))
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	cli.println()
	return cli.summary()
}
