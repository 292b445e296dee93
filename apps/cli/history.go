package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	exportsvc "github.com/trezcool/gradecalc/services/export"
)

func (cli *commandLine) printHistoryUsage() {
	cli.println("Usage:")
	cli.println("  history list                 - list saved calculations, newest first")
	cli.println("  history delete -id ID        - delete a saved calculation")
	cli.println("  history clear [-yes]         - delete every saved calculation")
	cli.println("  history export -o FILE.xlsx  - export the history and its analytics")
}

func (cli *commandLine) history(args []string) error {
	if len(args) < 1 {
		cli.printHistoryUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[0] {
	case "list":
		return cli.listHistory(ctx)

	case "delete":
		fs := cli.flagSet("history delete")
		id := fs.Int64("id", 0, "ID of the calculation to delete")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			fs.Usage()
			return errHelp
		}
		if err := cli.hist.Delete(ctx, *id); err != nil {
			return err
		}
		cli.println("Deleted.")
		return nil

	case "clear":
		fs := cli.flagSet("history clear")
		yes := fs.Bool("yes", false, "Do not ask for confirmation")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if err := cli.confirm("Delete every saved calculation?", *yes); err != nil {
			return err
		}
		if err := cli.hist.Clear(ctx); err != nil {
			return err
		}
		cli.println("History cleared.")
		return nil

	case "export":
		fs := cli.flagSet("history export")
		out := fs.String("o", "", "Path of the XLSX file to write")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		if *out == "" {
			fs.Usage()
			return errHelp
		}
		recs, err := cli.hist.List(ctx)
		if err != nil {
			return err
		}
		if err = writeFile(*out, func(f *os.File) error { return exportsvc.WriteHistory(f, recs) }); err != nil {
			return err
		}
		cli.printf("Exported %d calculations to %s.\n", len(recs), *out)
		return nil

	default:
		cli.printHistoryUsage()
		return errHelp
	}
}

func (cli *commandLine) listHistory(ctx context.Context) error {
	recs, err := cli.hist.List(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		cli.println("No saved calculations yet.")
		return nil
	}

	tw := cli.table()
	_, _ = tw.Write([]byte("ID\tTITLE\tPRELIMS\tMIDTERM\tPRE-FINALS\tFINALS\tFINAL\tGWA\tREMARK\tSAVED\n"))
	for _, rec := range recs {
		c := rec.Classification()
		fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Title, rec.Prelims, rec.Midterm, rec.Prefinals, rec.Finals,
			rec.FinalGrade, c.GWA, cli.paint(c.Severity, c.Remark), rec.Timestamp)
	}
	return tw.Flush()
}

// writeFile creates path and removes it again when write fails.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return errors.Wrap(f.Close(), "closing export file")
}
