package main

import (
	"context"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/storage/kvrepos"
)

func (cli *commandLine) analytics() error {
	ctx := context.Background()
	stats, err := cli.hist.Stats(ctx)
	if err != nil {
		return err
	}

	cli.println(cli.bold("Calculation history"))
	cli.printf("Total calculations: %d\n", stats.Total)
	cli.printf("Highest grade:      %s\n", stats.Highest)
	cli.printf("Lowest grade:       %s\n", stats.Lowest)
	cli.printf("Average grade:      %s\n", stats.Average)
	cli.printf("Passed / failed:    %s / %s (%s)\n",
		cli.paint(grade.SeveritySuccess, stats.Passed), cli.paint(grade.SeverityError, stats.Failed), stats.PassFailRatio)

	cli.println()
	cli.println(cli.bold("GWA"))
	if err = cli.summary(); err != nil {
		return err
	}

	cli.println()
	cli.println(cli.bold("Goal"))
	return cli.showGoal(ctx)
}

func (cli *commandLine) scale() error {
	tw := cli.table()
	_, _ = tw.Write([]byte("PERCENTAGE\tGWA\tREMARK\n"))
	for _, r := range grade.Scale() {
		fprintf(tw, "%s\t%s\t%s\n", r.Label, r.GWA, cli.paint(grade.RemarkSeverity(r.Remark), r.Remark))
	}
	return tw.Flush()
}

func (cli *commandLine) printPrefUsage() {
	cli.println("Usage:")
	cli.println("  pref list           - print every preference")
	cli.println("  pref get KEY        - print a preference")
	cli.println("  pref set KEY VALUE  - change a preference")
	cli.println("Keys: theme (light, dark), historyLayout (list, grid)")
}

func (cli *commandLine) pref(args []string) error {
	ctx := context.Background()
	switch {
	case len(args) == 2 && args[0] == "get":
		v, err := cli.prefs.Get(ctx, args[1])
		if err != nil {
			return err
		}
		cli.println(v)
		return nil
	case len(args) == 3 && args[0] == "set":
		if err := cli.prefs.Set(ctx, args[1], args[2]); err != nil {
			return err
		}
		cli.printf("%s set to %s.\n", args[1], core.CleanString(args[2]))
		return nil
	case len(args) == 1 && args[0] == "list":
		for _, key := range kvrepos.PreferenceKeys() {
			v, err := cli.prefs.Get(ctx, key)
			if err != nil {
				return err
			}
			cli.printf("%s=%s\n", key, v)
		}
		return nil
	default:
		cli.printPrefUsage()
		return errHelp
	}
}
