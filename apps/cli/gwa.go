package main

import (
	"context"

	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/core/gwa"
)

func (cli *commandLine) summary() error {
	sum, ok, err := cli.gwa.Summary(context.Background())
	if err != nil {
		return err
	}
	if !ok {
		cli.println("GWA: N/A (add subjects with units to compute it)")
		return nil
	}
	cli.printf("GWA:             %s (%s)\n", cli.paint(sum.ColorTag, fixed2(sum.GWA)), cli.paint(sum.ColorTag, sum.Remark))
	cli.printf("Total units:     %d\n", sum.TotalUnits)
	cli.printf("Status:          %s\n", cli.paint(statusSeverity(sum.Status), sum.Status))
	cli.printf("Dean's List:     %s\n", yesNo(sum.DeansListEligible))
	cli.printf("President's List: %s\n", yesNo(sum.PresidentsListEligible))
	return nil
}

func statusSeverity(status string) string {
	switch status {
	case gwa.StatusHonorStudent:
		return grade.SeveritySuccess
	case gwa.StatusPassed:
		return grade.SeverityInfo
	case gwa.StatusFailed:
		return grade.SeverityError
	default:
		return grade.SeverityWarning
	}
}

func (cli *commandLine) printGoalUsage() {
	cli.println("Usage:")
	cli.println("  goal show            - show the target GWA and the progress towards it")
	cli.println("  goal set -target T   - set the target GWA (1.00-5.00, lower is better)")
	cli.println("  goal clear           - remove the target GWA")
}

func (cli *commandLine) goal(args []string) error {
	if len(args) < 1 {
		cli.printGoalUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[0] {
	case "show":
		return cli.showGoal(ctx)

	case "set":
		fs := cli.flagSet("goal set")
		target := fs.Float64("target", 0, "Target GWA (1.00-5.00)")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		g, err := cli.gwa.SetGoal(ctx, gwa.NewGoal{TargetGWA: *target})
		if err != nil {
			return err
		}
		cli.printf("Goal set to %s.\n", fixed2(g.TargetGWA))
		return cli.showGoal(ctx)

	case "clear":
		if err := cli.gwa.ClearGoal(ctx); err != nil {
			return err
		}
		cli.println("Goal cleared.")
		return nil

	default:
		cli.printGoalUsage()
		return errHelp
	}
}

func (cli *commandLine) showGoal(ctx context.Context) error {
	g, err := cli.gwa.Goal(ctx)
	if err != nil {
		return err
	}
	if g == nil {
		cli.println("No goal set.")
		return nil
	}
	p, newly, err := cli.gwa.Progress(ctx)
	if err != nil {
		return err
	}
	cli.printGoalProgress(g, p)
	if newly {
		cli.celebrate(g)
	}
	return nil
}

func (cli *commandLine) printGoalProgress(g *gwa.Goal, p *gwa.GoalProgress) {
	cli.printf("Target GWA:      %s\n", fixed2(g.TargetGWA))
	if p == nil {
		cli.println("Progress:        N/A (no GWA yet)")
		return
	}
	cli.printf("Current GWA:     %s\n", fixed2(p.CurrentGWA))
	if p.Achieved {
		cli.printf("Progress:        %s\n", cli.paint(grade.SeveritySuccess, "100% - achieved"))
	} else {
		cli.printf("Progress:        %s%%\n", fixed1(p.Percentage))
		cli.printf("Remaining:       %s\n", fixed2(p.Remaining))
	}
	cli.printf("Needed average over the next 15 units: %s\n", fixed2(p.RequiredAverage))
}

// checkGoal runs after subject changes and celebrates when the goal was just reached.
func (cli *commandLine) checkGoal(ctx context.Context) error {
	g, err := cli.gwa.Goal(ctx)
	if err != nil || g == nil {
		return err
	}
	_, newly, err := cli.gwa.Progress(ctx)
	if err != nil {
		return err
	}
	if newly {
		cli.celebrate(g)
	}
	return nil
}

func (cli *commandLine) celebrate(g *gwa.Goal) {
	cli.println(cli.paint(grade.SeveritySuccess, cli.bold("Congratulations! You reached your goal GWA of "+fixed2(g.TargetGWA)+".")))
}
