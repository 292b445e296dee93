package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/trezcool/gradecalc/core/grade"
)

// paint colours msg after a severity tag.
func (cli *commandLine) paint(severity string, msg interface{}) string {
	switch severity {
	case grade.SeveritySuccess:
		return cli.clr.Green(msg)
	case grade.SeverityWarning:
		return cli.clr.Yellow(msg)
	case grade.SeverityInfo:
		return cli.clr.Blue(msg)
	case grade.SeverityError:
		return cli.clr.Red(msg)
	default:
		return cli.clr.White(msg)
	}
}

func (cli *commandLine) bold(msg interface{}) string {
	return cli.clr.Bold(msg)
}

func fprintf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

// fixed2 formats a GWA for display, rounding half away from zero.
func fixed2(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

func fixed1(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(1)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
