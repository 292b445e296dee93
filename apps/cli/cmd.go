package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/color"
	"golang.org/x/term"

	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/core/history"
	"github.com/trezcool/gradecalc/storage/kvrepos"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	out   io.Writer
	in    *bufio.Reader
	clr   *color.Color
	hist  *history.Service
	gwa   *gwa.Service
	prefs *kvrepos.Preferences
}

func newCommandLine(out io.Writer, in io.Reader, hist *history.Service, gwaSvc *gwa.Service, prefs *kvrepos.Preferences) *commandLine {
	clr := color.New()
	clr.SetOutput(out)
	return &commandLine{
		out:   out,
		in:    bufio.NewReader(in),
		clr:   clr,
		hist:  hist,
		gwa:   gwaSvc,
		prefs: prefs,
	}
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) println(args ...interface{}) {
	_, _ = fmt.Fprintln(cli.out, args...)
}

func (cli *commandLine) printUsage() {
	cli.println("Usage:")
	cli.println("  calc -prelims P -midterm M -prefinals PF -finals F [-save] [-title T] [-id ID]")
	cli.println("                                  - compute a final grade, optionally saving it to history")
	cli.println("  history list|delete|clear|export - manage saved calculations")
	cli.println("  subject list|add|edit|delete|clear|import|export")
	cli.println("                                  - manage the subjects counted towards the GWA")
	cli.println("  gwa                             - show the GWA, academic status and honors")
	cli.println("  goal show|set|clear             - manage the target GWA")
	cli.println("  analytics                       - history insights, GWA summary and goal progress")
	cli.println("  scale                           - show the grading scale")
	cli.println("  pref get KEY | set KEY VALUE    - display preferences (theme, historyLayout)")
}

// flagSet returns a FlagSet reporting to cli.out that does not exit on errors.
func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse maps -h and flag errors to errHelp, the usage having been printed already.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "calc":
		return cli.calc(args[2:])
	case "history":
		return cli.history(args[2:])
	case "subject":
		return cli.subject(args[2:])
	case "gwa":
		return cli.summary()
	case "goal":
		return cli.goal(args[2:])
	case "analytics":
		return cli.analytics()
	case "scale":
		return cli.scale()
	case "pref":
		return cli.pref(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks before destructive commands. Without a terminal, -yes is required.
func (cli *commandLine) confirm(question string, yes bool) error {
	if yes {
		return nil
	}
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errors.New("refusing to proceed without -yes when stdin is not a terminal")
	}
	cli.printf("%s [y/N] ", question)
	answer, err := cli.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}
