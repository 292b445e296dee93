package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/grade"
	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/core/history"
	logsvc "github.com/trezcool/gradecalc/services/logger"
	"github.com/trezcool/gradecalc/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string // substrings of the output
}

type testEnv struct {
	cli  *commandLine
	out  *bytes.Buffer
	hist *history.Service
	gwa  *gwa.Service
}

func setupTest(t *testing.T, input string) *testEnv {
	t.Helper()
	logger = logsvc.NewNopLogger()
	repos := testutil.OpenRepos(t, logger)

	env := &testEnv{
		out:  new(bytes.Buffer),
		hist: history.NewService(repos.History),
		gwa:  gwa.NewService(repos.Subjects, repos.Goal),
	}
	env.cli = newCommandLine(env.out, strings.NewReader(input), env.hist, env.gwa, repos.Prefs)
	return env
}

func (env *testEnv) run(t *testing.T, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"gradecalc"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			env.out.Reset()
			err := env.cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "cli.run() error = %v, wantErr %v", err, tt.wantErr)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, env.out.String(), s)
			}
		})
	}
}

func mockTerminal(t *testing.T, isTerminal bool) {
	orig := isTerminalFunc
	isTerminalFunc = func(int) bool { return isTerminal }
	t.Cleanup(func() { isTerminalFunc = orig })
}

func Test_commandLine_usage(t *testing.T) {
	env := setupTest(t, "")
	env.run(t, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "history: no subcommand", args: []string{"history"}, wantErr: errHelp},
		{name: "history: unknown subcommand", args: []string{"history", "lol"}, wantErr: errHelp},
		{name: "subject: no subcommand", args: []string{"subject"}, wantErr: errHelp},
		{name: "goal: no subcommand", args: []string{"goal"}, wantErr: errHelp},
		{name: "pref: no subcommand", args: []string{"pref"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"calc", "-lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"calc", "-h"}, wantErr: errHelp, wantOut: []string{"-prelims"}},
	})
}

func Test_commandLine_calc(t *testing.T) {
	env := setupTest(t, "")
	env.run(t, []cliTest{
		{
			name:    "compute only",
			args:    []string{"calc", "-prelims", "60", "-midterm", "70", "-prefinals", "80", "-finals", "90"},
			wantOut: []string{"Final Grade: 78.00", "GWA:         2.25", "Remark:      Satisfactory"},
		},
		{
			name:    "incomplete",
			args:    []string{"calc", "-prelims", "60", "-midterm", "70"},
			wantErr: grade.ErrIncompleteInput,
		},
		{
			name:    "out of range",
			args:    []string{"calc", "-prelims", "60", "-midterm", "70", "-prefinals", "80", "-finals", "101"},
			wantErr: grade.ErrOutOfRange,
		},
		{
			name:    "save",
			args:    []string{"calc", "-prelims", "75", "-midterm", "75", "-prefinals", "75", "-finals", "75", "-save", "-title", "Math"},
			wantOut: []string{"Final Grade: 75.00", `Saved "Math"`},
		},
		{
			name:    "update unknown id",
			args:    []string{"calc", "-prelims", "75", "-midterm", "75", "-prefinals", "75", "-finals", "75", "-id", "42"},
			wantOut: []string{"No saved calculation with ID 42; nothing saved."},
		},
	})

	recs, err := env.hist.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Math", recs[0].Title)

	id := strconv.FormatInt(recs[0].ID, 10)
	env.run(t, []cliTest{
		{
			name:    "update",
			args:    []string{"calc", "-prelims", "90", "-midterm", "90", "-prefinals", "90", "-finals", "90", "-id", id},
			wantOut: []string{"Final Grade: 90.00", `Updated "Math" (ID ` + id + `)`},
		},
	})
	recs, _ = env.hist.List(context.Background())
	require.Len(t, recs, 1)
	assert.Equal(t, "90.00", recs[0].FinalGrade)
}

func Test_commandLine_history(t *testing.T) {
	env := setupTest(t, "")
	ctx := context.Background()
	a, _, err := env.hist.Save(ctx, history.SaveRecord{Grades: grade.PeriodGrades{Prelims: "60", Midterm: "70", Prefinals: "80", Finals: "90"}, Title: "Math"})
	require.NoError(t, err)
	_, _, err = env.hist.Save(ctx, history.SaveRecord{Grades: grade.PeriodGrades{Prelims: "50", Midterm: "50", Prefinals: "50", Finals: "50"}, Title: "Physics"})
	require.NoError(t, err)

	export := filepath.Join(t.TempDir(), "history.xlsx")
	mockTerminal(t, false)
	env.run(t, []cliTest{
		{name: "list", args: []string{"history", "list"}, wantOut: []string{"TITLE", "Math", "78.00", "Satisfactory", "Physics", "Failed"}},
		{name: "analytics", args: []string{"analytics"}, wantOut: []string{"Total calculations: 2", "Average grade:      64.00", "(1:1)", "No goal set."}},
		{name: "export: no file", args: []string{"history", "export"}, wantErr: errHelp},
		{name: "export", args: []string{"history", "export", "-o", export}, wantOut: []string{"Exported 2 calculations"}},
		{name: "delete: no id", args: []string{"history", "delete"}, wantErr: errHelp},
		{name: "delete", args: []string{"history", "delete", "-id", strconv.FormatInt(a.ID, 10)}, wantOut: []string{"Deleted."}},
		{name: "delete unknown", args: []string{"history", "delete", "-id", "1"}, wantOut: []string{"Deleted."}},
		{name: "clear without terminal", args: []string{"history", "clear"}, wantErrStr: "refusing to proceed without -yes when stdin is not a terminal"},
	})

	f, err := excelize.OpenFile(export)
	require.NoError(t, err)
	v, _ := f.GetCellValue("History", "B3")
	assert.Equal(t, "Math", v)
	_ = f.Close()

	recs, _ := env.hist.List(ctx)
	assert.Len(t, recs, 1)

	env.run(t, []cliTest{
		{name: "clear", args: []string{"history", "clear", "-yes"}, wantOut: []string{"History cleared."}},
		{name: "list empty", args: []string{"history", "list"}, wantOut: []string{"No saved calculations yet."}},
	})
}

func Test_commandLine_confirm(t *testing.T) {
	mockTerminal(t, true)

	for _, tc := range []struct {
		input   string
		wantErr error
		wantLen int
	}{
		{input: "y\n", wantLen: 0},
		{input: "YES\n", wantLen: 0},
		{input: "n\n", wantErr: errAborted, wantLen: 1},
		{input: "", wantErr: errAborted, wantLen: 1},
	} {
		t.Run(strconv.Quote(tc.input), func(t *testing.T) {
			env := setupTest(t, tc.input)
			_, _, err := env.hist.Save(context.Background(), history.SaveRecord{Grades: grade.PeriodGrades{Prelims: "1", Midterm: "1", Prefinals: "1", Finals: "1"}})
			require.NoError(t, err)

			err = env.cli.run([]string{"gradecalc", "history", "clear"})
			assert.Equal(t, tc.wantErr, err)
			assert.Contains(t, env.out.String(), "Delete every saved calculation? [y/N]")
			recs, _ := env.hist.List(context.Background())
			assert.Len(t, recs, tc.wantLen)
		})
	}
}

func Test_commandLine_subject(t *testing.T) {
	env := setupTest(t, "")
	ctx := context.Background()
	rec, _, err := env.hist.Save(ctx, history.SaveRecord{Grades: grade.PeriodGrades{Prelims: "92", Midterm: "92", Prefinals: "92", Finals: "92"}, Title: "Physics"})
	require.NoError(t, err)

	env.run(t, []cliTest{
		{name: "list empty", args: []string{"subject", "list"}, wantOut: []string{"No subjects yet."}},
		{name: "gwa empty", args: []string{"gwa"}, wantOut: []string{"GWA: N/A"}},
		{name: "add", args: []string{"subject", "add", "-name", "Algebra", "-units", "3", "-grade", "1.00"}, wantOut: []string{`Added "Algebra"`}},
		{name: "add invalid", args: []string{"subject", "add", "-name", " ", "-grade", "4"}, wantErr: core.ErrInvalidInput},
		{name: "import", args: []string{"subject", "import", "-history", strconv.FormatInt(rec.ID, 10)}, wantOut: []string{`Imported "Physics" as a 3-unit subject graded 1.50`}},
		{name: "import unknown", args: []string{"subject", "import", "-history", "1"}, wantErr: history.ErrNotFound},
		{name: "gwa", args: []string{"gwa"}, wantOut: []string{"GWA:             1.25 (Very Good)", "Total units:     6", "Honor Student", "Dean's List:     yes"}},
		{name: "edit unknown", args: []string{"subject", "edit", "-id", "1", "-grade", "2.00"}, wantOut: []string{"No subject with ID 1; nothing changed."}},
		{name: "edit: no id", args: []string{"subject", "edit"}, wantErr: errHelp},
	})

	subjects, _ := env.gwa.ListSubjects(ctx)
	require.Len(t, subjects, 2)
	id := strconv.FormatInt(subjects[0].ID, 10)

	env.run(t, []cliTest{
		{name: "edit", args: []string{"subject", "edit", "-id", id, "-units", "1"}, wantOut: []string{`Updated "Algebra"`}},
		{name: "list", args: []string{"subject", "list"}, wantOut: []string{"SUBJECT", "Algebra", "Physics", "1.50", "Total units:     4"}},
		{name: "delete", args: []string{"subject", "delete", "-id", id}, wantOut: []string{"Deleted."}},
		{name: "clear", args: []string{"subject", "clear", "-yes"}, wantOut: []string{"Subjects cleared."}},
	})

	subjects, _ = env.gwa.ListSubjects(ctx)
	assert.Empty(t, subjects)
}

func Test_commandLine_goal(t *testing.T) {
	env := setupTest(t, "")
	const congrats = "Congratulations! You reached your goal GWA of 1.75."

	env.run(t, []cliTest{
		{name: "show unset", args: []string{"goal", "show"}, wantOut: []string{"No goal set."}},
		{name: "set invalid", args: []string{"goal", "set", "-target", "0.5"}, wantErr: core.ErrInvalidInput},
		{name: "set", args: []string{"goal", "set", "-target", "1.75"}, wantOut: []string{"Goal set to 1.75.", "Progress:        N/A"}},
		{name: "add below goal", args: []string{"subject", "add", "-name", "Algebra", "-grade", "2.50"}, wantOut: []string{`Added "Algebra"`}},
		{name: "show progress", args: []string{"goal", "show"}, wantOut: []string{"Current GWA:     2.50", "Progress:        76.9%", "Remaining:       0.75"}},
		{name: "reach goal", args: []string{"subject", "add", "-name", "Biology", "-units", "6", "-grade", "1.25"}, wantOut: []string{congrats}},
		{name: "show achieved", args: []string{"goal", "show"}, wantOut: []string{"100% - achieved"}},
	})

	// the celebration fires once
	env.out.Reset()
	require.NoError(t, env.cli.run([]string{"gradecalc", "goal", "show"}))
	assert.NotContains(t, env.out.String(), congrats)

	env.run(t, []cliTest{
		{name: "clear", args: []string{"goal", "clear"}, wantOut: []string{"Goal cleared."}},
		{name: "show cleared", args: []string{"goal", "show"}, wantOut: []string{"No goal set."}},
	})
}

func Test_commandLine_scaleAndPref(t *testing.T) {
	env := setupTest(t, "")
	env.run(t, []cliTest{
		{name: "scale", args: []string{"scale"}, wantOut: []string{"PERCENTAGE", "97.50 - 100", "0.00 - 59.49", "5.00"}},
		{name: "pref get default", args: []string{"pref", "get", "theme"}, wantOut: []string{"light"}},
		{name: "pref set", args: []string{"pref", "set", "theme", "dark"}, wantOut: []string{"theme set to dark."}},
		{name: "pref get", args: []string{"pref", "get", "theme"}, wantOut: []string{"dark"}},
		{name: "pref set invalid", args: []string{"pref", "set", "historyLayout", "table"}, wantErr: core.ErrInvalidInput},
		{name: "pref unknown", args: []string{"pref", "get", "font"}, wantErrStr: `unknown preference "font"`},
		{name: "pref list", args: []string{"pref", "list"}, wantOut: []string{"theme=dark", "historyLayout=list"}},
	})
}

func Test_describe(t *testing.T) {
	_, err := grade.ComputeFinalGrade(grade.PeriodGrades{Prelims: "1", Midterm: "x"})
	assert.Equal(t, "all period grades are required\n  -midterm: grade must be a number\n  -prefinals: this field is required\n  -finals: this field is required", describe(err))
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
