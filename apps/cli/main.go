package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradecalc/core"
	"github.com/trezcool/gradecalc/core/gwa"
	"github.com/trezcool/gradecalc/core/history"
	logsvc "github.com/trezcool/gradecalc/services/logger"
	"github.com/trezcool/gradecalc/storage/kvrepos"
	"github.com/trezcool/gradecalc/storage/kvstore"
)

var logger core.Logger

func main() {
	conf, err := core.LoadConfig(core.Getwd())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err = logsvc.New(conf)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: creating logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cli, closeFn, err := setup(ctx, conf)
	errAndDie(err)

	err = cli.run(os.Args)
	cancel()
	if cerr := closeFn(); cerr != nil {
		logger.Warn("closing store", cerr)
	}
	if err != nil {
		if err != errHelp {
			_, _ = fmt.Fprintf(os.Stderr, "\nerror: %s\n", describe(err))
		}
		os.Exit(1)
	}
}

// setup opens the configured store and wires the repositories and services.
func setup(ctx context.Context, conf *core.Config) (*commandLine, func() error, error) {
	store, err := kvstore.Open(ctx, conf.Store)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening store")
	}
	db := kvrepos.NewDB(store, logger)

	histRepo, err := kvrepos.NewHistoryRepository(ctx, db)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	subjRepo, err := kvrepos.NewSubjectRepository(ctx, db)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	goalRepo, err := kvrepos.NewGoalRepository(ctx, db)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cli := newCommandLine(
		os.Stdout,
		os.Stdin,
		history.NewService(histRepo),
		gwa.NewService(subjRepo, goalRepo),
		kvrepos.NewPreferences(db),
	)
	return cli, store.Close, nil
}

// describe renders validation errors field by field.
func describe(err error) string {
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(vErr.Error())
	for _, f := range vErr.Fields {
		sb.WriteString("\n  -")
		sb.WriteString(f.Field)
		sb.WriteString(": ")
		sb.WriteString(f.Error)
	}
	return sb.String()
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
