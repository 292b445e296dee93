package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/gradecalc/apps/api/echo"
	"github.com/trezcool/gradecalc/core"
	logsvc "github.com/trezcool/gradecalc/services/logger"
)

const shutdownTimeout = 10 * time.Second

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

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:  conf.Server.Address(),
			Debug:    conf.Debug,
			TestMode: conf.TestMode,
			Logger:   logger,
		},
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", map[string]interface{}{"address": conf.Server.Address(), "build": conf.Build})
		serverErrors <- app.Start()
	}()

	select {
	case err = <-serverErrors:
		errAndDie(err)

	case sig := <-shutdown:
		logger.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errAndDie(app.Stop(ctx))
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
