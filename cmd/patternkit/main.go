package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patternkit/internal/app"
	logx "patternkit/pkg/logx"
)

func main() {
	var (
		cfgPath string
		watch   bool
		once    bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to config json/yaml (empty: built-in demo)")
	flag.BoolVar(&watch, "watch", false, "re-run when the config file changes")
	flag.BoolVar(&once, "once", false, "run once and ignore the configured schedule")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Options{ConfigPath: cfgPath, Watch: watch, Once: once})
	if err != nil {
		// Config failed, so there is no configured logger yet.
		logx.NewConsole("error").Error("fatal startup error", logx.String("config", cfgPath), logx.Err(err))
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if runErr != nil {
		a.Logger().Error("run failed", logx.Err(runErr))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = a.Stop(stopCtx)

	if runErr != nil {
		os.Exit(1)
	}
}
