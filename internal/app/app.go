package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"patternkit/internal/config"
	"patternkit/internal/runtime/supervisor"
	"patternkit/internal/scenario"
	"patternkit/internal/schedule"
	"patternkit/internal/sink"
	logx "patternkit/pkg/logx"
)

const (
	watchBackoffMin = 250 * time.Millisecond
	watchBackoffMax = 10 * time.Second
	stopTimeout     = 5 * time.Second
)

type Options struct {
	// ConfigPath is a JSON or YAML file. Empty runs config.Default().
	ConfigPath string
	// Watch re-runs the scenario whenever the config file changes.
	Watch bool
	// Once ignores the configured schedule.
	Once bool
	// Stdout receives demonstration lines. Defaults to os.Stdout.
	Stdout io.Writer
}

type App struct {
	opts Options

	cfgm *config.Manager // nil when running the built-in config
	logs *logx.Service
	log  logx.Logger

	rep     *schedule.Repeater
	limiter *rate.Limiter

	mu        sync.Mutex
	cfg       *config.Config
	scheduled string // schedule string the repeater currently runs

	runsMu sync.Mutex // serializes scenario runs
}

func New(opts Options) (*App, error) {
	if opts.Stdout == nil {
		opts.Stdout = logx.Stdout()
	}

	var (
		cfgm *config.Manager
		cfg  *config.Config
	)
	if strings.TrimSpace(opts.ConfigPath) != "" {
		cfgm = config.NewManager(opts.ConfigPath)
		c, err := cfgm.Load()
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.Default()
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	logs, log := logx.New(logConfig(cfg))
	log = log.With(logx.String("comp", "app"))
	if cfgm != nil {
		cfgm.SetLogger(log.With(logx.String("comp", "config")))
	}

	return &App{
		opts:    opts,
		cfgm:    cfgm,
		logs:    logs,
		log:     log,
		rep:     schedule.NewRepeater(log.With(logx.String("comp", "schedule"))),
		limiter: rate.NewLimiter(reloadLimit(cfg), reloadBurst(cfg)),
		cfg:     cfg,
	}, nil
}

func (a *App) Logger() logx.Logger { return a.log }

// Config returns the config the next run will use.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Run runs the scenario once and then, depending on options and config,
// keeps repeating it on schedule and/or on config change until ctx is done.
// Without schedule or watch it returns the first run's error.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.runScenario("startup"); err != nil {
		return err
	}

	cfg := a.Config()
	scheduled := !a.opts.Once && strings.TrimSpace(cfg.Schedule) != ""
	watching := a.opts.Watch && a.cfgm != nil
	if a.opts.Watch && a.cfgm == nil {
		a.log.Warn("watch requested without a config file; ignoring")
	}
	if !scheduled && !watching {
		return nil
	}

	if scheduled {
		if err := a.startSchedule(cfg.Schedule); err != nil {
			return err
		}
	}

	sup := supervisor.New(ctx, supervisor.WithLogger(a.log))
	if watching {
		sub := a.cfgm.Subscribe(4)
		defer a.cfgm.Unsubscribe(sub)

		sup.GoRestart("config.watch", watchBackoffMin, watchBackoffMax, a.cfgm.Watch)
		sup.Go0("config.reload", func(ctx context.Context) { a.reloadLoop(ctx, sub) })
		a.log.Info("watching config", logx.String("path", a.cfgm.Path()))
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := sup.Stop(stopCtx); err != nil {
		a.log.Warn("background tasks did not stop cleanly", logx.Err(err))
	}
	a.log.Debug("background tasks stopped",
		logx.Int("started", int(sup.Started())),
		logx.Int64("active", sup.Active()),
	)
	return nil
}

// Stop stops the repeater and closes log outputs.
func (a *App) Stop(ctx context.Context) error {
	a.rep.Stop(ctx)
	return a.logs.Close()
}

func (a *App) reloadLoop(ctx context.Context, sub chan *config.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: keep only the latest config.
			for drained := false; !drained; {
				select {
				case newer := <-sub:
					if newer != nil {
						newCfg = newer
					}
				default:
					drained = true
				}
			}
			a.applyConfig(newCfg)
		}
	}
}

// applyConfig swaps in a reloaded config and re-runs the scenario if the
// reload rate allows it.
func (a *App) applyConfig(newCfg *config.Config) {
	if newCfg == nil {
		return
	}
	a.mu.Lock()
	old := a.cfg
	a.cfg = newCfg
	a.mu.Unlock()

	sections, fields := config.SummarizeChange(old, newCfg)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}
	a.log.Info("config reloaded", append([]logx.Field{logx.Strings("changed", sections)}, fields...)...)

	a.logs.Apply(logConfig(newCfg))
	a.log.Debug("logging applied", logx.String("level", logx.ParseLevel(newCfg.Logging.Level).String()))
	a.limiter.SetLimit(reloadLimit(newCfg))
	a.limiter.SetBurst(reloadBurst(newCfg))

	if !a.opts.Once {
		a.mu.Lock()
		current := a.scheduled
		a.mu.Unlock()
		next := strings.TrimSpace(newCfg.Schedule)
		switch {
		case next == current:
		case next == "":
			a.rep.Stop(context.Background())
			a.setScheduled("")
		default:
			if err := a.startSchedule(next); err != nil {
				a.log.Warn("schedule not changed", logx.Err(err))
			}
		}
	}

	if !a.limiter.Allow() {
		a.log.Warn("reload run throttled", logx.Int("reload_rate_per_sec", newCfg.ReloadRatePerSec))
		return
	}
	_, _ = a.runScenario("reload")
}

func (a *App) startSchedule(raw string) error {
	spec, err := schedule.Parse(raw)
	if err != nil {
		return err
	}
	if err := a.rep.Start(spec, func() { _, _ = a.runScenario("schedule") }); err != nil {
		return err
	}
	a.setScheduled(strings.TrimSpace(raw))
	return nil
}

func (a *App) setScheduled(s string) {
	a.mu.Lock()
	a.scheduled = s
	a.mu.Unlock()
}

// runScenario runs the current config once. Runs are serialized so the
// output of two runs never interleaves.
func (a *App) runScenario(trigger string) (scenario.Report, error) {
	a.runsMu.Lock()
	defer a.runsMu.Unlock()

	cfg := a.Config()
	log := a.log.With(logx.String("trigger", trigger))
	r := scenario.NewRunner(a.output(cfg), log)
	rep, err := r.Run(cfg)
	if err != nil {
		return rep, err
	}
	if next, ok := a.rep.Next(); ok {
		log.Debug("next scheduled run", logx.Time("at", next), logx.Duration("in", time.Until(next).Round(time.Second)))
	}
	return rep, nil
}

func (a *App) output(cfg *config.Config) sink.Sink {
	stdout := sink.Writer(a.opts.Stdout)
	logged := sink.Log(a.log.With(logx.String("comp", "output")))
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case config.OutputLog:
		return logged
	case config.OutputBoth:
		return sink.Fanout(stdout, logged)
	default:
		return stdout
	}
}

func logConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func reloadBurst(cfg *config.Config) int {
	if cfg.ReloadRatePerSec <= 0 {
		return 1
	}
	return cfg.ReloadRatePerSec
}

func reloadLimit(cfg *config.Config) rate.Limit {
	return rate.Limit(reloadBurst(cfg))
}

// ErrNoConfig is returned by Reload when the app runs the built-in config.
var ErrNoConfig = errors.New("no config file")

// Reload re-reads the config file and applies it as if the watcher had seen
// a change.
func (a *App) Reload() error {
	if a.cfgm == nil {
		return ErrNoConfig
	}
	cfg, err := a.cfgm.Load()
	if err != nil {
		return err
	}
	a.applyConfig(cfg)
	return nil
}
