package config

import (
	"errors"
	"fmt"
	"strings"

	"patternkit/internal/calculator"
	"patternkit/internal/notify"
	"patternkit/internal/schedule"
)

// Output targets.
const (
	OutputStdout = "stdout"
	OutputLog    = "log"
	OutputBoth   = "both"
)

// Validate checks everything a scenario run would otherwise trip over, so a
// bad reload is rejected before it is committed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", OutputStdout, OutputLog, OutputBoth:
	default:
		return fmt.Errorf("output: unknown target %q (use stdout, log or both)", cfg.Output)
	}
	if strings.TrimSpace(cfg.Schedule) != "" {
		if _, err := schedule.Parse(cfg.Schedule); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	}
	if cfg.ReloadRatePerSec < 0 {
		return fmt.Errorf("reload_rate_per_sec must be >= 0")
	}

	for i, st := range cfg.Calculator.Steps {
		path := fmt.Sprintf("calculator.steps[%d]", i)
		switch strings.ToLower(strings.TrimSpace(st.Action)) {
		case ActionSet:
			if _, err := calculator.ParseOperation(st.Operation); err != nil {
				return fmt.Errorf("%s.operation: %w", path, err)
			}
		case ActionClear, ActionExecute:
		default:
			return fmt.Errorf("%s.action: unknown action %q (use set, clear or execute)", path, st.Action)
		}
	}

	for i, h := range cfg.Notifier.Chain {
		path := fmt.Sprintf("notifier.chain[%d]", i)
		if _, err := notify.NewChannel(h.Channel, nil); err != nil {
			return fmt.Errorf("%s.channel: %w", path, err)
		}
		if _, err := notify.ParseLevel(h.Threshold.String()); err != nil {
			return fmt.Errorf("%s.threshold: %w", path, err)
		}
	}
	for i, m := range cfg.Notifier.Messages {
		if _, err := notify.ParseLevel(m.Level.String()); err != nil {
			return fmt.Errorf("notifier.messages[%d].level: %w", i, err)
		}
	}

	if cfg.Book.Capacity <= 0 {
		return fmt.Errorf("book.capacity must be > 0")
	}
	return nil
}
