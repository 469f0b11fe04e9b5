package config

import (
	"reflect"
	"strings"

	logx "patternkit/pkg/logx"
)

// SummarizeChange returns the names of sections that differ between oldCfg and
// newCfg, plus compact log fields describing the new values.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 6)
	fields := make([]logx.Field, 0, 12)

	if !reflect.DeepEqual(oldCfg.Logging, newCfg.Logging) {
		changed = append(changed, "logging")
		fields = append(fields,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if !strings.EqualFold(strings.TrimSpace(oldCfg.Output), strings.TrimSpace(newCfg.Output)) {
		changed = append(changed, "output")
		fields = append(fields, logx.String("output", newCfg.Output))
	}

	if strings.TrimSpace(oldCfg.Schedule) != strings.TrimSpace(newCfg.Schedule) ||
		oldCfg.ReloadRatePerSec != newCfg.ReloadRatePerSec {
		changed = append(changed, "schedule")
		fields = append(fields,
			logx.String("schedule", strings.TrimSpace(newCfg.Schedule)),
			logx.Int("reload_rate_per_sec", newCfg.ReloadRatePerSec),
		)
	}

	if !reflect.DeepEqual(oldCfg.Calculator, newCfg.Calculator) {
		changed = append(changed, "calculator")
		fields = append(fields, logx.Int("calculator.steps", len(newCfg.Calculator.Steps)))
	}

	if !reflect.DeepEqual(oldCfg.Notifier, newCfg.Notifier) {
		changed = append(changed, "notifier")
		fields = append(fields,
			logx.Int("notifier.chain", len(newCfg.Notifier.Chain)),
			logx.Int("notifier.messages", len(newCfg.Notifier.Messages)),
		)
	}

	if !reflect.DeepEqual(oldCfg.Book, newCfg.Book) {
		changed = append(changed, "book")
		fields = append(fields,
			logx.Int("book.capacity", newCfg.Book.Capacity),
			logx.Int("book.chapters", len(newCfg.Book.Chapters)),
		)
	}

	return changed, fields
}
