package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Config struct {
	Logging LoggingConfig `json:"logging"`

	// Output selects where demonstration lines go: "stdout" (default), "log"
	// (info records through logx) or "both".
	Output string `json:"output,omitempty"`

	// Schedule repeats the scenario. Empty runs it once.
	//
	// Accepts cron ("*/5 * * * *", "@every 1m"), a Go duration ("30s") or
	// HH:MM ("00:05"). See schedule.Parse.
	Schedule string `json:"schedule,omitempty"`

	// ReloadRatePerSec caps how often a config reload may re-run the scenario.
	// Defaults to 1.
	ReloadRatePerSec int `json:"reload_rate_per_sec,omitempty"`

	Calculator CalculatorConfig `json:"calculator"`
	Notifier   NotifierConfig   `json:"notifier"`
	Book       BookConfig       `json:"book"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// CalculatorConfig is a script of executor calls, run in order.
type CalculatorConfig struct {
	Steps []CalculatorStep `json:"steps"`
}

// Calculator step actions.
const (
	ActionSet     = "set"
	ActionClear   = "clear"
	ActionExecute = "execute"
)

type CalculatorStep struct {
	Action string `json:"action"`
	// Operation is required for "set" ("add", "subtract", "+", "-").
	Operation string `json:"operation,omitempty"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
}

// NotifierConfig describes the chain (head first) and the messages sent
// through it.
type NotifierConfig struct {
	Chain    []HandlerConfig `json:"chain"`
	Messages []MessageConfig `json:"messages"`
}

type HandlerConfig struct {
	Channel   string `json:"channel"`
	Threshold Scalar `json:"threshold"`
}

type MessageConfig struct {
	Text  string `json:"text"`
	Level Scalar `json:"level"`
}

type BookConfig struct {
	Capacity int      `json:"capacity"`
	Chapters []string `json:"chapters"`
}

// Scalar accepts either a JSON string or a JSON number, so levels can be
// written as "warning" or 2.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	if _, err := strconv.Atoi(n.String()); err != nil {
		return fmt.Errorf("expected integer, got %s", n.String())
	}
	*s = Scalar(n.String())
	return nil
}

func (s Scalar) String() string { return string(s) }
