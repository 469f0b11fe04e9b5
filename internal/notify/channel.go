package notify

import (
	"errors"
	"fmt"
	"strings"

	"patternkit/internal/sink"
)

var ErrUnknownChannel = errors.New("unknown channel")

// Channel delivers a message that passed a handler's threshold.
type Channel interface {
	Emit(message string)
}

// ChannelFunc adapts a plain function to Channel.
type ChannelFunc func(message string)

func (f ChannelFunc) Emit(message string) { f(message) }

// Built-in channel kinds.
const (
	KindReport = "report"
	KindEmail  = "email"
	KindSMS    = "sms"
)

var channelLabels = map[string]string{
	KindReport: "Уведомляем с помощью простого отчёта: ",
	KindEmail:  "Отправляем Email: ",
	KindSMS:    "Отправляем SMS менеджеру: ",
}

// labeled writes "<label><message>" to a sink.
type labeled struct {
	kind  string
	label string
	out   sink.Sink
}

func (c *labeled) Emit(message string) { c.out.Emit(c.label + message) }

func (c *labeled) String() string { return c.kind }

func NewReport(out sink.Sink) Channel { return mustChannel(KindReport, out) }
func NewEmail(out sink.Sink) Channel  { return mustChannel(KindEmail, out) }
func NewSMS(out sink.Sink) Channel    { return mustChannel(KindSMS, out) }

// NewChannel resolves a configured channel kind.
func NewChannel(kind string, out sink.Sink) (Channel, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	label, ok := channelLabels[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, kind)
	}
	return &labeled{kind: k, label: label, out: sink.OrDiscard(out)}, nil
}

// Kinds lists the built-in channel kinds.
func Kinds() []string { return []string{KindReport, KindEmail, KindSMS} }

func mustChannel(kind string, out sink.Sink) Channel {
	ch, err := NewChannel(kind, out)
	if err != nil {
		panic(err)
	}
	return ch
}
