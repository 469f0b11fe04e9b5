// Package scenario runs the calculator, notification chain and book
// demonstrations described by a config.
//
// Each Run builds fresh component instances, so runs never share state.
package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"patternkit/internal/book"
	"patternkit/internal/calculator"
	"patternkit/internal/config"
	"patternkit/internal/notify"
	"patternkit/internal/sink"
	logx "patternkit/pkg/logx"
)

const readingHeader = "Читаем книгу:"

// Report summarizes one run.
type Report struct {
	RunID    string
	Took     time.Duration
	Executed int // Execute calls that produced a result
	Awaiting int // Execute calls without an operation
	Notified int // handler emissions across all messages
	Stored   int // chapters stored
	Rejected int // chapters dropped because the book was full
	Read     int // chapters read back through the cursor
}

type Runner struct {
	out sink.Sink
	log logx.Logger
}

func NewRunner(out sink.Sink, log logx.Logger) *Runner {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{out: sink.OrDiscard(out), log: log}
}

// Run executes the three sections in order. The config must have passed
// config.Validate; a config that fails to build a component is an error and
// nothing after the failing section runs.
func (r *Runner) Run(cfg *config.Config) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	log := r.log.With(logx.String("run_id", rep.RunID))
	start := time.Now()

	if cfg == nil {
		return rep, fmt.Errorf("scenario: nil config")
	}

	r.runCalculator(cfg.Calculator, &rep)
	r.separate()

	if err := r.runNotifier(cfg.Notifier, &rep); err != nil {
		log.Error("scenario failed", logx.String("section", "notifier"), logx.Err(err))
		return rep, err
	}
	r.separate()

	if err := r.runBook(cfg.Book, &rep); err != nil {
		log.Error("scenario failed", logx.String("section", "book"), logx.Err(err))
		return rep, err
	}

	rep.Took = time.Since(start)
	log.Info("scenario finished",
		logx.Int("executed", rep.Executed),
		logx.Int("awaiting", rep.Awaiting),
		logx.Int("notified", rep.Notified),
		logx.Int("stored", rep.Stored),
		logx.Int("rejected", rep.Rejected),
		logx.Int("read", rep.Read),
		logx.Duration("took", rep.Took),
	)
	return rep, nil
}

// separate emits the two blank lines printed between sections.
func (r *Runner) separate() {
	r.out.Emit("")
	r.out.Emit("")
}

func (r *Runner) runCalculator(cfg config.CalculatorConfig, rep *Report) {
	e := calculator.NewExecutor(r.out)
	for _, st := range cfg.Steps {
		switch strings.ToLower(strings.TrimSpace(st.Action)) {
		case config.ActionSet:
			op, err := calculator.ParseOperation(st.Operation)
			if err != nil {
				r.log.Warn("calculator step skipped", logx.Err(err))
				continue
			}
			e.SetOperation(op)
		case config.ActionClear:
			e.ClearOperation()
		case config.ActionExecute:
			if _, ok := e.Execute(st.X, st.Y); ok {
				rep.Executed++
			} else {
				rep.Awaiting++
			}
		default:
			r.log.Warn("calculator step skipped", logx.String("action", st.Action))
		}
	}
}

func (r *Runner) runNotifier(cfg config.NotifierConfig, rep *Report) error {
	head, err := BuildChain(cfg.Chain, r.out)
	if err != nil {
		return err
	}
	if head == nil {
		r.log.Debug("notifier chain empty; messages dropped", logx.Int("messages", len(cfg.Messages)))
		return nil
	}
	for i, m := range cfg.Messages {
		lvl, err := notify.ParseLevel(m.Level.String())
		if err != nil {
			return fmt.Errorf("notifier.messages[%d].level: %w", i, err)
		}
		rep.Notified += head.Notify(m.Text, lvl)
	}
	return nil
}

// BuildChain creates and links one handler per entry, head first.
func BuildChain(entries []config.HandlerConfig, out sink.Sink) (*notify.Handler, error) {
	handlers := make([]*notify.Handler, 0, len(entries))
	for i, e := range entries {
		ch, err := notify.NewChannel(e.Channel, out)
		if err != nil {
			return nil, fmt.Errorf("notifier.chain[%d].channel: %w", i, err)
		}
		th, err := notify.ParseLevel(e.Threshold.String())
		if err != nil {
			return nil, fmt.Errorf("notifier.chain[%d].threshold: %w", i, err)
		}
		handlers = append(handlers, notify.NewHandler(th, ch))
	}
	return notify.Link(handlers...)
}

func (r *Runner) runBook(cfg config.BookConfig, rep *Report) error {
	b, err := book.New(cfg.Capacity, r.out)
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}
	for _, ch := range cfg.Chapters {
		if b.AddChapter(ch) {
			rep.Stored++
		} else {
			rep.Rejected++
		}
	}

	r.out.Emit(readingHeader)
	for ch := range b.Iterator().All() {
		r.out.Emit(ch)
		rep.Read++
	}
	return nil
}
