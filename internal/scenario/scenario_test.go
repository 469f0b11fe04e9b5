package scenario

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternkit/internal/book"
	"patternkit/internal/config"
	"patternkit/internal/notify"
	"patternkit/internal/sink"
	logx "patternkit/pkg/logx"
)

var defaultOutput = []string{
	"калькулятор: Жду указаний",
	"калькулятор:2 + 2 = 4",
	"калькулятор:5 - 3 = 2",
	"калькулятор: Действие сброшено",
	"калькулятор: Жду указаний",
	"",
	"",
	"Уведомляем с помощью простого отчёта: Всё в порядке",
	"Уведомляем с помощью простого отчёта: Что-то пошло не так",
	"Отправляем Email: Что-то пошло не так",
	"Уведомляем с помощью простого отчёта: У нас серьёзная проблема!",
	"Отправляем Email: У нас серьёзная проблема!",
	"Отправляем SMS менеджеру: У нас серьёзная проблема!",
	"",
	"",
	"Читаем книгу:",
	"Глава 1: Пролог",
	"Глава 2: Герой отправляется в путешествие.",
	"Глава 3: Неожиданная встреча.",
	"Глава 4: Битва с драконом.",
	"Глава 5: Возвращение домой.",
}

func TestRunDefaultReproducesDemo(t *testing.T) {
	var rec sink.Recorder
	rep, err := NewRunner(&rec, logx.Nop()).Run(config.Default())
	require.NoError(t, err)

	assert.Equal(t, defaultOutput, rec.Lines())
	assert.Equal(t, 2, rep.Executed)
	assert.Equal(t, 2, rep.Awaiting)
	assert.Equal(t, 6, rep.Notified)
	assert.Equal(t, 5, rep.Stored)
	assert.Zero(t, rep.Rejected)
	assert.Equal(t, 5, rep.Read)
	_, err = uuid.Parse(rep.RunID)
	assert.NoError(t, err)
}

func TestRunOverfullBook(t *testing.T) {
	cfg := config.Default()
	cfg.Calculator.Steps = nil
	cfg.Notifier = config.NotifierConfig{}
	cfg.Book = config.BookConfig{Capacity: 2, Chapters: []string{"a", "b", "c", "d"}}

	var rec sink.Recorder
	rep, err := NewRunner(&rec, logx.Nop()).Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"", "",
		"", "",
		"Книга полна, невозможно добавить главу: c",
		"Книга полна, невозможно добавить главу: d",
		"Читаем книгу:",
		"a",
		"b",
	}, rec.Lines())
	assert.Equal(t, 2, rep.Stored)
	assert.Equal(t, 2, rep.Rejected)
	assert.Equal(t, 2, rep.Read)
}

func TestRunFailsOnInvalidBook(t *testing.T) {
	cfg := config.Default()
	cfg.Book.Capacity = 0

	var logs bytes.Buffer
	_, err := NewRunner(nil, logx.NewWriter(&logs, "info")).Run(cfg)
	assert.ErrorIs(t, err, book.ErrInvalidCapacity)
	assert.Contains(t, logs.String(), `"section":"book"`)
}

func TestRunNilConfig(t *testing.T) {
	_, err := NewRunner(nil, logx.Logger{}).Run(nil)
	assert.Error(t, err)
}

func TestBuildChain(t *testing.T) {
	var rec sink.Recorder
	head, err := BuildChain([]config.HandlerConfig{
		{Channel: "sms", Threshold: "3"},
		{Channel: "report", Threshold: "info"},
	}, &rec)
	require.NoError(t, err)
	require.Equal(t, 2, head.Len())
	assert.Equal(t, notify.Critical, head.Threshold())

	head.Notify("m", notify.Warning)
	assert.Equal(t, []string{"Уведомляем с помощью простого отчёта: m"}, rec.Lines())

	_, err = BuildChain([]config.HandlerConfig{{Channel: "fax", Threshold: "1"}}, nil)
	assert.ErrorIs(t, err, notify.ErrUnknownChannel)

	_, err = BuildChain([]config.HandlerConfig{{Channel: "email", Threshold: "x"}}, nil)
	assert.ErrorContains(t, err, "notifier.chain[0].threshold")

	head, err = BuildChain(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, head)
}
