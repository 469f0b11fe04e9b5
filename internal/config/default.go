package config

// Default is the built-in demonstration used when no config file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Output:  OutputStdout,
		Calculator: CalculatorConfig{Steps: []CalculatorStep{
			{Action: ActionExecute, X: 2, Y: 2},
			{Action: ActionSet, Operation: "add"},
			{Action: ActionExecute, X: 2, Y: 2},
			{Action: ActionSet, Operation: "subtract"},
			{Action: ActionExecute, X: 5, Y: 3},
			{Action: ActionClear},
			{Action: ActionExecute, X: 4, Y: 4},
		}},
		Notifier: NotifierConfig{
			Chain: []HandlerConfig{
				{Channel: "report", Threshold: "info"},
				{Channel: "email", Threshold: "warning"},
				{Channel: "sms", Threshold: "critical"},
			},
			Messages: []MessageConfig{
				{Text: "Всё в порядке", Level: "info"},
				{Text: "Что-то пошло не так", Level: "warning"},
				{Text: "У нас серьёзная проблема!", Level: "critical"},
			},
		},
		Book: BookConfig{
			Capacity: 5,
			Chapters: []string{
				"Глава 1: Пролог",
				"Глава 2: Герой отправляется в путешествие.",
				"Глава 3: Неожиданная встреча.",
				"Глава 4: Битва с драконом.",
				"Глава 5: Возвращение домой.",
			},
		},
	}
}
