package manager

import "log/slog"

// LoggingObserver is a simple observer that logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	if event.Err != nil {
		lo.logger.Warn("registry_event",
			"event", event.Type,
			"table", event.Table,
			"load_id", event.LoadID,
			"error", event.Err,
		)
		return
	}
	lo.logger.Info("registry_event",
		"event", event.Type,
		"table", event.Table,
		"load_id", event.LoadID,
		"timestamp", event.Timestamp,
	)
}
