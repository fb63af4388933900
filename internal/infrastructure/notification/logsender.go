package notification

import (
	"context"

	appnotification "sokogate/internal/application/notification"
	"sokogate/internal/shared/logger"
)

// LogSender writes notification events to the application log. It is the
// default sender when email delivery is disabled.
type LogSender struct {
	logger logger.Interface
}

func NewLogSender(logger logger.Interface) *LogSender {
	return &LogSender{logger: logger.Named("notification")}
}

func (s *LogSender) Send(_ context.Context, eventType appnotification.EventType, recipient string, payload map[string]any) {
	fields := make([]any, 0, 2*len(payload)+4)
	fields = append(fields, "event", string(eventType), "recipient", recipient)
	for k, v := range payload {
		fields = append(fields, k, v)
	}
	s.logger.Infow("notification event", fields...)
}
