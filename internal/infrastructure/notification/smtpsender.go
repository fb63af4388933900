package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"

	appnotification "sokogate/internal/application/notification"
	"sokogate/internal/shared/config"
	"sokogate/internal/shared/goroutine"
	"sokogate/internal/shared/logger"
)

var eventSubjects = map[appnotification.EventType]string{
	appnotification.EventSubscriptionCreated:   "Your subscription is active",
	appnotification.EventSubscriptionPaused:    "Your subscription is paused",
	appnotification.EventSubscriptionResumed:   "Your subscription has resumed",
	appnotification.EventSubscriptionCancelled: "Your subscription has been cancelled",
	appnotification.EventBillingSucceeded:      "Payment received",
	appnotification.EventBillingFailed:         "Payment failed",
	appnotification.EventPreOrderConfirmed:     "Pre-order confirmed",
	appnotification.EventPreOrderCancelled:     "Pre-order cancelled",
}

// SMTPSender delivers notification events by email. Delivery happens on a
// background goroutine so callers never block on the SMTP round trip.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   logger.Interface
}

func NewSMTPSender(cfg *config.EmailConfig, logger logger.Interface) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		logger:   logger.Named("notification"),
	}
}

func (s *SMTPSender) Send(_ context.Context, eventType appnotification.EventType, recipient string, payload map[string]any) {
	if recipient == "" {
		s.logger.Warnw("dropping notification without recipient", "event", string(eventType))
		return
	}

	subject, ok := eventSubjects[eventType]
	if !ok {
		subject = string(eventType)
	}
	body := renderBody(eventType, payload)

	goroutine.SafeGo(s.logger, "notification.send", func() {
		m := gomail.NewMessage()
		m.SetAddressHeader("From", s.from, s.fromName)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			s.logger.Errorw("failed to send notification email",
				"event", string(eventType),
				"recipient", recipient,
				"error", err,
			)
			return
		}
		s.logger.Debugw("notification email sent", "event", string(eventType), "recipient", recipient)
	})
}

func renderBody(eventType appnotification.EventType, payload map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event: %s\n\n", eventType)

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, payload[k])
	}
	return b.String()
}
