/*
Package notify formats and delivers request lifecycle notifications.

PURPOSE:
  Produces human-readable messages for submitted/approved/denied events.
  Delivery is best-effort by contract: a failure here is logged by the
  caller and never blocks or rolls back the underlying state transition.

  The default implementation logs the rendered message instead of sending
  mail. Wiring a real provider (SendGrid, SES) means implementing
  engine.Notifier with the same templates.
*/
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/pto-center/engine"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Body    string
}

// Render produces the employee-facing message for an event.
func Render(event engine.Event, employee engine.Employee, req engine.Request) Message {
	dates := fmt.Sprintf("%s to %s", req.Start, req.End)
	switch event {
	case engine.EventSubmitted:
		return Message{
			Subject: "PTO Request Submitted",
			Body: join(
				fmt.Sprintf("Hello %s,", employee.Name),
				"Your PTO request has been submitted successfully.",
				fmt.Sprintf("Reason: %s", req.Reason),
				fmt.Sprintf("Dates: %s", dates),
				"Status: Pending Review",
				"You will receive an update once your manager reviews the request.",
			),
		}
	case engine.EventApproved:
		return Message{
			Subject: "PTO Request Approved",
			Body: join(
				fmt.Sprintf("Hello %s,", employee.Name),
				"Great news! Your PTO request has been approved.",
				fmt.Sprintf("Reason: %s", req.Reason),
				fmt.Sprintf("Dates: %s", dates),
				"Please coordinate with your team for coverage during your absence.",
			),
		}
	case engine.EventDenied:
		return Message{
			Subject: "PTO Request Status Update",
			Body: join(
				fmt.Sprintf("Hello %s,", employee.Name),
				"We regret to inform you that your PTO request has been denied.",
				fmt.Sprintf("Reason: %s", req.Reason),
				fmt.Sprintf("Dates: %s", dates),
				"Please contact your manager to discuss alternative dates.",
			),
		}
	default:
		return Message{
			Subject: "PTO Request Update",
			Body:    fmt.Sprintf("Request %s: %s", req.ID, event),
		}
	}
}

// RenderManagerCopy produces the manager-facing message for a new
// submission.
func RenderManagerCopy(employee engine.Employee, req engine.Request) Message {
	return Message{
		Subject: "PTO Request Submitted",
		Body: join(
			"A new PTO request requires your review:",
			fmt.Sprintf("Employee: %s", employee.Name),
			fmt.Sprintf("Department: %s", department(employee)),
			fmt.Sprintf("Reason: %s", req.Reason),
			fmt.Sprintf("Dates: %s to %s", req.Start, req.End),
		),
	}
}

func department(e engine.Employee) string {
	if e.Department == "" {
		return "Operations"
	}
	return e.Department
}

func join(lines ...string) string {
	return strings.Join(lines, "\n")
}

// =============================================================================
// LOG SINK - Default implementation
// =============================================================================

// LogNotifier renders messages and writes them to the structured log.
type LogNotifier struct {
	Log *zap.Logger
}

var _ engine.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event engine.Event, employee engine.Employee, req engine.Request) error {
	msg := Render(event, employee, req)
	n.Log.Info("notification",
		zap.String("event", string(event)),
		zap.String("employee", employee.Name),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))

	if event == engine.EventSubmitted {
		mgr := RenderManagerCopy(employee, req)
		n.Log.Info("notification",
			zap.String("event", string(event)),
			zap.String("recipient", "manager"),
			zap.String("subject", mgr.Subject),
			zap.String("body", mgr.Body))
	}
	return nil
}
