package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/pto-center/engine"
	"github.com/warp/pto-center/notify"
)

func sampleEmployee() engine.Employee {
	return engine.Employee{
		ID:   "e1",
		Name: "Whitfield, Dana",
		Type: engine.FullTime,
	}
}

func sampleRequest() engine.Request {
	return engine.Request{
		ID:         "r1",
		EmployeeID: "e1",
		Reason:     "Family vacation",
		Start:      engine.NewDate(2024, time.March, 4),
		End:        engine.NewDate(2024, time.March, 8),
		Status:     engine.StatusPending,
	}
}

func TestRender_PerEventTemplates(t *testing.T) {
	emp, req := sampleEmployee(), sampleRequest()

	tests := []struct {
		event   engine.Event
		subject string
		phrase  string
	}{
		{engine.EventSubmitted, "PTO Request Submitted", "submitted successfully"},
		{engine.EventApproved, "PTO Request Approved", "has been approved"},
		{engine.EventDenied, "PTO Request Status Update", "has been denied"},
	}
	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			msg := notify.Render(tt.event, emp, req)
			assert.Equal(t, tt.subject, msg.Subject)
			assert.Contains(t, msg.Body, "Hello Whitfield, Dana,")
			assert.Contains(t, msg.Body, tt.phrase)
			assert.Contains(t, msg.Body, "Family vacation")
			assert.Contains(t, msg.Body, "2024-03-04 to 2024-03-08")
		})
	}
}

func TestRenderManagerCopy_IncludesDepartmentFallback(t *testing.T) {
	msg := notify.RenderManagerCopy(sampleEmployee(), sampleRequest())

	assert.Equal(t, "PTO Request Submitted", msg.Subject)
	assert.Contains(t, msg.Body, "requires your review")
	assert.Contains(t, msg.Body, "Department: Operations")
}

func TestLogNotifier_NeverErrors(t *testing.T) {
	n := notify.NewLogNotifier(zap.NewNop())

	for _, event := range []engine.Event{engine.EventSubmitted, engine.EventApproved, engine.EventDenied} {
		err := n.Notify(context.Background(), event, sampleEmployee(), sampleRequest())
		require.NoError(t, err)
	}
}
