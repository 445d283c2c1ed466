package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retryableErr struct{ retry bool }

func (e *retryableErr) Error() string     { return "send failed" }
func (e *retryableErr) IsRetryable() bool { return e.retry }

type mockSender struct {
	mu    sync.Mutex
	sent  []Notification
	calls map[string]int
	errs  map[string][]error // per target, consumed in order
}

func (m *mockSender) Send(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[n.To]++
	if queue := m.errs[n.To]; len(queue) > 0 {
		m.errs[n.To] = queue[1:]
		if queue[0] != nil {
			return queue[0]
		}
	}
	m.sent = append(m.sent, n)
	return nil
}

func testChange() domain.ServiceStatusChange {
	old := domain.ServiceStatusOperational
	return domain.ServiceStatusChange{
		ID:          "c1",
		ServiceID:   7,
		ServiceName: "API",
		OldStatus:   &old,
		NewStatus:   domain.ServiceStatusMajorOutage,
		ObservedAt:  time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func newTestNotifier(t *testing.T, sender Sender, targets ...string) *Notifier {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	n := NewNotifier(NotifierConfig{
		Targets:        targets,
		BaseURL:        "https://status.example.com",
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	}, r, sender)
	n.sleep = func(context.Context, time.Duration) bool { return true }
	return n
}

func TestNotifier_Notify(t *testing.T) {
	sender := &mockSender{}
	n := newTestNotifier(t, sender, "https://a", "https://b")

	require.NoError(t, n.Notify(context.Background(), testChange()))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "https://a", sender.sent[0].To)
	assert.Equal(t, "https://b", sender.sent[1].To)
	assert.Equal(t, "[Degraded] API: Major Outage", sender.sent[0].Subject)
	assert.Equal(t, "#d0021b", sender.sent[0].Color)
	assert.Contains(t, sender.sent[0].Body, "https://status.example.com/services/7")
}

func TestNotifier_NoTargets(t *testing.T) {
	sender := &mockSender{}
	n := newTestNotifier(t, sender)

	require.NoError(t, n.Notify(context.Background(), testChange()))
	assert.Empty(t, sender.sent)
}

func TestNotifier_RetriesRetryableErrors(t *testing.T) {
	sender := &mockSender{errs: map[string][]error{
		"https://a": {&retryableErr{retry: true}, &retryableErr{retry: true}},
	}}
	n := newTestNotifier(t, sender, "https://a")

	require.NoError(t, n.Notify(context.Background(), testChange()))
	assert.Equal(t, 3, sender.calls["https://a"])
	assert.Len(t, sender.sent, 1)
}

func TestNotifier_GivesUpAfterMaxAttempts(t *testing.T) {
	sender := &mockSender{errs: map[string][]error{
		"https://a": {&retryableErr{retry: true}, &retryableErr{retry: true}, &retryableErr{retry: true}},
	}}
	n := newTestNotifier(t, sender, "https://a", "https://b")

	err := n.Notify(context.Background(), testChange())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max attempts exceeded")
	assert.Equal(t, 3, sender.calls["https://a"])

	// The other target still receives the message.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://b", sender.sent[0].To)
}

func TestNotifier_PermanentErrorNotRetried(t *testing.T) {
	permanent := &retryableErr{retry: false}
	sender := &mockSender{errs: map[string][]error{"https://a": {permanent}}}
	n := newTestNotifier(t, sender, "https://a")

	err := n.Notify(context.Background(), testChange())
	require.Error(t, err)
	assert.True(t, errors.Is(err, permanent))
	assert.Equal(t, 1, sender.calls["https://a"])
}

func TestNotifier_CancelledDuringBackoff(t *testing.T) {
	sender := &mockSender{errs: map[string][]error{"https://a": {&retryableErr{retry: true}}}}
	n := newTestNotifier(t, sender, "https://a")
	n.sleep = func(context.Context, time.Duration) bool { return false }

	err := n.Notify(context.Background(), testChange())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send cancelled")
	assert.Equal(t, 1, sender.calls["https://a"])
}

func TestNotifier_CalculateBackoff(t *testing.T) {
	n := &Notifier{config: NotifierConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{100, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, n.calculateBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("unknown")))
	assert.True(t, isRetryable(&retryableErr{retry: true}))
	assert.False(t, isRetryable(&retryableErr{retry: false}))
}
