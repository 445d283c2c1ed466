package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bissquit/statusdash/internal/domain"
)

// NotifierConfig contains notifier configuration.
type NotifierConfig struct {
	Targets           []string // webhook URLs
	BaseURL           string   // dashboard URL used for links, optional
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultNotifierConfig returns default notifier configuration.
func DefaultNotifierConfig() NotifierConfig {
	return NotifierConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Notifier renders status transitions and delivers them to every target.
type Notifier struct {
	config   NotifierConfig
	renderer *Renderer
	sender   Sender
	sleep    func(ctx context.Context, d time.Duration) bool
}

// NewNotifier creates a new Notifier.
func NewNotifier(config NotifierConfig, renderer *Renderer, sender Sender) *Notifier {
	defaults := DefaultNotifierConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = defaults.BackoffMultiplier
	}
	return &Notifier{
		config:   config,
		renderer: renderer,
		sender:   sender,
		sleep:    sleep,
	}
}

// Notify delivers change to all targets. Failed targets do not stop the
// others; their errors are joined.
func (n *Notifier) Notify(ctx context.Context, change domain.ServiceStatusChange) error {
	if len(n.config.Targets) == 0 {
		return nil
	}

	payload := NewChangePayload(change, n.config.BaseURL)
	subject, body, color, err := n.renderer.Render(payload)
	if err != nil {
		recordDelivery(outcomeFailed, 0)
		return fmt.Errorf("render notification: %w", err)
	}
	recordChange(change.NewStatus)

	var errs []error
	for _, target := range n.config.Targets {
		notification := Notification{
			To:      target,
			Subject: subject,
			Body:    body,
			Color:   color,
		}
		if err := n.deliver(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	slog.Info("status change notifications sent",
		"service_id", change.ServiceID,
		"targets", len(n.config.Targets),
		"failed", len(errs),
	)
	return errors.Join(errs...)
}

func (n *Notifier) deliver(ctx context.Context, notification Notification) error {
	var err error
	for attempt := 1; attempt <= n.config.MaxAttempts; attempt++ {
		start := time.Now()
		err = n.sender.Send(ctx, notification)
		took := time.Since(start)

		if err == nil {
			recordDelivery(outcomeSuccess, took)
			return nil
		}
		if !isRetryable(err) {
			recordDelivery(outcomeFailed, took)
			return err
		}
		if attempt < n.config.MaxAttempts {
			recordDelivery(outcomeRetry, took)
		}
		if attempt == n.config.MaxAttempts {
			break
		}

		backoff := n.calculateBackoff(attempt)
		slog.Warn("send failed, retrying",
			"attempt", attempt,
			"max_attempts", n.config.MaxAttempts,
			"backoff", backoff,
			"error", err,
		)
		if !n.sleep(ctx, backoff) {
			recordDelivery(outcomeFailed, 0)
			return fmt.Errorf("send cancelled: %w", ctx.Err())
		}
	}

	recordDelivery(outcomeFailed, 0)
	return fmt.Errorf("max attempts exceeded: %w", err)
}

func (n *Notifier) calculateBackoff(attempt int) time.Duration {
	backoff := float64(n.config.InitialBackoff)
	for i := 1; i < attempt; i++ {
		backoff *= n.config.BackoffMultiplier
	}

	if backoff > float64(n.config.MaxBackoff) {
		backoff = float64(n.config.MaxBackoff)
	}
	return time.Duration(backoff)
}

// isRetryable checks if an error is retryable. Unknown errors are retried.
func isRetryable(err error) bool {
	var r interface{ IsRetryable() bool }
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
