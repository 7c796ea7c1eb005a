package tls

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiryMonitor re-evaluates the serving certificate on a cron schedule,
// refreshing the expiry gauge and warning when renewal is due.
type ExpiryMonitor struct {
	reloader    *CertificateReloader
	observer    ReloadObserver
	schedule    string
	warningDays int
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewExpiryMonitor creates a monitor for reloader. observer may be nil.
func NewExpiryMonitor(reloader *CertificateReloader, observer ReloadObserver, schedule string, warningDays int, logger *slog.Logger) *ExpiryMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpiryMonitor{
		reloader:    reloader,
		observer:    observer,
		schedule:    schedule,
		warningDays: warningDays,
		logger:      logger.With("component", "tls.expiry"),
		now:         time.Now,
		cron:        cron.New(),
	}
}

// Start schedules the check and stops it when ctx is cancelled. An empty
// schedule disables the monitor.
//
// Common schedules:
//   - "0 * * * *"    hourly
//   - "0 3 * * *"    daily at 3 AM
func (m *ExpiryMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schedule == "" {
		m.logger.Info("certificate expiry schedule not configured, skipping monitor")
		return nil
	}
	if m.running {
		return fmt.Errorf("expiry monitor already running")
	}

	if _, err := cron.ParseStandard(m.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", m.schedule, err)
	}
	if _, err := m.cron.AddFunc(m.schedule, m.Check); err != nil {
		return fmt.Errorf("failed to schedule expiry check: %w", err)
	}

	m.cron.Start()
	m.running = true

	m.logger.Info("certificate expiry monitor started",
		"schedule", m.schedule,
		"warning_days", m.warningDays,
	)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()

	return nil
}

// Check evaluates the current certificate once.
func (m *ExpiryMonitor) Check() {
	leaf := m.reloader.Leaf()
	if leaf == nil {
		m.logger.Warn("no certificate loaded")
		return
	}

	subject := SubjectName(leaf)
	if m.observer != nil {
		m.observer.SetCertificateExpiry(subject, leaf.NotAfter)
	}

	now := m.now()
	if err := ValidateX509Certificate(leaf, now); err != nil {
		m.logger.Error("serving certificate is not valid", "subject", subject, "error", err)
		return
	}

	days, warning := CheckCertificateExpiration(leaf, now, m.warningDays)
	if warning != "" {
		m.logger.Warn("certificate expiring soon",
			"subject", subject,
			"expires_in_days", days,
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
		return
	}

	m.logger.Debug("certificate expiry checked", "subject", subject, "expires_in_days", days)
}

// Stop stops the schedule and waits for a running check to finish.
func (m *ExpiryMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		<-m.cron.Stop().Done()
		m.running = false
		m.logger.Info("certificate expiry monitor stopped")
	}
}

// IsRunning reports whether the schedule is active.
func (m *ExpiryMonitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// NextRun returns the next scheduled check, or nil when not scheduled.
func (m *ExpiryMonitor) NextRun() *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
