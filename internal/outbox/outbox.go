// Package outbox delivers queued emails. Rows are written by the
// repositories in the same transaction as the change that triggers them;
// the Dispatcher sends them later and retries failures.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/yukikurage/project-management-api/internal/config"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/logutils"
	"github.com/yukikurage/project-management-api/internal/mail"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

var (
	sentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_outbox_sent_total",
		Help: "Emails delivered by the outbox dispatcher",
	})
	failedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_outbox_failed_total",
		Help: "Failed email delivery attempts",
	})
)

// ErrDelivery wraps a provider failure. It is recorded on the row and never
// returned to an API caller.
var ErrDelivery = apierrors.New(apierrors.KindUpstreamDelivery, "email delivery failed")

// NewEmail builds a pending outbox row that is due immediately.
func NewEmail(to, subject, html string, now time.Time) *models.OutboundEmail {
	return &models.OutboundEmail{
		Recipient:     to,
		Subject:       subject,
		HTML:          html,
		Status:        models.EmailStatusPending,
		NextAttemptAt: now,
	}
}

// Result summarises one dispatch pass. Errors holds one ErrDelivery per
// failed attempt.
type Result struct {
	Sent    int
	Retried int
	Failed  int
	Errors  []error
}

type Dispatcher struct {
	repo        repository.OutboxRepository
	sender      mail.Sender
	from        string
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	now         func() time.Time

	mu sync.Mutex
}

func NewDispatcher(repo repository.OutboxRepository, sender mail.Sender, from string, cfg config.OutboxConfig) *Dispatcher {
	d := &Dispatcher{
		repo:        repo,
		sender:      sender,
		from:        from,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		now:         time.Now,
	}
	if d.batchSize <= 0 {
		d.batchSize = 20
	}
	if d.maxAttempts <= 0 {
		d.maxAttempts = 1
	}
	return d
}

// RunOnce delivers every due email in one batch. Per-email failures are
// recorded on the row; only store errors are returned.
func (d *Dispatcher) RunOnce(ctx context.Context) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result Result

	due, err := d.repo.ListDue(ctx, d.now(), d.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to list due emails: %w", err)
	}

	for _, email := range due {
		id, sendErr := d.sender.Send(ctx, mail.Message{
			From:    d.from,
			To:      email.Recipient,
			Subject: email.Subject,
			HTML:    email.HTML,
		})
		if sendErr == nil {
			if err := d.repo.MarkSent(ctx, email.ID, id, d.now()); err != nil {
				return result, fmt.Errorf("failed to mark email %d sent: %w", email.ID, err)
			}
			sentTotal.Inc()
			result.Sent++
			continue
		}

		failedTotal.Inc()
		deliveryErr := ErrDelivery.Wrap(sendErr)
		result.Errors = append(result.Errors, deliveryErr)
		attempts := email.Attempts + 1
		retry := attempts < d.maxAttempts
		next := d.now().Add(time.Duration(attempts) * d.retryDelay)

		entry := logutils.Log.WithError(deliveryErr).WithFields(logutils.Fields{
			"email_id": email.ID,
			"attempts": attempts,
		})
		if retry {
			entry.Warn("email delivery failed, will retry")
			result.Retried++
		} else {
			entry.Error("email delivery failed permanently")
			result.Failed++
		}

		if err := d.repo.MarkAttemptFailed(ctx, email.ID, attempts, deliveryErr.Error(), next, retry); err != nil {
			return result, fmt.Errorf("failed to record delivery failure for email %d: %w", email.ID, err)
		}
	}

	return result, nil
}

// Schedule registers the dispatcher on a new cron scheduler and starts it.
// Stop the returned scheduler on shutdown.
func (d *Dispatcher) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logutils.Log)),
		cron.SkipIfStillRunning(cron.PrintfLogger(logutils.Log)),
	))

	_, err := c.AddFunc(spec, func() {
		result, err := d.RunOnce(context.Background())
		if err != nil {
			logutils.Log.WithError(err).Error("outbox dispatch failed")
			return
		}
		if result.Sent+result.Retried+result.Failed > 0 {
			logutils.Log.WithFields(logutils.Fields{
				"sent":    result.Sent,
				"retried": result.Retried,
				"failed":  result.Failed,
			}).Info("outbox dispatch finished")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid outbox schedule %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
