package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/config"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/mail"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/testutil"
)

type fakeSender struct {
	fail map[string]bool
	sent []mail.Message
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) (string, error) {
	if f.fail[msg.To] {
		return "", errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return "id-" + msg.To, nil
}

func TestDispatcher_RunOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewOutboxRepository(db)

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Enqueue(ctx, NewEmail("ok@example.com", "Hello", "<p>ok</p>", now)))
	require.NoError(t, repo.Enqueue(ctx, NewEmail("bad@example.com", "Hello", "<p>bad</p>", now)))
	require.NoError(t, repo.Enqueue(ctx, NewEmail("later@example.com", "Hello", "<p>later</p>", now.Add(time.Hour))))

	sender := &fakeSender{fail: map[string]bool{"bad@example.com": true}}
	d := NewDispatcher(repo, sender, "noreply@example.com", config.OutboxConfig{
		BatchSize:   10,
		MaxAttempts: 2,
		RetryDelay:  time.Minute,
	})
	d.now = func() time.Time { return now }

	sentBefore := promtestutil.ToFloat64(sentTotal)
	failedBefore := promtestutil.ToFloat64(failedTotal)

	result, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Retried)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], ErrDelivery)
	assert.Equal(t, apierrors.KindUpstreamDelivery, apierrors.KindOf(result.Errors[0]))
	assert.ErrorContains(t, result.Errors[0], "mailbox unavailable")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "noreply@example.com", sender.sent[0].From)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(sentTotal)-sentBefore)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(failedTotal)-failedBefore)

	var ok models.OutboundEmail
	require.NoError(t, db.Where("recipient = ?", "ok@example.com").First(&ok).Error)
	assert.Equal(t, models.EmailStatusSent, ok.Status)
	assert.Equal(t, "id-ok@example.com", ok.ProviderMessageID)
	assert.NotNil(t, ok.SentAt)

	var bad models.OutboundEmail
	require.NoError(t, db.Where("recipient = ?", "bad@example.com").First(&bad).Error)
	assert.Equal(t, models.EmailStatusPending, bad.Status)
	assert.Equal(t, 1, bad.Attempts)
	assert.Equal(t, "email delivery failed: mailbox unavailable", bad.LastError)
	assert.True(t, bad.NextAttemptAt.Equal(now.Add(time.Minute)))

	// Not due yet: nothing happens.
	result, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)

	// Second failure exhausts the attempts.
	d.now = func() time.Time { return now.Add(2 * time.Minute) }
	result, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Sent+result.Retried)
	require.Len(t, result.Errors, 1)

	require.NoError(t, db.First(&bad, bad.ID).Error)
	assert.Equal(t, models.EmailStatusFailed, bad.Status)
	assert.Equal(t, 2, bad.Attempts)
}

func TestDispatcher_ScheduleRejectsBadSpec(t *testing.T) {
	d := NewDispatcher(nil, &fakeSender{}, "noreply@example.com", config.OutboxConfig{})
	_, err := d.Schedule("not a schedule")
	assert.Error(t, err)

	c, err := d.Schedule("@every 1h")
	require.NoError(t, err)
	c.Stop()
}
