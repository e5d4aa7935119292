package mail

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/logutils"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	logutils.Log.WithFields(logutils.Fields{
		"id":      id,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("email delivery skipped (log provider)")
	logutils.Log.Debug(msg.HTML)
	return id, nil
}
