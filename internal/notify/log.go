package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier writes events to the process log. Used as the default
// notifier and in tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Publish(ctx context.Context, event Event) error {
	logrus.WithFields(logrus.Fields{
		"type":     event.Type,
		"document": event.DocumentID,
		"user":     event.UserID,
	}).Info("collab event")
	return nil
}
