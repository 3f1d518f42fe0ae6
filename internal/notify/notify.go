package notify

import (
	"sync"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

// LogNotifier writes notices to the application log. Used when no page
// surface is attached, e.g. in the demo command.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(notice models.Notice) {
	switch notice.Kind {
	case models.NoticeError:
		n.logger.Error("Notice ", "message ", notice.Message)
	case models.NoticeWarning:
		n.logger.Warn("Notice ", "message ", notice.Message)
	default:
		n.logger.Info("Notice ", "message ", notice.Message)
	}
}

// FeedNotifier keeps a bounded in-memory feed of notices for the console
// page to poll. Older notices are dropped once the limit is reached.
type FeedNotifier struct {
	mu      sync.Mutex
	notices []models.Notice
	limit   int
}

func NewFeedNotifier(limit int) *FeedNotifier {
	if limit <= 0 {
		limit = 64
	}
	return &FeedNotifier{limit: limit}
}

func (n *FeedNotifier) Notify(notice models.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	if len(n.notices) > n.limit {
		n.notices = n.notices[len(n.notices)-n.limit:]
	}
}

// Drain returns the queued notices and empties the feed.
func (n *FeedNotifier) Drain() []models.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	drained := n.notices
	n.notices = nil
	return drained
}

// Fanout forwards every notice to all attached surfaces.
type Fanout struct {
	notifiers []models.Notifier
}

func NewFanout(notifiers ...models.Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (n *Fanout) Notify(notice models.Notice) {
	for _, notifier := range n.notifiers {
		notifier.Notify(notice)
	}
}

var (
	_ models.Notifier = (*LogNotifier)(nil)
	_ models.Notifier = (*FeedNotifier)(nil)
	_ models.Notifier = (*Fanout)(nil)
)
