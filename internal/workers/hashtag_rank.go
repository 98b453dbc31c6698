package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/metrics"
)

type hashtagRankWorker struct {
	TweetRepo domain.TweetRepository
	interval  time.Duration
	ch        chan int64
}

var _ domain.HashtagRankWorker = (*hashtagRankWorker)(nil)

const defaultRankInterval = 2 * time.Second

func NewHashtagRankWorker(tr domain.TweetRepository, interval time.Duration) *hashtagRankWorker {
	if interval <= 0 {
		interval = defaultRankInterval
	}
	return &hashtagRankWorker{
		TweetRepo: tr,
		interval:  interval,
		ch:        make(chan int64, 1024),
	}
}

// Notify drops the notification when the channel is full, the pending ones
// already guarantee a rebuild.
func (w *hashtagRankWorker) Notify(tweetID int64) {
	select {
	case w.ch <- tweetID:
	default:
		logrus.Debugf("HashtagRankWorker's channel is full, notification for tweet %d dropped", tweetID)
	}
}

// Start collects notifications and rebuilds the ranking at most once per
// interval. It returns when ctx is done.
func (w *hashtagRankWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := 0
	for {
		select {
		case <-w.ch:
			pending++
		case <-ticker.C:
			if pending > 0 {
				w.flush(ctx, pending)
				pending = 0
			}
		case <-ctx.Done():
			logrus.Info("shutting down HashtagRankWorker")
			return
		}
	}
}

func (w *hashtagRankWorker) flush(ctx context.Context, pending int) {
	rank, err := w.TweetRepo.RebuildHashtagRank(ctx)
	if err != nil {
		metrics.HashtagRankRebuildsTotal.WithLabelValues("error").Inc()
		logrus.Errorf("failed to rebuild hashtag rank after %d writes: %v", pending, err)
		return
	}
	metrics.HashtagRankRebuildsTotal.WithLabelValues("ok").Inc()
	logrus.Debugf("rebuilt hashtag rank with %d tags after %d writes", len(rank), pending)
}
