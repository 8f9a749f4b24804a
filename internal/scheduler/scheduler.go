package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/flivergg/Bot-Weather/internal/domain"
	"github.com/flivergg/Bot-Weather/internal/format"
	"github.com/flivergg/Bot-Weather/internal/store"
	"github.com/flivergg/Bot-Weather/internal/weather"
)

// Sender is a minimal interface the scheduler needs to send a text message.
// telegram.Router implements it (method: SendMessage).
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// WeatherAPI is the slice of the weather client the scheduler uses.
type WeatherAPI interface {
	CurrentByCity(ctx context.Context, city string) (*weather.Current, error)
}

// Scheduler polls the store once per interval and dispatches the daily
// notifications to the users whose slot matches the current minute.
// Ticks are not aligned to wall-clock minute boundaries, and a delayed
// or skipped tick drops that minute's cohort; there is no backfill.
type Scheduler struct {
	repo      store.Repo
	log       *zap.Logger
	sender    Sender
	wx        WeatherAPI
	interval  time.Duration
	sendDelay time.Duration
}

// New creates a Scheduler. interval should normally be one minute to
// cover every offered notification slot.
func New(repo store.Repo, log *zap.Logger, sender Sender, wx WeatherAPI, interval, sendDelay time.Duration) *Scheduler {
	return &Scheduler{
		repo:      repo,
		log:       log,
		sender:    sender,
		wx:        wx,
		interval:  interval,
		sendDelay: sendDelay,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx, time.Now())
		}
	}
}

// tick performs one cycle: label the minute, query due users, send
// sequentially with pacing. Per-user failures are counted and skipped.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	label := domain.MinuteLabel(now)

	users, err := s.repo.UsersDueAt(ctx, label)
	if err != nil {
		s.log.Error("query due users failed", zap.Error(err), zap.String("minute", label))
		return
	}
	if len(users) == 0 {
		return
	}

	var sent, skipped int
	for i, u := range users {
		if i > 0 && s.sendDelay > 0 {
			time.Sleep(s.sendDelay)
		}
		if u.City == "" {
			skipped++
			continue
		}
		w, err := s.wx.CurrentByCity(ctx, u.City)
		if err != nil {
			skipped++
			s.log.Warn("weather fetch failed",
				zap.Int64("userID", u.UserID),
				zap.String("city", u.City),
				zap.Error(err))
			continue
		}
		if err := s.sender.SendMessage(u.UserID, format.MorningText(w)); err != nil {
			skipped++
			s.log.Warn("notification send failed",
				zap.Int64("userID", u.UserID),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.log.Info("notification tick done",
		zap.String("minute", label),
		zap.Int("due", len(users)),
		zap.Int("sent", sent),
		zap.Int("skipped", skipped))
}
