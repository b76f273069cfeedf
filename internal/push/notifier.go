package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/store"
)

// Notifier periodically checks for reminder notifications to send: a due-now
// push per overdue reminder and one digest per day. The sent_notifications
// table keeps a tick from repeating either.
type Notifier struct {
	mu         sync.RWMutex
	service    *Service
	push       *store.PushStore
	reminders  *store.ReminderStore
	members    *store.MemberStore
	digestHour int
	interval   time.Duration
	logger     *slog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewNotifier(svc *Service, pushStore *store.PushStore, reminderStore *store.ReminderStore, memberStore *store.MemberStore, digestHour int, logger *slog.Logger) *Notifier {
	return &Notifier{
		service:    svc,
		push:       pushStore,
		reminders:  reminderStore,
		members:    memberStore,
		digestHour: digestHour,
		interval:   60 * time.Second,
		logger:     logger.With("component", "push"),
	}
}

// Start begins the notifier loop.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	ctx, n.cancel = context.WithCancel(ctx)
	n.done = make(chan struct{})
	n.mu.Unlock()

	go func() {
		defer close(n.done)
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n.tick(time.Now().UTC())
			}
		}
	}()
}

// Stop gracefully stops the notifier.
func (n *Notifier) Stop() {
	n.mu.RLock()
	cancel := n.cancel
	done := n.done
	n.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (n *Notifier) tick(now time.Time) {
	n.checkDueReminders(now)
	n.checkDailyDigest(now)
}

func (n *Notifier) checkDueReminders(now time.Time) {
	due, err := n.reminders.ListDueBefore(now)
	if err != nil {
		n.logger.Error("list due reminders", "error", err)
		return
	}

	for _, r := range due {
		// The due date is part of the reference so a recurring reminder's
		// next occurrence gets its own notification.
		refID := fmt.Sprintf("reminder-%d-%d", r.ID, r.DueDate.Unix())
		sent, err := n.push.WasSent(model.NotifTypeReminderDue, refID)
		if err != nil {
			n.logger.Error("check sent", "error", err)
			continue
		}
		if sent {
			continue
		}

		body := r.Title
		if r.AssigneeID != nil {
			if m, err := n.members.GetByID(*r.AssigneeID); err == nil && m != nil {
				body = fmt.Sprintf("%s (%s)", r.Title, m.Name)
			}
		}

		n.broadcast(Payload{
			Title: "Reminder Due",
			Body:  body,
			URL:   "/reminders",
			Tag:   fmt.Sprintf("reminder-%d", r.ID),
		})

		if err := n.push.RecordSent(model.NotifTypeReminderDue, refID); err != nil {
			n.logger.Error("record sent", "error", err)
		}
	}
}

func (n *Notifier) checkDailyDigest(now time.Time) {
	if now.Hour() != n.digestHour || now.Minute() != 0 {
		return
	}

	refID := fmt.Sprintf("digest-%s", now.Format("2006-01-02"))
	sent, err := n.push.WasSent(model.NotifTypeDailyDigest, refID)
	if err != nil || sent {
		return
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	due, err := n.reminders.ListDueBefore(endOfDay)
	if err != nil {
		n.logger.Error("list reminders for digest", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	body := fmt.Sprintf("%d reminders need attention today", len(due))
	if len(due) == 1 {
		body = fmt.Sprintf("Due today: %s", due[0].Title)
	}

	n.broadcast(Payload{
		Title: "Today at Home",
		Body:  body,
		URL:   "/reminders",
		Tag:   "daily-digest",
	})

	if err := n.push.RecordSent(model.NotifTypeDailyDigest, refID); err != nil {
		n.logger.Error("record sent", "error", err)
	}
}

// broadcast sends the payload to every subscription, pruning the ones the
// push service reports as gone.
func (n *Notifier) broadcast(payload Payload) {
	subs, err := n.push.List()
	if err != nil {
		n.logger.Error("list subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if err := n.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.push.DeleteByEndpoint(sub.Endpoint); err != nil {
					n.logger.Error("prune expired subscription", "error", err)
				}
			} else {
				n.logger.Error("send push", "endpoint", sub.Endpoint, "error", err)
			}
		}
	}
}
