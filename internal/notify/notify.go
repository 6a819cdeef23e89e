// Package notify delivers best-effort push messages to members. Delivery
// runs on a worker pool so callers never wait for the push service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notify.go -destination=mock_notify.go -package=notify

const (
	enqueueTimeout = 100 * time.Millisecond
	sendTimeout    = 10 * time.Second
)

type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID int) (string, error)
}

type Notifier interface {
	Notify(userID int, msg Message)
}

type Dispatcher struct {
	store  SubscriptionStore
	sender Sender
	pool   WorkerPoolI
}

func NewDispatcher(store SubscriptionStore, sender Sender, pool WorkerPoolI) *Dispatcher {
	return &Dispatcher{
		store:  store,
		sender: sender,
		pool:   pool,
	}
}

// Notify queues msg for userID. It never fails: a full queue or a failed
// delivery is only logged.
func (d *Dispatcher) Notify(userID int, msg Message) {
	jobID := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	err := d.pool.AddTask(ctx, func() error {
		return d.deliver(jobID, userID, msg)
	})
	if err != nil {
		zap.L().Warn("notification dropped", zap.String("job", jobID), zap.Int("userID", userID), zap.Error(err))
	}
}

func (d *Dispatcher) deliver(jobID string, userID int, msg Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	subscription, err := d.store.GetSubscription(ctx, userID)
	if err != nil {
		return fmt.Errorf("job %s: load subscription: %w", jobID, err)
	}
	if subscription == "" {
		zap.L().Debug("user has no push subscription", zap.String("job", jobID), zap.Int("userID", userID))
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("job %s: encode message: %w", jobID, err)
	}
	if err := d.sender.Send(ctx, subscription, payload); err != nil {
		return fmt.Errorf("job %s: user %d: %w", jobID, userID, err)
	}
	zap.L().Debug("notification sent", zap.String("job", jobID), zap.Int("userID", userID))
	return nil
}
