package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

//go:generate mockgen -source=webpush.go -destination=mock_webpush.go -package=notify

const pushTTL = 60 * 60 * 24

var ErrSubscriptionGone = errors.New("push subscription expired")

type Sender interface {
	Send(ctx context.Context, subscription string, payload []byte) error
}

type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
	// Subscriber is a contact e-mail or an https URL.
	Subscriber string
}

type WebPushSender struct {
	keys   VAPIDKeys
	client webpush.HTTPClient
}

func NewWebPushSender(keys VAPIDKeys, client webpush.HTTPClient) *WebPushSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebPushSender{keys: keys, client: client}
}

func (s *WebPushSender) Send(ctx context.Context, subscription string, payload []byte) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(subscription), &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.keys.Subscriber,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		TTL:             pushTTL,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return ErrSubscriptionGone
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("push service answered %d", resp.StatusCode)
	}
	return nil
}
