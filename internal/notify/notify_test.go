package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type rejectingPool struct{}

func (rejectingPool) AddTask(context.Context, Task) error { return context.DeadlineExceeded }
func (rejectingPool) Close()                              {}

func TestDispatcher_Notify(t *testing.T) {
	const subscription = `{"endpoint":"https://push.example/abc","keys":{"auth":"a","p256dh":"b"}}`
	msg := Message{Title: "Pinjaman disetujui", Body: "Pinjaman Anda sebesar Rp 3.000.000 telah disetujui", URL: "/loans"}

	tests := []struct {
		name        string
		prepareMock func(store *MockSubscriptionStore, sender *MockSender)
	}{
		{
			name: "Sends to the stored subscription",
			prepareMock: func(store *MockSubscriptionStore, sender *MockSender) {
				store.EXPECT().GetSubscription(gomock.Any(), 7).Return(subscription, nil)
				sender.EXPECT().Send(gomock.Any(), subscription, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, payload []byte) error {
						var got Message
						assert.NoError(t, json.Unmarshal(payload, &got))
						assert.Equal(t, msg, got)
						return nil
					})
			},
		},
		{
			name: "No subscription means nothing to send",
			prepareMock: func(store *MockSubscriptionStore, sender *MockSender) {
				store.EXPECT().GetSubscription(gomock.Any(), 7).Return("", nil)
			},
		},
		{
			name: "Store failure is swallowed",
			prepareMock: func(store *MockSubscriptionStore, sender *MockSender) {
				store.EXPECT().GetSubscription(gomock.Any(), 7).Return("", errors.New("database error"))
			},
		},
		{
			name: "Push failure is swallowed",
			prepareMock: func(store *MockSubscriptionStore, sender *MockSender) {
				store.EXPECT().GetSubscription(gomock.Any(), 7).Return(subscription, nil)
				sender.EXPECT().Send(gomock.Any(), subscription, gomock.Any()).Return(ErrSubscriptionGone)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := NewMockSubscriptionStore(ctrl)
			sender := NewMockSender(ctrl)
			tt.prepareMock(store, sender)

			pool := NewWorkerPool(1)
			d := NewDispatcher(store, sender, pool)
			d.Notify(7, msg)
			pool.Close()
		})
	}
}

func TestDispatcher_NotifyQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := NewDispatcher(NewMockSubscriptionStore(ctrl), NewMockSender(ctrl), rejectingPool{})

	assert.NotPanics(t, func() {
		d.Notify(7, Message{Title: "x"})
	})
}
