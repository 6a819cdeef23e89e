package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverKey = "SB-Mid-server-test"

func signed(n Notification) Notification {
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return n
}

func TestSignature(t *testing.T) {
	sig := Signature("SETOR-1", "200", "50000.00", serverKey)

	assert.Len(t, sig, 128)
	assert.Equal(t, sig, Signature("SETOR-1", "200", "50000.00", serverKey))
	assert.NotEqual(t, sig, Signature("SETOR-1", "200", "50001.00", serverKey))
}

func TestNotification_Verify(t *testing.T) {
	base := Notification{OrderID: "SETOR-17000000000001", StatusCode: "200", GrossAmount: "50000.00"}

	tests := []struct {
		name  string
		notif Notification
		want  bool
	}{
		{name: "Correct signature", notif: signed(base), want: true},
		{
			name: "Amount tampered after signing",
			notif: func() Notification {
				n := signed(base)
				n.GrossAmount = "5000000.00"
				return n
			}(),
		},
		{name: "Missing signature", notif: base},
		{
			name: "Uppercase hex is rejected",
			notif: func() Notification {
				n := signed(base)
				n.SignatureKey = "AB" + n.SignatureKey[2:]
				return n
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notif.Verify(serverKey))
		})
	}
}

func TestNotification_Settled(t *testing.T) {
	for status, want := range map[string]bool{
		"settlement": true,
		"capture":    true,
		"pending":    false,
		"expire":     false,
		"deny":       false,
	} {
		assert.Equal(t, want, Notification{TransactionStatus: status}.Settled(), status)
	}
}

func TestOrderID(t *testing.T) {
	id, err := NewOrderID(time.UnixMilli(1700000000000))
	require.NoError(t, err)
	assert.Regexp(t, `^SETOR-1700000000000\d$`, id)
	assert.True(t, ValidOrderID(id))

	assert.False(t, ValidOrderID("SETOR-1700000000000"+wrongDigit(id)))
	assert.False(t, ValidOrderID("ORDER-17000000000001"))
	assert.False(t, ValidOrderID("SETOR-"))
}

func wrongDigit(id string) string {
	last := id[len(id)-1]
	return string('0' + (last-'0'+1)%10)
}
