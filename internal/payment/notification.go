// Package payment holds the payment gateway wire types and the checks run
// on its webhook deliveries.
package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

const (
	StatusSettlement = "settlement"
	StatusCapture    = "capture"
)

// Notification is the webhook body sent by the gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	CustomField1      string `json:"custom_field1"`
	CustomField2      string `json:"custom_field2"`
}

// Signature is hex(sha512(orderID + statusCode + grossAmount + serverKey)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (n Notification) Verify(serverKey string) bool {
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) == 1
}

// Settled reports whether the money has actually arrived.
func (n Notification) Settled() bool {
	return n.TransactionStatus == StatusSettlement || n.TransactionStatus == StatusCapture
}
