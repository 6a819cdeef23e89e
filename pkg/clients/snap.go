package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=snap.go -destination=mock_snap.go -package=clients

const (
	timeout          = time.Second * 15
	transactionsPath = "/snap/v1/transactions"
)

var ErrGateway = errors.New("payment gateway error")

type SnapClientI interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error)
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	CustomField1       string             `json:"custom_field1,omitempty"`
	CustomField2       string             `json:"custom_field2,omitempty"`
}

type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapError struct {
	ErrorMessages []string `json:"error_messages"`
}

type SnapClient struct {
	client *resty.Client
}

func NewSnapClient(baseURL, serverKey string) *SnapClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(serverKey, "").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &SnapClient{client: client}
}

func (c *SnapClient) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	var result SnapResponse
	var apiErr snapError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode(), strings.Join(apiErr.ErrorMessages, "; "))
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: empty snap token", ErrGateway)
	}
	return &result, nil
}
