package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapClient_CreateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		expectErr bool
		wantToken string
	}{
		{
			name: "Token issued",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, transactionsPath, r.URL.Path)
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "server-key", user)
				assert.Empty(t, pass)

				var body SnapRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "SETOR-17000000000001", body.TransactionDetails.OrderID)
				assert.Equal(t, int64(50000), body.TransactionDetails.GrossAmount)
				assert.Equal(t, "7", body.CustomField1)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"token":"snap-token","redirect_url":"https://pay.example/snap"}`))
			},
			wantToken: "snap-token",
		},
		{
			name: "Gateway rejects request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error_messages":["gross_amount is required"]}`))
			},
			expectErr: true,
		},
		{
			name: "Empty token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{}`))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewSnapClient(server.URL+"/", "server-key")
			resp, err := client.CreateTransaction(context.Background(), SnapRequest{
				TransactionDetails: TransactionDetails{OrderID: "SETOR-17000000000001", GrossAmount: 50000},
				CustomField1:       "7",
			})

			if tt.expectErr {
				assert.ErrorIs(t, err, ErrGateway)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, resp.Token)
			}
		})
	}
}
