package service

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/bumdes/internal/notify"
	"github.com/GlebRadaev/bumdes/internal/pg"
	"github.com/GlebRadaev/bumdes/internal/repo"
	"github.com/GlebRadaev/bumdes/internal/service/paymentservice"
	pkgauth "github.com/GlebRadaev/bumdes/pkg/auth"
	"github.com/GlebRadaev/bumdes/pkg/clients"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	repos := repo.New(mockDB, pg.NewMockTXManager(ctrl))
	services := New(repos, Deps{
		Hash:      pkgauth.NewMockHashServiceInterface(ctrl),
		JWT:       pkgauth.NewMockJWTServiceInterface(ctrl),
		TokenTTL:  time.Hour,
		Notifier:  notify.NewMockNotifier(ctrl),
		Snap:      clients.NewMockSnapClientI(ctrl),
		ServerKey: "server-key",
	})

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.ProductService)
	assert.NotNil(t, services.OrderService)
	assert.NotNil(t, services.LoanService)
	assert.NotNil(t, services.SavingsService)
	assert.NotNil(t, services.MemberService)
	assert.NotNil(t, services.AdminService)
	assert.IsType(t, &paymentservice.Service{}, services.PaymentService)
}
