package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/app/repository"
	"github.com/veissa/tiredOfLife/internal/db"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	producerRepo repository.ProducerRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	revoker      *fakeRevoker
	auth         AuthService
	producers    ProducerService
	products     ProductService
	customers    CustomerService
	pickups      PickupService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:           testDB,
		userRepo:     repository.NewUserRepository(testDB),
		producerRepo: repository.NewProducerRepository(testDB),
		customerRepo: repository.NewCustomerRepository(testDB),
		productRepo:  repository.NewProductRepository(testDB),
		revoker:      &fakeRevoker{revoked: map[string]time.Duration{}},
	}
	env.auth = NewAuthService(testDB, env.userRepo, env.producerRepo, env.customerRepo, testJWTSecret, 24*time.Hour, env.revoker)
	env.producers = NewProducerService(env.producerRepo)
	env.products = NewProductService(env.productRepo, env.producerRepo)
	env.customers = NewCustomerService(env.customerRepo)
	env.pickups = NewPickupService(env.producerRepo)
	return env
}

// registerProducer creates a producer account with one shop.
func (e *testEnv) registerProducer(t *testing.T, email, shopName string) *PublicUser {
	t.Helper()
	user, _, err := e.auth.Register(RegisterInput{
		Email:    email,
		Password: "password123",
		Role:     model.RoleProducer,
		Profile: ProfileData{
			ShopName:    shopName,
			Description: "Local produce",
			Address:     "1 Farm Road",
		},
	})
	require.NoError(t, err)
	return user
}

type fakeRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[token] = ttl
	return nil
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
