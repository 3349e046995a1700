package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/veissa/tiredOfLife/internal/app/model"
	"github.com/veissa/tiredOfLife/internal/db"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hashed", Role: role}
	require.NoError(t, NewUserRepository(testDB).Create(user))
	return user
}

func createTestProducer(t *testing.T, testDB *gorm.DB, user *model.User, shopName string) *model.Producer {
	t.Helper()
	producer := &model.Producer{
		UserID:      user.ID,
		ShopName:    shopName,
		Description: "Fresh from the farm",
		Address:     "1 rue des Champs",
		IsActive:    true,
	}
	require.NoError(t, NewProducerRepository(testDB).Create(producer))
	return producer
}

func createTestProduct(t *testing.T, testDB *gorm.DB, producer *model.Producer, name string, available bool) *model.Product {
	t.Helper()
	product := &model.Product{
		ProducerID:  producer.ID,
		Name:        name,
		Price:       decimal.RequireFromString("4.50"),
		Stock:       10,
		Category:    "Légumes",
		Unit:        "kg",
		IsAvailable: available,
	}
	require.NoError(t, NewProductRepository(testDB).Create(product))
	return product
}
