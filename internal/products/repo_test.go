package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.StaffProfile{},
		&models.ClientProfile{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderLineVariant{},
		&models.Product{},
		&models.ProductCode{},
		&models.Work{},
		&models.WorkImage{},
		&models.Statement{},
	))
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB) *models.Order {
	t.Helper()

	user := &models.User{Username: uuid.NewString(), PasswordHash: "x", Kind: enums.UserKindClient, IsActive: true}
	require.NoError(t, conn.Create(user).Error)
	client := &models.ClientProfile{UserID: user.ID, FullName: "Test Client"}
	require.NoError(t, conn.Create(client).Error)
	order := &models.Order{ClientID: client.ID, Status: enums.OrderStatusInProgress}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestCreateForcesReceivedStatus(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn)
	ctx := context.Background()

	product, err := repo.Create(ctx, &models.Product{
		OrderID:      order.ID,
		Title:        "Jacket",
		Color:        "navy",
		Size:         "M",
		InternalCode: "A1",
		Status:       enums.ProductStatusMarked,
	})
	require.NoError(t, err)
	require.Equal(t, enums.ProductStatusReceived, product.Status)

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ProductStatusReceived, loaded.Status)
}

func TestFindByCodeReturnsEarliestMatch(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn)
	ctx := context.Background()

	first := &models.Product{
		OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "M",
		InternalCode: "DUP", Status: enums.ProductStatusReceived,
	}
	require.NoError(t, conn.Create(first).Error)
	// force distinct timestamps so ordering is deterministic
	require.NoError(t, conn.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	second := &models.Product{
		OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "L",
		InternalCode: "DUP", Status: enums.ProductStatusReceived,
	}
	require.NoError(t, conn.Create(second).Error)

	found, err := repo.FindByCode(ctx, "DUP")
	require.NoError(t, err)
	require.Equal(t, first.ID, found.ID)

	locked, err := repo.FindByCodeForUpdate(ctx, "DUP")
	require.NoError(t, err)
	require.Equal(t, first.ID, locked.ID)
}

func TestFindByCodeMissing(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByCode(context.Background(), "nope")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateStatusAndInternalCode(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn)
	ctx := context.Background()

	product, err := repo.Create(ctx, &models.Product{
		OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "M", InternalCode: "A1",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, product.ID, enums.ProductStatusPacked))
	require.NoError(t, repo.UpdateInternalCode(ctx, product.ID, "CHZ-77"))

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, enums.ProductStatusPacked, loaded.Status)
	require.Equal(t, "CHZ-77", loaded.InternalCode)
}

func TestCountByOrderAndStatus(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	order := seedOrder(t, conn)
	ctx := context.Background()

	for i, status := range []enums.ProductStatus{
		enums.ProductStatusReceived,
		enums.ProductStatusReceived,
		enums.ProductStatusPacked,
	} {
		product := &models.Product{
			OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "M",
			InternalCode: uuid.NewString(), Status: status,
		}
		require.NoError(t, conn.Create(product).Error, "product %d", i)
	}

	counts, err := repo.CountByOrderAndStatus(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, 2, counts[enums.ProductStatusReceived])
	require.Equal(t, 1, counts[enums.ProductStatusPacked])
	require.Zero(t, counts[enums.ProductStatusMarked])
}
