package works

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
)

type fixture struct {
	conn    *gorm.DB
	staff   *models.StaffProfile
	product *models.Product
}

func newFixture(t *testing.T) *fixture {
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

	clientUser := &models.User{Username: uuid.NewString(), PasswordHash: "x", Kind: enums.UserKindClient, IsActive: true}
	require.NoError(t, conn.Create(clientUser).Error)
	client := &models.ClientProfile{UserID: clientUser.ID, FullName: "Client"}
	require.NoError(t, conn.Create(client).Error)
	order := &models.Order{ClientID: client.ID, Status: enums.OrderStatusInProgress}
	require.NoError(t, conn.Create(order).Error)

	staffUser := &models.User{Username: uuid.NewString(), PasswordHash: "x", Kind: enums.UserKindStaff, IsActive: true}
	require.NoError(t, conn.Create(staffUser).Error)
	staff := &models.StaffProfile{UserID: staffUser.ID, FullName: "Anna Receiver", Role: enums.StaffRoleReceiver}
	require.NoError(t, conn.Create(staff).Error)

	product := &models.Product{
		OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "M",
		InternalCode: "A1", Status: enums.ProductStatusReceived,
	}
	require.NoError(t, conn.Create(product).Error)

	return &fixture{conn: conn, staff: staff, product: product}
}

func TestCreateAndListByProduct(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Work{
		ProductID: f.product.ID, StaffID: f.staff.ID, Status: enums.ProductStatusReceived,
	})
	require.NoError(t, err)

	comment := "loose seam on the left sleeve"
	defect, err := repo.Create(ctx, &models.Work{
		ProductID: f.product.ID, StaffID: f.staff.ID,
		Status: enums.ProductStatusDefect, Comment: &comment,
	})
	require.NoError(t, err)

	_, err = repo.CreateImage(ctx, &models.WorkImage{WorkID: defect.ID, FileKey: "defects/one.jpg"})
	require.NoError(t, err)

	items, err := repo.ListByProduct(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, comment, *items[1].Comment)
}

func TestDeleteByProductAndStatusReturnsFileKeys(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.conn)
	ctx := context.Background()

	keep, err := repo.Create(ctx, &models.Work{
		ProductID: f.product.ID, StaffID: f.staff.ID, Status: enums.ProductStatusPacked,
	})
	require.NoError(t, err)

	marked, err := repo.Create(ctx, &models.Work{
		ProductID: f.product.ID, StaffID: f.staff.ID, Status: enums.ProductStatusMarked,
	})
	require.NoError(t, err)
	_, err = repo.CreateImage(ctx, &models.WorkImage{WorkID: marked.ID, FileKey: "defects/mark.jpg"})
	require.NoError(t, err)

	keys, err := repo.DeleteByProductAndStatus(ctx, f.product.ID, enums.ProductStatusMarked)
	require.NoError(t, err)
	require.Equal(t, []string{"defects/mark.jpg"}, keys)

	remaining, err := repo.ListByProduct(ctx, f.product.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, keep.ID, remaining[0].ID)

	// repeating the delete is a no-op
	keys, err = repo.DeleteByProductAndStatus(ctx, f.product.ID, enums.ProductStatusMarked)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestCountByStaffAndStatus(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.conn)
	ctx := context.Background()

	for range 2 {
		_, err := repo.Create(ctx, &models.Work{
			ProductID: f.product.ID, StaffID: f.staff.ID, Status: enums.ProductStatusReceived,
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Work{
		ProductID: f.product.ID, StaffID: f.staff.ID, Status: enums.ProductStatusPacked,
	})
	require.NoError(t, err)

	rows, err := repo.CountByStaffAndStatus(ctx, []uuid.UUID{f.product.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	totals := map[enums.ProductStatus]int{}
	for _, row := range rows {
		require.Equal(t, f.staff.ID, row.StaffID)
		require.Equal(t, "Anna Receiver", row.StaffName)
		totals[row.Status] = row.Total
	}
	require.Equal(t, 2, totals[enums.ProductStatusReceived])
	require.Equal(t, 1, totals[enums.ProductStatusPacked])

	none, err := repo.CountByStaffAndStatus(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, none)
}
