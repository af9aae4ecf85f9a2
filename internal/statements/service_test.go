package statements

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/storage/memory"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type harness struct {
	conn    *gorm.DB
	svc     Service
	files   *memory.Store
	staffID uuid.UUID
	product *models.Product
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	conn, err := gorm.Open(
		sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{SkipDefaultTransaction: true},
	)
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.StaffProfile{},
		&models.ClientProfile{},
		&models.Order{},
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
	staff := &models.StaffProfile{UserID: staffUser.ID, FullName: "Maria Marker", Role: enums.StaffRoleMarker}
	require.NoError(t, conn.Create(staff).Error)

	product := &models.Product{
		OrderID: order.ID, Title: "Jacket", Color: "navy", Size: "M",
		InternalCode: "A1", Status: enums.ProductStatusMarked,
	}
	require.NoError(t, conn.Create(product).Error)

	files := memory.New()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(
		NewRepository(conn),
		products.NewRepository(conn),
		works.NewRepository(conn),
		files,
		gormTxRunner{db: conn},
		logg,
	)
	require.NoError(t, err)

	return &harness{conn: conn, svc: svc, files: files, staffID: staff.ID, product: product}
}

func (h *harness) markedWork(t *testing.T, withImage bool) *models.Work {
	t.Helper()

	work := &models.Work{ProductID: h.product.ID, StaffID: h.staffID, Status: enums.ProductStatusMarked}
	require.NoError(t, h.conn.Create(work).Error)
	if withImage {
		key := "defects/" + uuid.NewString() + ".jpg"
		require.NoError(t, h.files.Save(context.Background(), key, strings.NewReader("jpeg-bytes")))
		require.NoError(t, h.conn.Create(&models.WorkImage{WorkID: work.ID, FileKey: key}).Error)
	}
	return work
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, code, typed.Code())
}

func TestRequestApproval(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	statement, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)
	require.Equal(t, h.product.ID, statement.ProductID)
	require.Equal(t, enums.StatementKindCode, statement.Kind)
	require.False(t, statement.Moderated)

	pending, err := h.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Product)
	require.NotNil(t, pending[0].Staff)
}

func TestRequestApprovalDuplicateGuard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)

	_, err = h.svc.RequestApproval(ctx, h.staffID, "A1")
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestRequestApprovalPreconditions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.RequestApproval(ctx, uuid.Nil, "A1")
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = h.svc.RequestApproval(ctx, h.staffID, "  ")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = h.svc.RequestApproval(ctx, h.staffID, "missing")
	requireCode(t, err, pkgerrors.CodeNotFound)

	require.NoError(t, h.conn.Model(h.product).Update("status", enums.ProductStatusPacked).Error)
	_, err = h.svc.RequestApproval(ctx, h.staffID, "A1")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestResolveApproveLeavesProductAlone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.markedWork(t, false)

	statement, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Resolve(ctx, statement.ID, true))

	var product models.Product
	require.NoError(t, h.conn.First(&product, "id = ?", h.product.ID).Error)
	require.Equal(t, enums.ProductStatusMarked, product.Status)

	var total int64
	require.NoError(t, h.conn.Model(&models.Work{}).Where("product_id = ?", h.product.ID).Count(&total).Error)
	require.EqualValues(t, 1, total)

	pending, err := h.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestResolveRejectRunsCompensation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	work := h.markedWork(t, true)

	var image models.WorkImage
	require.NoError(t, h.conn.First(&image, "work_id = ?", work.ID).Error)

	statement, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Resolve(ctx, statement.ID, false))

	var product models.Product
	require.NoError(t, h.conn.First(&product, "id = ?", h.product.ID).Error)
	require.Equal(t, enums.ProductStatusPacked, product.Status)

	var total int64
	require.NoError(t, h.conn.Model(&models.Work{}).Where("product_id = ? AND status = ?", h.product.ID, enums.ProductStatusMarked).Count(&total).Error)
	require.Zero(t, total)

	require.False(t, h.files.Has(image.FileKey))
	require.Contains(t, h.files.Deleted(), image.FileKey)
}

func TestResolveRejectLeavesOtherGarmentsAlone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.markedWork(t, false)

	other := &models.Product{
		OrderID: h.product.OrderID, Title: "Jacket", Color: "navy", Size: "L",
		InternalCode: "B2", Status: enums.ProductStatusMarked,
	}
	require.NoError(t, h.conn.Create(other).Error)
	otherWork := &models.Work{ProductID: other.ID, StaffID: h.staffID, Status: enums.ProductStatusMarked}
	require.NoError(t, h.conn.Create(otherWork).Error)

	statement, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Resolve(ctx, statement.ID, false))

	var untouched models.Product
	require.NoError(t, h.conn.First(&untouched, "id = ?", other.ID).Error)
	require.Equal(t, enums.ProductStatusMarked, untouched.Status)

	var total int64
	require.NoError(t, h.conn.Model(&models.Work{}).Where("product_id = ?", other.ID).Count(&total).Error)
	require.EqualValues(t, 1, total)
}

func TestResolveIsSingleShot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.markedWork(t, false)

	statement, err := h.svc.RequestApproval(ctx, h.staffID, "A1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Resolve(ctx, statement.ID, false))

	// the second resolution misses the moderated row
	err = h.svc.Resolve(ctx, statement.ID, false)
	requireCode(t, err, pkgerrors.CodeNotFound)

	err = h.svc.Resolve(ctx, uuid.Nil, true)
	requireCode(t, err, pkgerrors.CodeValidation)
}
