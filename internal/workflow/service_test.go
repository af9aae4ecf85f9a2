package workflow

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/internal/codes"
	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/metrics"
	"github.com/atelierhq/sewtrack-backend/pkg/storage/memory"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type harness struct {
	conn     *gorm.DB
	svc      Service
	files    *memory.Store
	sheets   codes.Store
	orderID  uuid.UUID
	receiver Actor
	otk      Actor
	packer   Actor
	marker   Actor
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

	files := memory.New()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	codeRepo := codes.NewRepository(conn)
	sheets, err := codes.NewStore(codeRepo, files, logg)
	require.NoError(t, err)

	svc, err := NewService(
		products.NewRepository(conn),
		works.NewRepository(conn),
		codeRepo,
		sheets,
		files,
		gormTxRunner{db: conn},
		metrics.NewWorkflowMetrics(prometheus.NewRegistry()),
		logg,
	)
	require.NoError(t, err)

	h := &harness{
		conn:    conn,
		svc:     svc,
		files:   files,
		sheets:  sheets,
		orderID: order.ID,
	}
	h.receiver = h.seedStaff(t, enums.StaffRoleReceiver)
	h.otk = h.seedStaff(t, enums.StaffRoleOTK)
	h.packer = h.seedStaff(t, enums.StaffRolePacker)
	h.marker = h.seedStaff(t, enums.StaffRoleMarker)
	return h
}

func (h *harness) seedStaff(t *testing.T, role enums.StaffRole) Actor {
	t.Helper()

	user := &models.User{Username: uuid.NewString(), PasswordHash: "x", Kind: enums.UserKindStaff, IsActive: true}
	require.NoError(t, h.conn.Create(user).Error)
	profile := &models.StaffProfile{UserID: user.ID, FullName: string(role) + " staff", Role: role}
	require.NoError(t, h.conn.Create(profile).Error)
	return Actor{StaffID: profile.ID, Role: role}
}

func (h *harness) receive(t *testing.T, code string) *models.Product {
	t.Helper()

	product, err := h.svc.Receive(context.Background(), h.receiver, ReceiveInput{
		OrderID:      h.orderID,
		Title:        "Jacket",
		Color:        "navy",
		Size:         "M",
		InternalCode: code,
		LabelName:    "label.png",
		Label:        strings.NewReader("label-bytes"),
	})
	require.NoError(t, err)
	return product
}

func (h *harness) product(t *testing.T, id uuid.UUID) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, h.conn.First(&product, "id = ?", id).Error)
	return &product
}

func (h *harness) productByCode(t *testing.T, code string) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, h.conn.First(&product, "internal_code = ?", code).Error)
	return &product
}

func (h *harness) workStatuses(t *testing.T, productID uuid.UUID) []enums.ProductStatus {
	t.Helper()

	var items []models.Work
	require.NoError(t, h.conn.Where("product_id = ?", productID).Order("created_at ASC").Find(&items).Error)
	statuses := make([]enums.ProductStatus, 0, len(items))
	for _, w := range items {
		statuses = append(statuses, w.Status)
	}
	return statuses
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, code, typed.Code())
}

func TestFullPipeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	product := h.receive(t, "A1")
	require.Equal(t, enums.ProductStatusReceived, product.Status)

	// reception attached the internal code sheet
	sheet, err := h.sheets.FindFor(ctx, product.ID, enums.CodeKindInternal)
	require.NoError(t, err)
	require.Equal(t, "A1", sheet.Code)
	require.True(t, h.files.Has(sheet.FileKey))

	require.NoError(t, h.svc.SubmitInspection(ctx, h.otk, InspectionInput{InternalCode: "A1"}))
	require.Equal(t, enums.ProductStatusOTK, h.product(t, product.ID).Status)

	require.NoError(t, h.svc.SubmitPacking(ctx, h.packer, PackingInput{InternalCode: "A1"}))
	require.Equal(t, enums.ProductStatusPacked, h.product(t, product.ID).Status)

	// attach a compliance code before marking
	_, err = h.sheets.Attach(ctx, nil, codes.AttachInput{
		ProductID: product.ID,
		Kind:      enums.CodeKindCompliance,
		Code:      "CHZ-77",
		FileName:  "chz.pdf",
		File:      strings.NewReader("pdf"),
	})
	require.NoError(t, err)

	require.NoError(t, h.svc.SubmitMarking(ctx, h.marker, MarkingInput{InternalCode: "A1"}))

	marked := h.product(t, product.ID)
	require.Equal(t, enums.ProductStatusMarked, marked.Status)
	// marking rewrites the lookup key to the compliance code
	require.Equal(t, "CHZ-77", marked.InternalCode)

	require.Equal(t, []enums.ProductStatus{
		enums.ProductStatusReceived,
		enums.ProductStatusOTK,
		enums.ProductStatusPacked,
		enums.ProductStatusMarked,
	}, h.workStatuses(t, product.ID))
}

func TestReceiveRejectsDuplicateCode(t *testing.T) {
	h := newHarness(t)

	h.receive(t, "A1")

	_, err := h.svc.Receive(context.Background(), h.receiver, ReceiveInput{
		OrderID:      h.orderID,
		Title:        "Jacket",
		Color:        "navy",
		Size:         "L",
		InternalCode: "A1",
		LabelName:    "label.png",
		Label:        strings.NewReader("label-bytes"),
	})
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestReceiveValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ReceiveInput
	}{
		{"missing order", ReceiveInput{Title: "Jacket", Color: "navy", Size: "M", InternalCode: "A1", Label: strings.NewReader("x")}},
		{"blank title", ReceiveInput{OrderID: h.orderID, Color: "navy", Size: "M", InternalCode: "A1", Label: strings.NewReader("x")}},
		{"blank code", ReceiveInput{OrderID: h.orderID, Title: "Jacket", Color: "navy", Size: "M", Label: strings.NewReader("x")}},
		{"missing label", ReceiveInput{OrderID: h.orderID, Title: "Jacket", Color: "navy", Size: "M", InternalCode: "A1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Receive(ctx, h.receiver, tc.input)
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestActorChecks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.receive(t, "A1")

	err := h.svc.SubmitInspection(ctx, h.packer, InspectionInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeForbidden)

	err = h.svc.SubmitPacking(ctx, Actor{Role: enums.StaffRolePacker}, PackingInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	// nothing moved
	var product models.Product
	require.NoError(t, h.conn.First(&product, "internal_code = ?", "A1").Error)
	require.Equal(t, enums.ProductStatusReceived, product.Status)
}

func TestInspectionDefectAttachesEvidence(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	product := h.receive(t, "A1")

	err := h.svc.SubmitInspection(ctx, h.otk, InspectionInput{InternalCode: "A1", IsDefect: true})
	requireCode(t, err, pkgerrors.CodeValidation)

	comment := "torn lining"
	require.NoError(t, h.svc.SubmitInspection(ctx, h.otk, InspectionInput{
		InternalCode: "A1",
		Comment:      &comment,
		IsDefect:     true,
		ImageName:    "defect.jpg",
		Image:        strings.NewReader("jpeg-bytes"),
	}))

	require.Equal(t, enums.ProductStatusDefect, h.product(t, product.ID).Status)

	var images []models.WorkImage
	require.NoError(t, h.conn.
		Joins("JOIN works ON works.id = work_images.work_id").
		Where("works.product_id = ?", product.ID).
		Find(&images).Error)
	require.Len(t, images, 1)
	require.True(t, h.files.Has(images[0].FileKey))

	// a defect garment is out of the pipeline
	err = h.svc.SubmitPacking(ctx, h.packer, PackingInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

// rollbackTxRunner fails the transaction after the callback succeeded,
// standing in for a commit that never lands.
type rollbackTxRunner struct {
	db *gorm.DB
}

func (r rollbackTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errTxFailed
	})
}

var errTxFailed = errors.New("transaction failed")

func TestRolledBackTransactionReleasesFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.receive(t, "A1")

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	codeRepo := codes.NewRepository(h.conn)
	sheets, err := codes.NewStore(codeRepo, h.files, logg)
	require.NoError(t, err)

	failing, err := NewService(
		products.NewRepository(h.conn),
		works.NewRepository(h.conn),
		codeRepo,
		sheets,
		h.files,
		rollbackTxRunner{db: h.conn},
		metrics.NewWorkflowMetrics(prometheus.NewRegistry()),
		logg,
	)
	require.NoError(t, err)

	stored := h.files.Len()

	_, err = failing.Receive(ctx, h.receiver, ReceiveInput{
		OrderID:      h.orderID,
		Title:        "Jacket",
		Color:        "navy",
		Size:         "L",
		InternalCode: "B2",
		LabelName:    "label.png",
		Label:        strings.NewReader("label-bytes"),
	})
	require.ErrorIs(t, err, errTxFailed)
	// the label saved mid-transaction was taken back out
	require.Equal(t, stored, h.files.Len())

	comment := "torn lining"
	err = failing.SubmitInspection(ctx, h.otk, InspectionInput{
		InternalCode: "A1",
		Comment:      &comment,
		IsDefect:     true,
		ImageName:    "defect.jpg",
		Image:        strings.NewReader("jpeg-bytes"),
	})
	require.ErrorIs(t, err, errTxFailed)
	require.Equal(t, stored, h.files.Len())
	require.Equal(t, enums.ProductStatusReceived, h.productByCode(t, "A1").Status)
}

func TestRepeatSubmissionsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.receive(t, "A1")

	require.NoError(t, h.svc.SubmitPacking(ctx, h.packer, PackingInput{InternalCode: "A1"}))

	err := h.svc.SubmitPacking(ctx, h.packer, PackingInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeStateConflict)

	// packed garments can no longer be inspected
	err = h.svc.SubmitInspection(ctx, h.otk, InspectionInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeStateConflict)

	require.NoError(t, h.svc.SubmitMarking(ctx, h.marker, MarkingInput{InternalCode: "A1"}))
	err = h.svc.SubmitMarking(ctx, h.marker, MarkingInput{InternalCode: "A1"})
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitOnUnknownCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.svc.SubmitInspection(ctx, h.otk, InspectionInput{InternalCode: "nope"})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.MarkingCodes(ctx, h.marker, "nope")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestMarkingCodesListsNonInternalSheets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	product := h.receive(t, "A1")

	for _, attach := range []struct {
		kind enums.CodeKind
		code string
	}{
		{enums.CodeKindCompliance, "CHZ-77"},
		{enums.CodeKindMarketplace, "WB-9"},
	} {
		_, err := h.sheets.Attach(ctx, nil, codes.AttachInput{
			ProductID: product.ID,
			Kind:      attach.kind,
			Code:      attach.code,
			FileName:  "sheet.png",
			File:      strings.NewReader("png"),
		})
		require.NoError(t, err)
	}

	items, err := h.svc.MarkingCodes(ctx, h.marker, "A1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotEqual(t, enums.CodeKindInternal, item.Kind)
	}

	// once marked the view is gated like the action
	require.NoError(t, h.svc.SubmitMarking(ctx, h.marker, MarkingInput{InternalCode: "A1"}))
	_, err = h.svc.MarkingCodes(ctx, h.marker, "CHZ-77")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestMarkingWithoutComplianceKeepsCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	product := h.receive(t, "A1")

	require.NoError(t, h.svc.SubmitMarking(ctx, h.marker, MarkingInput{InternalCode: "A1"}))

	marked := h.product(t, product.ID)
	require.Equal(t, enums.ProductStatusMarked, marked.Status)
	require.Equal(t, "A1", marked.InternalCode)
}
