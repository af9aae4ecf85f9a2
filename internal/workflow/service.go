package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/internal/codes"
	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/metrics"
	"github.com/atelierhq/sewtrack-backend/pkg/storage"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the transition engine: every status change of a garment goes
// through exactly one of these methods, each an atomic read-check-write
// against the product row.
type Service interface {
	Receive(ctx context.Context, actor Actor, input ReceiveInput) (*models.Product, error)
	SubmitInspection(ctx context.Context, actor Actor, input InspectionInput) error
	SubmitPacking(ctx context.Context, actor Actor, input PackingInput) error
	SubmitMarking(ctx context.Context, actor Actor, input MarkingInput) error
	MarkingCodes(ctx context.Context, actor Actor, internalCode string) ([]models.ProductCode, error)
}

type service struct {
	products products.Repository
	works    works.Repository
	codes    codes.Repository
	sheets   codes.Store
	files    storage.Store
	tx       txRunner
	metrics  *metrics.WorkflowMetrics
	logg     *logger.Logger
}

// NewService builds the transition engine with its collaborators.
func NewService(
	productRepo products.Repository,
	workRepo works.Repository,
	codeRepo codes.Repository,
	sheets codes.Store,
	files storage.Store,
	tx txRunner,
	workflowMetrics *metrics.WorkflowMetrics,
	logg *logger.Logger,
) (Service, error) {
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if workRepo == nil {
		return nil, fmt.Errorf("works repository required")
	}
	if codeRepo == nil {
		return nil, fmt.Errorf("codes repository required")
	}
	if sheets == nil {
		return nil, fmt.Errorf("code attachment store required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		products: productRepo,
		works:    workRepo,
		codes:    codeRepo,
		sheets:   sheets,
		files:    files,
		tx:       tx,
		metrics:  workflowMetrics,
		logg:     logg,
	}, nil
}

func (s *service) Receive(ctx context.Context, actor Actor, input ReceiveInput) (*models.Product, error) {
	if err := checkActor(actor, ActionReceive); err != nil {
		return nil, s.finish(ActionReceive, time.Now(), err)
	}
	started := time.Now()

	if input.OrderID == uuid.Nil {
		return nil, s.finish(ActionReceive, started, pkgerrors.New(pkgerrors.CodeValidation, "order id required"))
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Color) == "" || strings.TrimSpace(input.Size) == "" {
		return nil, s.finish(ActionReceive, started, pkgerrors.New(pkgerrors.CodeValidation, "title, color and size required"))
	}
	code := strings.TrimSpace(input.InternalCode)
	if code == "" {
		return nil, s.finish(ActionReceive, started, pkgerrors.New(pkgerrors.CodeValidation, "internal code required"))
	}
	if input.Label == nil {
		return nil, s.finish(ActionReceive, started, pkgerrors.New(pkgerrors.CodeValidation, "code label file required"))
	}

	var created *models.Product
	var writtenKeys []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.products.WithTx(tx)

		_, err := productRepo.FindByCodeForUpdate(ctx, code)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "garment already received under this code")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup garment")
		}

		product := &models.Product{
			OrderID:      input.OrderID,
			Title:        strings.TrimSpace(input.Title),
			Color:        strings.TrimSpace(input.Color),
			Size:         strings.TrimSpace(input.Size),
			InternalCode: code,
		}
		if _, err := productRepo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create garment")
		}

		attached, err := s.sheets.Attach(ctx, tx, codes.AttachInput{
			ProductID: product.ID,
			Kind:      enums.CodeKindInternal,
			Code:      code,
			FileName:  input.LabelName,
			File:      input.Label,
		})
		if err != nil {
			return err
		}
		writtenKeys = append(writtenKeys, attached.FileKey)

		if _, err := s.works.WithTx(tx).Create(ctx, &models.Work{
			ProductID: product.ID,
			StaffID:   actor.StaffID,
			Status:    enums.ProductStatusReceived,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append reception work")
		}

		created = product
		return nil
	})
	if err != nil {
		s.releaseFiles(ctx, writtenKeys)
		return nil, s.finish(ActionReceive, started, err)
	}

	s.logg.Info(s.logg.WithField(ctx, "internal_code", code), "garment received")
	return created, s.finish(ActionReceive, started, nil)
}

func (s *service) SubmitInspection(ctx context.Context, actor Actor, input InspectionInput) error {
	if err := checkActor(actor, ActionInspection); err != nil {
		return s.finish(ActionInspection, time.Now(), err)
	}
	started := time.Now()

	code := strings.TrimSpace(input.InternalCode)
	if code == "" {
		return s.finish(ActionInspection, started, pkgerrors.New(pkgerrors.CodeValidation, "internal code required"))
	}
	if input.IsDefect && input.Image == nil {
		return s.finish(ActionInspection, started, pkgerrors.New(pkgerrors.CodeValidation, "defect submissions require an evidence image"))
	}

	target := enums.ProductStatusOTK
	if input.IsDefect {
		target = enums.ProductStatusDefect
	}

	var writtenKeys []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.lockProduct(ctx, tx, code, enums.ProductStatusReceived)
		if err != nil {
			return err
		}

		workRepo := s.works.WithTx(tx)
		work, err := workRepo.Create(ctx, &models.Work{
			ProductID: product.ID,
			StaffID:   actor.StaffID,
			Status:    target,
			Comment:   input.Comment,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append inspection work")
		}

		if input.IsDefect {
			fileKey, err := s.attachEvidence(ctx, workRepo, work.ID, input.ImageName, input.Image)
			if err != nil {
				return err
			}
			writtenKeys = append(writtenKeys, fileKey)
		}

		if err := s.products.WithTx(tx).UpdateStatus(ctx, product.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update garment status")
		}
		return nil
	})
	if err != nil {
		s.releaseFiles(ctx, writtenKeys)
	}
	return s.finish(ActionInspection, started, err)
}

func (s *service) SubmitPacking(ctx context.Context, actor Actor, input PackingInput) error {
	if err := checkActor(actor, ActionPacking); err != nil {
		return s.finish(ActionPacking, time.Now(), err)
	}
	started := time.Now()

	code := strings.TrimSpace(input.InternalCode)
	if code == "" {
		return s.finish(ActionPacking, started, pkgerrors.New(pkgerrors.CodeValidation, "internal code required"))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.lockProduct(ctx, tx, code, enums.ProductStatusReceived, enums.ProductStatusOTK)
		if err != nil {
			return err
		}

		if _, err := s.works.WithTx(tx).Create(ctx, &models.Work{
			ProductID: product.ID,
			StaffID:   actor.StaffID,
			Status:    enums.ProductStatusPacked,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append packing work")
		}
		if err := s.products.WithTx(tx).UpdateStatus(ctx, product.ID, enums.ProductStatusPacked); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update garment status")
		}
		return nil
	})
	return s.finish(ActionPacking, started, err)
}

func (s *service) SubmitMarking(ctx context.Context, actor Actor, input MarkingInput) error {
	if err := checkActor(actor, ActionMarking); err != nil {
		return s.finish(ActionMarking, time.Now(), err)
	}
	started := time.Now()

	code := strings.TrimSpace(input.InternalCode)
	if code == "" {
		return s.finish(ActionMarking, started, pkgerrors.New(pkgerrors.CodeValidation, "internal code required"))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.lockProduct(ctx, tx, code, enums.ProductStatusReceived, enums.ProductStatusPacked)
		if err != nil {
			return err
		}

		if _, err := s.works.WithTx(tx).Create(ctx, &models.Work{
			ProductID: product.ID,
			StaffID:   actor.StaffID,
			Status:    enums.ProductStatusMarked,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append marking work")
		}

		productRepo := s.products.WithTx(tx)

		compliance, err := s.codes.WithTx(tx).FindByProductAndKind(ctx, product.ID, enums.CodeKindCompliance)
		switch {
		case err == nil:
			// the compliance code becomes the garment's lookup key from here on
			if err := productRepo.UpdateInternalCode(ctx, product.ID, compliance.Code); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rewrite internal code")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup compliance code")
		}

		if err := productRepo.UpdateStatus(ctx, product.ID, enums.ProductStatusMarked); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update garment status")
		}
		return nil
	})
	return s.finish(ActionMarking, started, err)
}

func (s *service) MarkingCodes(ctx context.Context, actor Actor, internalCode string) ([]models.ProductCode, error) {
	if err := checkActor(actor, ActionMarkingCodes); err != nil {
		return nil, s.finish(ActionMarkingCodes, time.Now(), err)
	}
	started := time.Now()

	code := strings.TrimSpace(internalCode)
	if code == "" {
		return nil, s.finish(ActionMarkingCodes, started, pkgerrors.New(pkgerrors.CodeValidation, "internal code required"))
	}

	product, err := s.products.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.finish(ActionMarkingCodes, started, pkgerrors.New(pkgerrors.CodeNotFound, "garment not found"))
		}
		return nil, s.finish(ActionMarkingCodes, started, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup garment"))
	}

	// the view shares the marking precondition: seeing the sheets implies
	// being allowed to mark
	if !statusIn(product.Status, enums.ProductStatusReceived, enums.ProductStatusPacked) {
		return nil, s.finish(ActionMarkingCodes, started, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot repeat this step"))
	}

	items, err := s.sheets.ListFor(ctx, product.ID, enums.CodeKindInternal)
	if err != nil {
		return nil, s.finish(ActionMarkingCodes, started, err)
	}
	return items, s.finish(ActionMarkingCodes, started, nil)
}

// lockProduct resolves the internal code under a row lock and enforces the
// action's precondition set.
func (s *service) lockProduct(ctx context.Context, tx *gorm.DB, code string, allowed ...enums.ProductStatus) (*models.Product, error) {
	product, err := s.products.WithTx(tx).FindByCodeForUpdate(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "garment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup garment")
	}
	if !statusIn(product.Status, allowed...) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot repeat this step").
			WithDetails(map[string]string{"current_status": product.Status.String()})
	}
	return product, nil
}

func (s *service) attachEvidence(ctx context.Context, workRepo works.Repository, workID uuid.UUID, name string, file io.Reader) (string, error) {
	fileKey := fmt.Sprintf("defects/%s_%s", workID, sanitizeFileName(name))
	if err := s.files.Save(ctx, fileKey, file); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save evidence image")
	}
	if _, err := workRepo.CreateImage(ctx, &models.WorkImage{WorkID: workID, FileKey: fileKey}); err != nil {
		if delErr := s.files.Delete(ctx, fileKey); delErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("orphaned evidence image %s: %v", fileKey, delErr))
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert evidence image")
	}
	return fileKey, nil
}

// releaseFiles removes files written inside a transaction that rolled back.
// Deleting a missing key is a no-op, so a key the failing step already
// cleaned up is safe to pass again.
func (s *service) releaseFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.files.Delete(ctx, key); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("orphaned file %s: %v", key, err))
		}
	}
}

func (s *service) finish(action Action, started time.Time, err error) error {
	outcome := "applied"
	if err != nil {
		outcome = "rejected"
		if typed := pkgerrors.As(err); typed == nil || typed.Code() == pkgerrors.CodeDependency || typed.Code() == pkgerrors.CodeInternal {
			outcome = "error"
		}
	}
	s.metrics.IncTransition(string(action), outcome)
	s.metrics.ObserveDuration(string(action), time.Since(started))
	return err
}

func checkActor(actor Actor, action Action) error {
	if actor.StaffID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "staff identity missing")
	}
	if !RoleAllowed(actor.Role, action) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role not allowed for this station")
	}
	return nil
}

func statusIn(status enums.ProductStatus, allowed ...enums.ProductStatus) bool {
	for _, candidate := range allowed {
		if candidate == status {
			return true
		}
	}
	return false
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "evidence.jpg"
	}
	return strings.ReplaceAll(name, "/", "_")
}
