package statements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/storage"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the approval gate over marking. A rejected statement runs the
// only compensation in the system: the garment's marked ledger rows are
// removed and its status drops back to packed.
type Service interface {
	RequestApproval(ctx context.Context, staffID uuid.UUID, internalCode string) (*models.Statement, error)
	ListPending(ctx context.Context) ([]models.Statement, error)
	Resolve(ctx context.Context, statementID uuid.UUID, approve bool) error
}

type service struct {
	statements Repository
	products   products.Repository
	works      works.Repository
	files      storage.Store
	tx         txRunner
	logg       *logger.Logger
}

// NewService builds the statement workflow with its collaborators.
func NewService(
	statementRepo Repository,
	productRepo products.Repository,
	workRepo works.Repository,
	files storage.Store,
	tx txRunner,
	logg *logger.Logger,
) (Service, error) {
	if statementRepo == nil {
		return nil, fmt.Errorf("statements repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if workRepo == nil {
		return nil, fmt.Errorf("works repository required")
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
		statements: statementRepo,
		products:   productRepo,
		works:      workRepo,
		files:      files,
		tx:         tx,
		logg:       logg,
	}, nil
}

func (s *service) RequestApproval(ctx context.Context, staffID uuid.UUID, internalCode string) (*models.Statement, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff identity missing")
	}
	code := strings.TrimSpace(internalCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "internal code required")
	}

	var created *models.Statement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindByCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "garment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup garment")
		}
		if product.Status != enums.ProductStatusMarked {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "garment has not been marked")
		}

		statementRepo := s.statements.WithTx(tx)
		_, err = statementRepo.FindPendingByProductAndStaff(ctx, product.ID, staffID)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "an approval request for this garment is already pending")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending statements")
		}

		statement := &models.Statement{
			ProductID: product.ID,
			StaffID:   staffID,
			Kind:      enums.StatementKindCode,
		}
		if _, err := statementRepo.Create(ctx, statement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create statement")
		}
		created = statement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) ListPending(ctx context.Context) ([]models.Statement, error) {
	items, err := s.statements.ListPending(ctx, enums.StatementKindCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending statements")
	}
	return items, nil
}

func (s *service) Resolve(ctx context.Context, statementID uuid.UUID, approve bool) error {
	if statementID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "statement id required")
	}

	var releasedKeys []string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		statementRepo := s.statements.WithTx(tx)

		statement, err := statementRepo.FindPendingByID(ctx, statementID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "statement already moderated or missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load statement")
		}

		if !approve {
			keys, err := s.works.WithTx(tx).DeleteByProductAndStatus(ctx, statement.ProductID, enums.ProductStatusMarked)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete marked works")
			}
			releasedKeys = keys

			if err := s.products.WithTx(tx).UpdateStatus(ctx, statement.ProductID, enums.ProductStatusPacked); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset garment status")
			}
		}

		if err := statementRepo.MarkModerated(ctx, statement.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "moderate statement")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// files are released only after the rollback commits
	for _, key := range releasedKeys {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("releasing work image %s: %v", key, delErr))
		}
	}
	return nil
}
