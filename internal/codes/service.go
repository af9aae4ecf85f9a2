package codes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/storage"
)

// AttachInput carries a code value plus its printable sheet.
type AttachInput struct {
	ProductID uuid.UUID
	Kind      enums.CodeKind
	Code      string
	FileName  string
	File      io.Reader
}

// Store manages code attachments together with their stored files.
// At most one attachment per (product, kind) survives: Attach replaces
// the prior row and releases its file.
type Store interface {
	Attach(ctx context.Context, tx *gorm.DB, input AttachInput) (*models.ProductCode, error)
	ListFor(ctx context.Context, productID uuid.UUID, excluding ...enums.CodeKind) ([]models.ProductCode, error)
	FindFor(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) (*models.ProductCode, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type store struct {
	repo  Repository
	files storage.Store
	logg  *logger.Logger
}

// NewStore builds the attachment store over the repository and file backend.
func NewStore(repo Repository, files storage.Store, logg *logger.Logger) (Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("codes repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &store{repo: repo, files: files, logg: logg}, nil
}

func (s *store) Attach(ctx context.Context, tx *gorm.DB, input AttachInput) (*models.ProductCode, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid code kind")
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code value required")
	}
	if input.File == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code sheet file required")
	}

	repo := s.repo.WithTx(tx)

	replacedKeys, err := repo.DeleteByProductAndKind(ctx, input.ProductID, input.Kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace prior attachment")
	}

	fileKey := buildFileKey(input.ProductID, input.Kind, input.FileName)
	if err := s.files.Save(ctx, fileKey, input.File); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save code sheet")
	}

	code := &models.ProductCode{
		ProductID: input.ProductID,
		Kind:      input.Kind,
		Code:      strings.TrimSpace(input.Code),
		FileKey:   fileKey,
	}
	if _, err := repo.Create(ctx, code); err != nil {
		// the row never landed, so take the just-written file back out
		if delErr := s.files.Delete(ctx, fileKey); delErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("orphaned code sheet %s: %v", fileKey, delErr))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert code attachment")
	}

	for _, key := range replacedKeys {
		if err := s.files.Delete(ctx, key); err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("releasing replaced code sheet %s: %v", key, err))
		}
	}

	return code, nil
}

func (s *store) ListFor(ctx context.Context, productID uuid.UUID, excluding ...enums.CodeKind) ([]models.ProductCode, error) {
	items, err := s.repo.ListByProduct(ctx, productID, excluding...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list code attachments")
	}
	return items, nil
}

func (s *store) FindFor(ctx context.Context, productID uuid.UUID, kind enums.CodeKind) (*models.ProductCode, error) {
	code, err := s.repo.FindByProductAndKind(ctx, productID, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "code attachment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load code attachment")
	}
	return code, nil
}

func (s *store) Remove(ctx context.Context, id uuid.UUID) error {
	code, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "code attachment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load code attachment")
	}

	if err := s.repo.Delete(ctx, code.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete code attachment")
	}
	if err := s.files.Delete(ctx, code.FileKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release code sheet")
	}
	return nil
}

func buildFileKey(productID uuid.UUID, kind enums.CodeKind, fileName string) string {
	ext := path.Ext(fileName)
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("codes/%s/%s_%s%s", productID, kind, uuid.NewString(), ext)
}
