package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/works"
	"github.com/atelierhq/sewtrack-backend/pkg/db/models"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/sewtrack-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service covers order administration and the director projections.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListInProgress(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	ImportLines(ctx context.Context, orderID uuid.UUID, lines []LineImport) error
	Progress(ctx context.Context, orderID uuid.UUID) (*ProgressReport, error)
}

type service struct {
	orders   Repository
	products products.Repository
	works    works.Repository
	tx       txRunner
}

// NewService builds the order service with its collaborators.
func NewService(orderRepo Repository, productRepo products.Repository, workRepo works.Repository, tx txRunner) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if workRepo == nil {
		return nil, fmt.Errorf("works repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		orders:   orderRepo,
		products: productRepo,
		works:    workRepo,
		tx:       tx,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	status := input.Status
	if status == "" {
		status = enums.OrderStatusNew
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order := &models.Order{ClientID: input.ClientID, Status: status}
	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	items, err := s.orders.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return items, nil
}

func (s *service) ListInProgress(ctx context.Context) ([]models.Order, error) {
	items, err := s.orders.ListByStatus(ctx, enums.OrderStatusInProgress)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list in-progress orders")
	}
	return items, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func (s *service) ImportLines(ctx context.Context, orderID uuid.UUID, lines []LineImport) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line required")
	}
	for _, line := range lines {
		if strings.TrimSpace(line.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "line title required")
		}
		for _, variant := range line.Variants {
			if strings.TrimSpace(variant.Color) == "" || strings.TrimSpace(variant.Size) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "variant color and size required")
			}
			if variant.Amount <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "variant amount must be positive")
			}
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		if _, err := orderRepo.FindByID(ctx, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		rows := make([]models.OrderLine, 0, len(lines))
		for _, line := range lines {
			variants := make([]models.OrderLineVariant, 0, len(line.Variants))
			for _, variant := range line.Variants {
				variants = append(variants, models.OrderLineVariant{
					Color:  strings.TrimSpace(variant.Color),
					Size:   strings.TrimSpace(variant.Size),
					Amount: variant.Amount,
				})
			}
			rows = append(rows, models.OrderLine{
				OrderID:  orderID,
				Title:    strings.TrimSpace(line.Title),
				Variants: variants,
			})
		}

		if err := orderRepo.CreateLines(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import order lines")
		}
		return nil
	})
}

func (s *service) Progress(ctx context.Context, orderID uuid.UUID) (*ProgressReport, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.products.CountByOrderAndStatus(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count garments by status")
	}

	summary := make([]StatusTotal, 0, len(enums.ProductStatuses()))
	for _, status := range enums.ProductStatuses() {
		summary = append(summary, StatusTotal{
			Status: status,
			Label:  status.Label(),
			Total:  statusCounts[status],
		})
	}

	garments, err := s.products.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list garments")
	}

	productIDs := make([]uuid.UUID, 0, len(garments))
	for _, garment := range garments {
		productIDs = append(productIDs, garment.ID)
	}

	workRows, err := s.works.CountByStaffAndStatus(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work breakdown")
	}

	received := make(map[uuid.UUID]bool)
	for _, row := range workRows {
		if row.Status == enums.ProductStatusReceived {
			received[row.ProductID] = true
		}
	}

	report := &ProgressReport{
		OrderID: order.ID,
		Summary: summary,
		Lines:   make([]LineProgress, 0, len(order.Lines)),
	}

	for _, line := range order.Lines {
		progress := LineProgress{
			Title:    line.Title,
			Variants: make([]VariantProgress, 0, len(line.Variants)),
		}

		for _, garment := range garments {
			if garment.Title == line.Title && received[garment.ID] {
				progress.ReceivedTotal++
			}
		}

		for _, variant := range line.Variants {
			progress.PlannedTotal += variant.Amount

			variantProgress := VariantProgress{
				Color:         variant.Color,
				Size:          variant.Size,
				PlannedAmount: variant.Amount,
			}

			variantProductIDs := make(map[uuid.UUID]bool)
			for _, garment := range garments {
				if garment.Title != line.Title || garment.Color != variant.Color || garment.Size != variant.Size {
					continue
				}
				variantProductIDs[garment.ID] = true
				if received[garment.ID] {
					variantProgress.ReceivedAmount++
				}
			}

			variantProgress.Works = buildBreakdown(workRows, variantProductIDs)
			progress.Variants = append(progress.Variants, variantProgress)
		}

		report.Lines = append(report.Lines, progress)
	}

	return report, nil
}

func buildBreakdown(rows []works.StaffStatusCount, productIDs map[uuid.UUID]bool) []StatusBreakdown {
	type cell struct {
		total int
		staff map[string]int
	}
	byStatus := make(map[enums.ProductStatus]*cell)
	for _, row := range rows {
		if !productIDs[row.ProductID] {
			continue
		}
		entry, ok := byStatus[row.Status]
		if !ok {
			entry = &cell{staff: make(map[string]int)}
			byStatus[row.Status] = entry
		}
		entry.total += row.Total
		entry.staff[row.StaffName] += row.Total
	}

	breakdown := make([]StatusBreakdown, 0, len(byStatus))
	for _, status := range enums.ProductStatuses() {
		entry, ok := byStatus[status]
		if !ok {
			continue
		}
		staff := make([]StaffAmount, 0, len(entry.staff))
		for name, amount := range entry.staff {
			staff = append(staff, StaffAmount{FullName: name, Amount: amount})
		}
		sort.Slice(staff, func(i, j int) bool { return staff[i].FullName < staff[j].FullName })

		breakdown = append(breakdown, StatusBreakdown{
			Status: status,
			Label:  status.Label(),
			Amount: entry.total,
			Staff:  staff,
		})
	}
	return breakdown
}
