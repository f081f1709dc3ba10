package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidOrderItem   = errors.New("order items must have a product, a positive quantity and a positive price")
	ErrUnknownProducts    = errors.New("one or more products do not exist")
)

// OrderItemInput is one checkout line. The price is the unit price the
// client saw at checkout and is stored verbatim.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Price     float64   `json:"price" validate:"required,gt=0"`
}

// PlaceOrderInput carries the checkout payload: shipping snapshot, totals,
// and the ordered lines. UserID comes from the caller's token, not the body.
type PlaceOrderInput struct {
	UserID         *uuid.UUID
	FirstName      string           `json:"firstName" validate:"required"`
	LastName       string           `json:"lastName" validate:"required"`
	Email          string           `json:"email" validate:"required,email"`
	Phone          string           `json:"phone" validate:"required"`
	Address        string           `json:"address" validate:"required"`
	Apt            string           `json:"apt"`
	City           string           `json:"city" validate:"required"`
	State          string           `json:"state" validate:"required"`
	PostalCode     string           `json:"postalCode" validate:"required"`
	PaymentMethod  string           `json:"paymentMethod" validate:"required"`
	ShippingCharge float64          `json:"shippingCharge" validate:"gte=0"`
	Tax            float64          `json:"tax" validate:"required,gt=0"`
	TotalPrice     float64          `json:"totalPrice" validate:"required,gt=0"`
	Status         int              `json:"status"`
	Items          []OrderItemInput `json:"orderItems" validate:"required,min=1,dive"`
}

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*domain.OrderDetail, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error)
	ListOrders(ctx context.Context) ([]*domain.OrderDetail, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.OrderDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status int) error
	CancelOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// PlaceOrder validates the checkout payload and persists the order, its
// items, and the cart clearing as one transaction. Nothing is written when
// any check fails.
func (s *orderService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*domain.OrderDetail, error) {
	if len(input.Items) == 0 {
		orderPlacementFailuresTotal.WithLabelValues("validation").Inc()
		return nil, ErrEmptyOrder
	}

	status := domain.OrderStatus(input.Status)
	// New orders must start pending; the lifecycle has no other entry point.
	if status != domain.StatusPending {
		orderPlacementFailuresTotal.WithLabelValues("validation").Inc()
		return nil, ErrInvalidOrderStatus
	}

	if input.UserID != nil {
		if _, err := s.userRepo.FindByID(ctx, *input.UserID); err != nil {
			if err == repository.ErrUserNotFound {
				orderPlacementFailuresTotal.WithLabelValues("user_not_found").Inc()
			}
			return nil, err
		}
	}

	catalog, err := s.checkProductsExist(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:             uuid.New(),
		UserID:         input.UserID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		Apt:            input.Apt,
		City:           input.City,
		State:          input.State,
		PostalCode:     input.PostalCode,
		PaymentMethod:  input.PaymentMethod,
		ShippingCharge: input.ShippingCharge,
		Tax:            input.Tax,
		TotalPrice:     input.TotalPrice,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	items := make([]*domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 || line.Price <= 0 {
			orderPlacementFailuresTotal.WithLabelValues("validation").Inc()
			return nil, ErrInvalidOrderItem
		}

		// The submitted price is stored verbatim; a deviation from the live
		// catalog price is only worth a trace.
		if product := catalog[line.ProductID]; product != nil && product.Price != line.Price {
			s.logger.Warn("Order item price differs from catalog price",
				zap.String("productId", line.ProductID.String()),
				zap.Float64("submittedPrice", line.Price),
				zap.Float64("catalogPrice", product.Price),
			)
		}

		items = append(items, &domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			Price:       line.Price,
			Quantity:    line.Quantity,
			TotalAmount: line.Price * float64(line.Quantity),
			CreatedAt:   now,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		orderPlacementFailuresTotal.WithLabelValues("storage").Inc()
		return nil, err
	}

	ordersPlacedTotal.Inc()

	return s.orderRepo.FindByID(ctx, order.ID)
}

// checkProductsExist rejects the order unless every referenced product is
// present in the catalog. A partial match fails the whole order.
func (s *orderService) checkProductsExist(ctx context.Context, items []OrderItemInput) (map[uuid.UUID]*domain.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, line := range items {
		if line.ProductID == uuid.Nil {
			orderPlacementFailuresTotal.WithLabelValues("validation").Inc()
			return nil, ErrInvalidOrderItem
		}
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify products: %w", err)
	}

	if len(products) != len(ids) {
		orderPlacementFailuresTotal.WithLabelValues("product_not_found").Inc()
		return nil, ErrUnknownProducts
	}

	catalog := make(map[uuid.UUID]*domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	return catalog, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context) ([]*domain.OrderDetail, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.OrderDetail, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateStatus sets any of the five defined status codes without lifecycle
// checks; the guarded path is CancelOrder.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status int) error {
	orderStatus := domain.OrderStatus(status)
	if !orderStatus.Valid() {
		return ErrInvalidOrderStatus
	}

	return s.orderRepo.UpdateStatus(ctx, id, orderStatus)
}

// CancelOrder moves a pending order to cancelled. The caller must own the
// order; admins use UpdateStatus instead.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	detail, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if detail.UserID == nil || *detail.UserID != userID {
		return repository.ErrOrderNotFound
	}

	if err := detail.Cancel(); err != nil {
		return err
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, detail.Status); err != nil {
		return err
	}

	ordersCancelledTotal.Inc()
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}
