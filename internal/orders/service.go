package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/menu"
	"tableside/internal/notify"
)

var ErrMenuItemUnavailable = errors.New("menu item is not available")

type CreateOrderItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

type CreateOrderRequest struct {
	TableID int               `json:"table_id"`
	Notes   string            `json:"notes"`
	Items   []CreateOrderItem `json:"items"`
}

type OrderServiceInterface interface {
	Create(ctx context.Context, waiterID int, req CreateOrderRequest) (domain.Order, error)
	Get(ctx context.Context, id int) (domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	Advance(ctx context.Context, id int, to string) (domain.Order, error)
	AddItem(ctx context.Context, orderID int, req CreateOrderItem) (domain.Order, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID, quantity int) (domain.Order, error)
}

type OrderService struct {
	repo         OrderRepositoryInterface
	menuRepo     menu.MenuRepositoryInterface
	notifier     notify.Notifier
	lg           *logger.Logger
	kitchenEmail string
}

func NewOrderService(repo OrderRepositoryInterface, menuRepo menu.MenuRepositoryInterface, notifier notify.Notifier, kitchenEmail string, lg *logger.Logger) OrderServiceInterface {
	return &OrderService{repo: repo, menuRepo: menuRepo, notifier: notifier, kitchenEmail: kitchenEmail, lg: lg}
}

// priceItem snapshots the current menu price onto the order item so later
// menu edits never change historical totals.
func (s *OrderService) priceItem(ctx context.Context, req CreateOrderItem) (domain.OrderItem, error) {
	if req.Quantity <= 0 {
		return domain.OrderItem{}, fmt.Errorf("invalid quantity %d for menu item %d", req.Quantity, req.MenuItemID)
	}
	mi, err := s.menuRepo.GetByID(ctx, req.MenuItemID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if !mi.Available {
		return domain.OrderItem{}, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, mi.Name)
	}
	return domain.OrderItem{
		MenuItemID:   mi.ID,
		Name:         mi.Name,
		Quantity:     req.Quantity,
		PriceAtOrder: mi.Price,
	}, nil
}

func (s *OrderService) Create(ctx context.Context, waiterID int, req CreateOrderRequest) (domain.Order, error) {
	if req.TableID == 0 {
		return domain.Order{}, errors.New("table_id is required")
	}
	order := domain.Order{
		TableID:  req.TableID,
		WaiterID: waiterID,
		Status:   domain.OrderPlaced,
		Notes:    strings.TrimSpace(req.Notes),
	}
	for _, it := range req.Items {
		item, err := s.priceItem(ctx, it)
		if err != nil {
			return domain.Order{}, err
		}
		order.Items = append(order.Items, item)
	}

	created, err := s.repo.CreateOrderTx(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.lg.Info("order_created", map[string]any{
		"order_id": created.ID, "table_id": created.TableID,
		"waiter_id": waiterID, "total": created.Total().StringFixed(2),
	})

	// Kitchen is told about the new order; a failed send is reported and
	// swallowed, never surfaced to the waiter.
	if result := s.notifyKitchen(ctx, created); result != "" {
		s.lg.Info("kitchen_notification", map[string]any{"order_id": created.ID, "result": result})
	}
	return created, nil
}

func (s *OrderService) notifyKitchen(ctx context.Context, o domain.Order) string {
	subject := fmt.Sprintf("New Order #%d", o.ID)
	var b strings.Builder
	fmt.Fprintf(&b, "New order received!\n\nTable: %d\nTime: %s\n\nItems:\n",
		o.TableID, time.Now().UTC().Format("2006-01-02 15:04:05"))
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %dx %s\n", item.Quantity, item.Name)
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", o.Notes)
	}
	if err := s.notifier.Notify(ctx, s.kitchenEmail, subject, b.String()); err != nil {
		return fmt.Sprintf("error sending kitchen notification: %v", err)
	}
	return fmt.Sprintf("kitchen notified for order #%d", o.ID)
}

func (s *OrderService) Get(ctx context.Context, id int) (domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	if f.Status != "" {
		st, err := domain.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, err
		}
		f.Status = string(st)
	}
	return s.repo.List(ctx, f)
}

func (s *OrderService) Advance(ctx context.Context, id int, to string) (domain.Order, error) {
	target, err := domain.ParseOrderStatus(to)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := o.Advance(target); err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.SetStatus(ctx, o.ID, o.Status); err != nil {
		return domain.Order{}, err
	}
	s.lg.Info("order_status_changed", map[string]any{"order_id": o.ID, "status": string(o.Status)})
	return o, nil
}

// itemsMutable guards item writes: once an order is served, or once a bill
// exists for it, its items are frozen.
func (s *OrderService) itemsMutable(ctx context.Context, o domain.Order) error {
	if o.ItemsLocked() {
		return domain.ErrOrderItemsLocked
	}
	billed, err := s.repo.HasBill(ctx, o.ID)
	if err != nil {
		return err
	}
	if billed {
		return domain.ErrOrderItemsLocked
	}
	return nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID int, req CreateOrderItem) (domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.itemsMutable(ctx, o); err != nil {
		return domain.Order{}, err
	}
	item, err := s.priceItem(ctx, req)
	if err != nil {
		return domain.Order{}, err
	}
	item.OrderID = o.ID
	if _, err := s.repo.AddItem(ctx, item); err != nil {
		return domain.Order{}, err
	}
	return s.repo.GetByID(ctx, orderID)
}

func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID, quantity int) (domain.Order, error) {
	if quantity <= 0 {
		return domain.Order{}, fmt.Errorf("invalid quantity %d", quantity)
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.itemsMutable(ctx, o); err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.UpdateItemQuantity(ctx, orderID, itemID, quantity); err != nil {
		return domain.Order{}, err
	}
	return s.repo.GetByID(ctx, orderID)
}
