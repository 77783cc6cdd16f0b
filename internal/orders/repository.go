package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tableside/internal/common/db"
	"tableside/internal/domain"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrTableHasOpenOrder = errors.New("table already has an open order")
)

type OrderFilter struct {
	WaiterID int
	Status   string
	Limit    int
	Offset   int
}

type OrderRepositoryInterface interface {
	CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, id int) (domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	SetStatus(ctx context.Context, id int, status domain.OrderStatus) error
	AddItem(ctx context.Context, item domain.OrderItem) (domain.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID, quantity int) error
	HasBill(ctx context.Context, orderID int) (bool, error)
	CountOpen(ctx context.Context) (int, error)
}

type OrderRepository struct {
	db *db.Conn
}

func NewOrderRepository(conn *db.Conn) OrderRepositoryInterface {
	return &OrderRepository{db: conn}
}

// CreateOrderTx inserts the order and its items and seats the table, all in
// one transaction. The table row is locked first so two waiters cannot open
// a tab on the same table at once. An order still counts as open until a
// bill exists for it.
func (r *OrderRepository) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var table domain.Table
	var tableStatus string
	err = tx.QueryRow(ctx, `
		SELECT id, status FROM tables WHERE id = $1 FOR UPDATE`,
		order.TableID).Scan(&table.ID, &tableStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrTableNotFound
		return domain.Order{}, err
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("lock table: %w", err)
	}
	table.Status = domain.TableStatus(tableStatus)

	var hasOpen bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.table_id = $1
			  AND (o.status IN ($2, $3)
			       OR (o.status = $4 AND NOT EXISTS (SELECT 1 FROM bills b WHERE b.order_id = o.id)))
		)`,
		order.TableID, string(domain.OrderPlaced), string(domain.OrderInKitchen), string(domain.OrderServed)).Scan(&hasOpen)
	if err != nil {
		return domain.Order{}, fmt.Errorf("check open order: %w", err)
	}
	if hasOpen {
		err = ErrTableHasOpenOrder
		return domain.Order{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (table_id, waiter_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		order.TableID, order.WaiterID, string(domain.OrderPlaced), order.Notes).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	order.Status = domain.OrderPlaced

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.OrderID, item.MenuItemID, item.Quantity, item.PriceAtOrder).Scan(&item.ID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order item %d: %w", item.MenuItemID, err)
		}
	}

	if table.OccupyForOrder() {
		if _, err = tx.Exec(ctx, `
			UPDATE tables SET status = $2, last_activity = NOW() WHERE id = $1`,
			table.ID, string(table.Status)); err != nil {
			return domain.Order{}, fmt.Errorf("occupy table: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit transaction: %w", err)
	}
	return order, nil
}

const orderColumns = `id, table_id, waiter_id, status, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.TableID, &o.WaiterID, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price_at_order
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, o.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.PriceAtOrder); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return domain.Order{}, err
	}
	if err := r.loadItems(ctx, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if f.WaiterID != 0 {
		args = append(args, f.WaiterID)
		query += fmt.Sprintf(` AND waiter_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItemsBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItemsBatch attaches items to every listed order in one query, so list
// responses report the same totals as single-order reads.
func (r *OrderRepository) loadItemsBatch(ctx context.Context, out []domain.Order) error {
	if len(out) == 0 {
		return nil
	}
	ids := make([]int, len(out))
	byID := make(map[int]*domain.Order, len(out))
	for i := range out {
		ids[i] = out[i].ID
		byID[out[i].ID] = &out[i]
	}
	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price_at_order
		FROM order_items oi
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Quantity, &item.PriceAtOrder); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *OrderRepository) SetStatus(ctx context.Context, id int, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) AddItem(ctx context.Context, item domain.OrderItem) (domain.OrderItem, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		item.OrderID, item.MenuItemID, item.Quantity, item.PriceAtOrder).Scan(&item.ID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("insert order item: %w", err)
	}
	return item, nil
}

func (r *OrderRepository) UpdateItemQuantity(ctx context.Context, orderID, itemID, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE order_items SET quantity = $3 WHERE id = $2 AND order_id = $1`,
		orderID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *OrderRepository) HasBill(ctx context.Context, orderID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bills WHERE order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check bill: %w", err)
	}
	return exists, nil
}

func (r *OrderRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders o
		WHERE o.status IN ($1, $2)
		   OR (o.status = $3 AND NOT EXISTS (SELECT 1 FROM bills b WHERE b.order_id = o.id))`,
		string(domain.OrderPlaced), string(domain.OrderInKitchen), string(domain.OrderServed)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open orders: %w", err)
	}
	return n, nil
}
