package domain

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderRejected  OrderStatus = "rejected"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// orderTransitions is the full lifecycle: pending fans out to approved or
// rejected, then the happy path moves strictly forward. Rejected and
// delivered are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:  {OrderApproved, OrderRejected},
	OrderApproved: {OrderShipped},
	OrderShipped:  {OrderDelivered},
}

// CanTransitionTo reports whether the order may move from s to next. No
// transition skips a state or moves backward.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID               int64       `db:"id" json:"id"`
	Status           OrderStatus `db:"status" json:"status"`
	RequestedBy      int64       `db:"requested_by" json:"requested_by"`
	ApprovedBy       *int64      `db:"approved_by" json:"approved_by,omitempty"`
	DeliveryLocation string      `db:"delivery_location" json:"delivery_location"`
	RequestDate      int64       `db:"request_date" json:"request_date"`
	ApprovalDate     *int64      `db:"approval_date" json:"approval_date,omitempty"`
	Notes            *string     `db:"notes" json:"notes,omitempty"`
	TotalAmount      float64     `db:"total_amount" json:"total_amount"`
	CreatedAt        string      `db:"created_at" json:"created_at"`
}

// OrderItem is one line of an order. UnitPrice is captured at creation time;
// later price changes on the medicine do not alter existing orders.
type OrderItem struct {
	ID          int64   `db:"id" json:"id"`
	OrderID     int64   `db:"order_id" json:"order_id"`
	MedicineID  int64   `db:"medicine_id" json:"medicine_id"`
	Quantity    int64   `db:"quantity" json:"quantity"`
	BatchNumber string  `db:"batch_number" json:"batch_number"`
	UnitPrice   float64 `db:"unit_price" json:"unit_price"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// OrderTotal sums the captured line prices.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
