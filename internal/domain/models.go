package domain

import "time"

type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeAway OrderType = "take_away"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	// The backend and the hosted checkout both know the gateway by this name.
	PaymentMidtrans PaymentMethod = "midtrans"
)

// Product is the catalog shape the cashier UI sends when adding an item.
// The catalog itself lives behind the backend; only id, name and price matter here.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// LineItem is one product/note combination in the cart. Name and price are
// snapshotted when the item is first added and never re-read from the catalog.
type LineItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Note      string  `json:"note"`
}

// CheckoutDraft holds the payment fields edited while the checkout panel is
// open. It is discarded, not merged into the cart, when checkout is cancelled.
type CheckoutDraft struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	PaidAmount    string        `json:"paidAmount"`
}

type PaymentResolution int

const (
	PaymentSuccess PaymentResolution = iota
	PaymentPending
	PaymentError
	PaymentCancelled
)

func (r PaymentResolution) String() string {
	switch r {
	case PaymentSuccess:
		return "success"
	case PaymentPending:
		return "pending"
	case PaymentError:
		return "error"
	case PaymentCancelled:
		return "cancelled"
	}
	return "unknown"
}

// CartState is the serializable form of the cart, used for the Redis snapshot
// and for the terminal API's cart view.
type CartState struct {
	Items        []LineItem `json:"items"`
	OrderType    OrderType  `json:"orderType"`
	TableNumber  string     `json:"tableNumber"`
	CustomerName string     `json:"customerName"`
	Note         string     `json:"note"`
}

// OrderPayload is the body of POST /api/transactions. Prices are deliberately
// absent; the backend recomputes them from the catalog.
type OrderPayload struct {
	OrderType     OrderType     `json:"orderType"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  string        `json:"customerName"`
	Note          string        `json:"note"`
	Items         []OrderItem   `json:"items"`
	TableNumber   *int          `json:"tableNumber,omitempty"`
	Paid          *float64      `json:"paid,omitempty"`
}

type OrderItem struct {
	ProductID int `json:"productId"`
	Qty       int `json:"qty"`
}

// SubmitResult is the backend's answer to a submitted order. SnapID is only
// present for gateway payments.
type SubmitResult struct {
	TransactionID int    `json:"transactionId"`
	SnapID        string `json:"snapId,omitempty"`
}

// Transaction is the committed order as the backend reports it, used only for
// receipt rendering.
type Transaction struct {
	ID            int               `json:"id"`
	CustomerName  string            `json:"customerName"`
	OrderType     string            `json:"orderType"`
	TableNumber   int               `json:"tableNumber,omitempty"`
	PaymentMethod string            `json:"paymentMethod"`
	PaymentStatus string            `json:"paymentStatus"`
	TotalAmount   float64           `json:"totalAmount"`
	Details       []TransactionItem `json:"transactionDetails"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type TransactionItem struct {
	ID          int     `json:"id"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// SaleEvent is emitted to Kafka once a checkout reaches a paid state.
type SaleEvent struct {
	Type          string    `json:"type"`
	TransactionID int       `json:"transaction_id"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	Timestamp     time.Time `json:"timestamp"`
}
