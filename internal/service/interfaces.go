package service

import (
	"context"

	"pos-terminal/internal/domain"
)

// TransactionAPI is the backend that owns orders and prices.
type TransactionAPI interface {
	Submit(ctx context.Context, payload domain.OrderPayload) (*domain.SubmitResult, error)
	Get(ctx context.Context, id int) (*domain.Transaction, error)
}

// Gateway drives the hosted payment checkout for a prepared snap session and
// blocks until exactly one resolution arrives.
type Gateway interface {
	Pay(ctx context.Context, snapToken string) (domain.PaymentResolution, error)
}

// CartArchive persists the cart snapshot between restarts. Every method is
// best effort from the caller's point of view.
type CartArchive interface {
	Save(ctx context.Context, state domain.CartState) error
	Load(ctx context.Context) (*domain.CartState, error)
	Drop(ctx context.Context) error
}

// SalePublisher emits completed-sale events for downstream consumers.
type SalePublisher interface {
	PublishSale(ctx context.Context, ev domain.SaleEvent) error
}

// Printer spools rendered receipt text. No success signal flows back.
type Printer interface {
	Print(receipt []byte) error
}

type QRGenerator interface {
	Generate(transactionID int) ([]byte, error)
}

type CheckoutServiceInterface interface {
	Open() error
	Cancel()
	EditDraft(method *domain.PaymentMethod, paidAmount *string) (domain.CheckoutDraft, error)
	Draft() (domain.CheckoutDraft, bool)
	Change() (float64, bool)
	Confirm(ctx context.Context) (*CheckoutOutcome, error)
}

type ReceiptServiceInterface interface {
	Get(ctx context.Context, id int) (*domain.Transaction, error)
	Render(tx *domain.Transaction) []byte
	QRCode(id int) ([]byte, error)
	Print(ctx context.Context, id int) error
}

var (
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
	_ ReceiptServiceInterface  = (*ReceiptService)(nil)
)
