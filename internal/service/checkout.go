package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"pos-terminal/internal/domain"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCustomerName       = errors.New("customer name is required")
	ErrTableNumber        = errors.New("table number is required for dine in")
	ErrPaidAmountMissing  = errors.New("paid amount is required for cash payment")
	ErrInsufficientPaid   = errors.New("paid amount is less than the total")
	ErrCheckoutClosed     = errors.New("checkout panel is not open")
	ErrSubmitInFlight     = errors.New("a submission is already in flight")
	ErrGatewayUnavailable = errors.New("payment gateway is not configured")
	ErrNoSnapToken        = errors.New("backend returned no snap token")
)

// CheckoutOutcome is what a confirmed checkout resolves to. Receipt is nil
// when the post-success detail fetch failed; the sale itself is already
// committed server-side at that point.
type CheckoutOutcome struct {
	TransactionID int
	Resolution    domain.PaymentResolution
	Change        float64
	Receipt       *domain.Transaction
}

// CheckoutService validates the cart, submits the order and drives the two
// payment completion paths. The draft only exists while the panel is open;
// cancelling discards it without touching the cart.
type CheckoutService struct {
	cart      *CartStore
	api       TransactionAPI
	gateway   Gateway
	archive   CartArchive
	publisher SalePublisher

	mu         sync.Mutex
	draft      *domain.CheckoutDraft
	submitting bool
}

func NewCheckoutService(cart *CartStore, api TransactionAPI, gateway Gateway, archive CartArchive, publisher SalePublisher) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		api:       api,
		gateway:   gateway,
		archive:   archive,
		publisher: publisher,
	}
}

// Open moves from browsing to reviewing payment. The cart must not be empty.
func (s *CheckoutService) Open() error {
	if len(s.cart.Items()) == 0 {
		return ErrCartEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		s.draft = &domain.CheckoutDraft{PaymentMethod: domain.PaymentCash}
	}
	return nil
}

// Cancel closes the panel and throws the draft away.
func (s *CheckoutService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitting {
		s.draft = nil
	}
}

// EditDraft updates payment fields while reviewing. Nil arguments leave the
// corresponding field alone.
func (s *CheckoutService) EditDraft(method *domain.PaymentMethod, paidAmount *string) (domain.CheckoutDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return domain.CheckoutDraft{}, ErrCheckoutClosed
	}
	if method != nil {
		s.draft.PaymentMethod = *method
	}
	if paidAmount != nil {
		s.draft.PaidAmount = *paidAmount
	}
	return *s.draft, nil
}

func (s *CheckoutService) Draft() (domain.CheckoutDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return domain.CheckoutDraft{}, false
	}
	return *s.draft, true
}

// Change reports paid minus total, but only once a valid numeric paid amount
// covering the total has been entered for a cash draft.
func (s *CheckoutService) Change() (float64, bool) {
	s.mu.Lock()
	draft := s.draft
	var snapshot domain.CheckoutDraft
	if draft != nil {
		snapshot = *draft
	}
	s.mu.Unlock()

	if draft == nil || snapshot.PaymentMethod != domain.PaymentCash {
		return 0, false
	}
	paid, err := strconv.ParseFloat(strings.TrimSpace(snapshot.PaidAmount), 64)
	if err != nil {
		return 0, false
	}
	total := s.cart.Total()
	if paid < total {
		return 0, false
	}
	return paid - total, true
}

// Confirm runs validation, submits the order and follows the payment branch
// to its terminal state. Concurrent calls are rejected while one is in
// flight. On any failure the cart is left exactly as it was.
func (s *CheckoutService) Confirm(ctx context.Context) (*CheckoutOutcome, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, ErrCheckoutClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	draft := *s.draft
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	state := s.cart.State()
	total := s.cart.Total()

	payload, change, err := buildPayload(state, draft, total)
	if err != nil {
		return nil, err
	}

	if draft.PaymentMethod == domain.PaymentMidtrans && s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	result, err := s.api.Submit(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if draft.PaymentMethod == domain.PaymentMidtrans {
		return s.completeGateway(ctx, result, total)
	}
	return s.completeCash(ctx, result, change, total)
}

// buildPayload validates fail-fast in the order the cashier sees the fields
// and normalizes the wire payload. The first violation wins.
func buildPayload(state domain.CartState, draft domain.CheckoutDraft, total float64) (*domain.OrderPayload, float64, error) {
	if len(state.Items) == 0 {
		return nil, 0, ErrCartEmpty
	}

	customer := strings.TrimSpace(state.CustomerName)
	if customer == "" {
		return nil, 0, ErrCustomerName
	}

	payload := &domain.OrderPayload{
		OrderType:     state.OrderType,
		PaymentMethod: draft.PaymentMethod,
		CustomerName:  customer,
		Note:          strings.TrimSpace(state.Note),
		Items:         make([]domain.OrderItem, 0, len(state.Items)),
	}
	for _, item := range state.Items {
		payload.Items = append(payload.Items, domain.OrderItem{ProductID: item.ProductID, Qty: item.Qty})
	}

	if state.OrderType == domain.OrderDineIn {
		table := strings.TrimSpace(state.TableNumber)
		if table == "" {
			return nil, 0, ErrTableNumber
		}
		n, _ := strconv.Atoi(table)
		payload.TableNumber = &n
	}

	var change float64
	if draft.PaymentMethod == domain.PaymentCash {
		raw := strings.TrimSpace(draft.PaidAmount)
		if raw == "" {
			return nil, 0, ErrPaidAmountMissing
		}
		paid, err := strconv.ParseFloat(raw, 64)
		if err != nil || paid < total {
			return nil, 0, ErrInsufficientPaid
		}
		payload.Paid = &paid
		change = paid - total
	}

	return payload, change, nil
}

// completeCash clears everything immediately: the backend accepted the order
// and the money is already in the drawer.
func (s *CheckoutService) completeCash(ctx context.Context, result *domain.SubmitResult, change, total float64) (*CheckoutOutcome, error) {
	s.finishSale(ctx, result.TransactionID, domain.PaymentCash, total)

	outcome := &CheckoutOutcome{
		TransactionID: result.TransactionID,
		Resolution:    domain.PaymentSuccess,
		Change:        change,
	}
	s.attachReceipt(ctx, outcome)
	return outcome, nil
}

// completeGateway hands the snap session to the gateway and reconciles its
// single resolution. Only success mutates the cart; pending, error and
// cancelled all leave it intact so the cashier can retry.
func (s *CheckoutService) completeGateway(ctx context.Context, result *domain.SubmitResult, total float64) (*CheckoutOutcome, error) {
	if result.SnapID == "" {
		return nil, ErrNoSnapToken
	}

	resolution, err := s.gateway.Pay(ctx, result.SnapID)
	if err != nil {
		return nil, fmt.Errorf("gateway payment: %w", err)
	}

	outcome := &CheckoutOutcome{
		TransactionID: result.TransactionID,
		Resolution:    resolution,
	}

	switch resolution {
	case domain.PaymentSuccess:
		s.finishSale(ctx, result.TransactionID, domain.PaymentMidtrans, total)
		s.attachReceipt(ctx, outcome)
	case domain.PaymentPending, domain.PaymentError, domain.PaymentCancelled:
		// Transaction may still be open server-side; nothing local changes.
	}
	return outcome, nil
}

// finishSale is the one place the cart is cleared. It tolerates the panel
// having been closed while the gateway held the session.
func (s *CheckoutService) finishSale(ctx context.Context, transactionID int, method domain.PaymentMethod, total float64) {
	s.cart.Clear()

	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.Drop(ctx); err != nil {
			log.Printf("Warning: failed to drop cart snapshot: %v", err)
		}
	}

	if s.publisher != nil {
		ev := domain.SaleEvent{
			Type:          "sale_completed",
			TransactionID: transactionID,
			PaymentMethod: string(method),
			Total:         total,
			Timestamp:     time.Now(),
		}
		if err := s.publisher.PublishSale(ctx, ev); err != nil {
			log.Printf("Warning: failed to publish sale event: %v", err)
		}
	}
}

// attachReceipt is display-only: a fetch failure never rolls the sale back.
func (s *CheckoutService) attachReceipt(ctx context.Context, outcome *CheckoutOutcome) {
	tx, err := s.api.Get(ctx, outcome.TransactionID)
	if err != nil {
		log.Printf("Warning: failed to fetch transaction %d for receipt: %v", outcome.TransactionID, err)
		return
	}
	outcome.Receipt = tx
}
