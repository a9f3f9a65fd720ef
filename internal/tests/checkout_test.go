package tests

import (
	"context"
	"errors"
	"testing"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/mocks"
	"pos-terminal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// cart worth 50000: 2 x 25000.
func filledCart() *service.CartStore {
	cart := service.NewCartStore()
	cart.AddItem(nasiGoreng, "")
	cart.AddItem(nasiGoreng, "")
	cart.SetCustomerName("Budi")
	cart.SetTableNumber("3")
	return cart
}

func cashDraft(svc *service.CheckoutService, paid string) {
	_ = svc.Open()
	method := domain.PaymentCash
	_, _ = svc.EditDraft(&method, &paid)
}

func midtransDraft(svc *service.CheckoutService) {
	_ = svc.Open()
	method := domain.PaymentMidtrans
	_, _ = svc.EditDraft(&method, nil)
}

func TestCheckout_ValidationRejectsBeforeSubmission(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		setup         func(cart *service.CartStore, svc *service.CheckoutService)
		expectedError error
	}{
		{
			name: "customer_name_blank",
			setup: func(cart *service.CartStore, svc *service.CheckoutService) {
				cart.SetCustomerName("   ")
				cashDraft(svc, "50000")
			},
			expectedError: service.ErrCustomerName,
		},
		{
			name: "dine_in_requires_table",
			setup: func(cart *service.CartStore, svc *service.CheckoutService) {
				cart.SetTableNumber("  ")
				cashDraft(svc, "50000")
			},
			expectedError: service.ErrTableNumber,
		},
		{
			name: "cash_paid_amount_missing",
			setup: func(cart *service.CartStore, svc *service.CheckoutService) {
				cashDraft(svc, "")
			},
			expectedError: service.ErrPaidAmountMissing,
		},
		{
			name: "cash_paid_amount_insufficient",
			setup: func(cart *service.CartStore, svc *service.CheckoutService) {
				cashDraft(svc, "30000")
			},
			expectedError: service.ErrInsufficientPaid,
		},
		{
			name: "cash_paid_amount_not_numeric",
			setup: func(cart *service.CartStore, svc *service.CheckoutService) {
				cashDraft(svc, "abc")
			},
			expectedError: service.ErrInsufficientPaid,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := mocks.NewTransactionAPI(t)
			cart := filledCart()
			svc := service.NewCheckoutService(cart, api, nil, nil, nil)
			testCase.setup(cart, svc)

			before := cart.State()
			outcome, err := svc.Confirm(ctx)

			// No expectations were set on the API mock, so reaching it
			// would fail the test: validation must short-circuit.
			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, testCase.expectedError)
			assert.Equal(t, before, cart.State())
		})
	}
}

func TestCheckout_ConfirmRejectsCartEmptiedAfterOpen(t *testing.T) {
	api := mocks.NewTransactionAPI(t)
	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	cashDraft(svc, "70000")

	cart.Clear()

	outcome, err := svc.Confirm(context.Background())
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, service.ErrCartEmpty)
}

func TestCheckout_OpenRequiresNonEmptyCart(t *testing.T) {
	api := mocks.NewTransactionAPI(t)
	svc := service.NewCheckoutService(service.NewCartStore(), api, nil, nil, nil)

	assert.ErrorIs(t, svc.Open(), service.ErrCartEmpty)

	_, open := svc.Draft()
	assert.False(t, open)
}

func TestCheckout_ConfirmWithoutOpenPanel(t *testing.T) {
	api := mocks.NewTransactionAPI(t)
	svc := service.NewCheckoutService(filledCart(), api, nil, nil, nil)

	outcome, err := svc.Confirm(context.Background())
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, service.ErrCheckoutClosed)
}

func TestCheckout_CancelDiscardsDraftKeepsCart(t *testing.T) {
	api := mocks.NewTransactionAPI(t)
	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	cashDraft(svc, "70000")

	svc.Cancel()

	_, open := svc.Draft()
	assert.False(t, open)
	assert.Len(t, cart.Items(), 1)

	// Reopening starts from the default draft, not the discarded one.
	assert.NoError(t, svc.Open())
	draft, open := svc.Draft()
	assert.True(t, open)
	assert.Equal(t, domain.PaymentCash, draft.PaymentMethod)
	assert.Equal(t, "", draft.PaidAmount)
}

func TestCheckout_ChangeVisibility(t *testing.T) {
	api := mocks.NewTransactionAPI(t)
	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)

	_, ok := svc.Change()
	assert.False(t, ok, "no change before the panel opens")

	cashDraft(svc, "70000")
	change, ok := svc.Change()
	assert.True(t, ok)
	assert.Equal(t, 20000.0, change)

	insufficient := "30000"
	_, _ = svc.EditDraft(nil, &insufficient)
	_, ok = svc.Change()
	assert.False(t, ok, "no change while paid < total")

	exact := "50000"
	_, _ = svc.EditDraft(nil, &exact)
	change, ok = svc.Change()
	assert.True(t, ok)
	assert.Equal(t, 0.0, change)

	method := domain.PaymentMidtrans
	paid := "70000"
	_, _ = svc.EditDraft(&method, &paid)
	_, ok = svc.Change()
	assert.False(t, ok, "no change for gateway payments")
}

func TestCheckout_CashSuccess(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)
	archive := mocks.NewCartArchive(t)
	publisher := mocks.NewSalePublisher(t)

	cart := filledCart()
	cart.SetNote("  tanpa sambal  ")
	svc := service.NewCheckoutService(cart, api, nil, archive, publisher)
	cashDraft(svc, "70000")

	table := 3
	paid := 70000.0
	expectedPayload := domain.OrderPayload{
		OrderType:     domain.OrderDineIn,
		PaymentMethod: domain.PaymentCash,
		CustomerName:  "Budi",
		Note:          "tanpa sambal",
		Items:         []domain.OrderItem{{ProductID: 1, Qty: 2}},
		TableNumber:   &table,
		Paid:          &paid,
	}
	receipt := &domain.Transaction{ID: 42, CustomerName: "Budi", PaymentStatus: "paid", TotalAmount: 50000}

	api.On("Submit", ctx, expectedPayload).Return(&domain.SubmitResult{TransactionID: 42}, nil).Once()
	archive.On("Drop", ctx).Return(nil).Once()
	publisher.On("PublishSale", ctx, mock.MatchedBy(func(ev domain.SaleEvent) bool {
		return ev.Type == "sale_completed" && ev.TransactionID == 42 && ev.Total == 50000
	})).Return(nil).Once()
	api.On("Get", ctx, 42).Return(receipt, nil).Once()

	outcome, err := svc.Confirm(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 42, outcome.TransactionID)
	assert.Equal(t, domain.PaymentSuccess, outcome.Resolution)
	assert.Equal(t, 20000.0, outcome.Change)
	assert.Equal(t, receipt, outcome.Receipt)

	state := cart.State()
	assert.Empty(t, state.Items)
	assert.Equal(t, domain.OrderDineIn, state.OrderType)
	assert.Equal(t, "", state.TableNumber)
	assert.Equal(t, "", state.CustomerName)
	assert.Equal(t, "", state.Note)

	_, open := svc.Draft()
	assert.False(t, open, "panel closes after a completed sale")
}

func TestCheckout_TakeAwayOmitsTableNumber(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)

	cart := filledCart()
	cart.SetOrderType(domain.OrderTakeAway)
	// Stale table number from a previous dine-in stays on the cart but must
	// not reach the wire.
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	cashDraft(svc, "50000")

	api.On("Submit", ctx, mock.MatchedBy(func(p domain.OrderPayload) bool {
		return p.OrderType == domain.OrderTakeAway && p.TableNumber == nil
	})).Return(&domain.SubmitResult{TransactionID: 7}, nil).Once()
	api.On("Get", ctx, 7).Return(&domain.Transaction{ID: 7}, nil).Once()

	_, err := svc.Confirm(ctx)
	assert.NoError(t, err)
}

func TestCheckout_SubmitErrorPreservesCart(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)

	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	cashDraft(svc, "70000")

	api.On("Submit", ctx, mock.Anything).Return(nil, errors.New("product out of stock")).Once()

	before := cart.State()
	outcome, err := svc.Confirm(ctx)

	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "product out of stock")
	assert.Equal(t, before, cart.State())

	_, open := svc.Draft()
	assert.True(t, open, "panel stays open so the cashier can retry")
}

func TestCheckout_ReceiptFetchFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)

	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	cashDraft(svc, "50000")

	api.On("Submit", ctx, mock.Anything).Return(&domain.SubmitResult{TransactionID: 9}, nil).Once()
	api.On("Get", ctx, 9).Return(nil, errors.New("backend unreachable")).Once()

	outcome, err := svc.Confirm(ctx)
	assert.NoError(t, err, "display-only failure")
	assert.Nil(t, outcome.Receipt)
	assert.Empty(t, cart.Items(), "the sale is committed, the cart stays cleared")
}

func TestCheckout_GatewayUnconfigured(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)

	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, nil, nil, nil)
	midtransDraft(svc)

	outcome, err := svc.Confirm(ctx)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, service.ErrGatewayUnavailable)
	assert.Len(t, cart.Items(), 1)
}

func TestCheckout_GatewayMissingSnapToken(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)
	gateway := mocks.NewGateway(t)

	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, gateway, nil, nil)
	midtransDraft(svc)

	api.On("Submit", ctx, mock.Anything).Return(&domain.SubmitResult{TransactionID: 11}, nil).Once()

	outcome, err := svc.Confirm(ctx)
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, service.ErrNoSnapToken)
	assert.Len(t, cart.Items(), 1)
}

func TestCheckout_GatewayResolutions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		resolution  domain.PaymentResolution
		wantCleared bool
	}{
		{name: "success_clears_cart", resolution: domain.PaymentSuccess, wantCleared: true},
		{name: "pending_keeps_cart", resolution: domain.PaymentPending, wantCleared: false},
		{name: "error_keeps_cart", resolution: domain.PaymentError, wantCleared: false},
		{name: "cancelled_keeps_cart", resolution: domain.PaymentCancelled, wantCleared: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := mocks.NewTransactionAPI(t)
			gateway := mocks.NewGateway(t)
			archive := mocks.NewCartArchive(t)
			publisher := mocks.NewSalePublisher(t)

			cart := filledCart()
			svc := service.NewCheckoutService(cart, api, gateway, archive, publisher)
			midtransDraft(svc)
			before := cart.State()

			api.On("Submit", ctx, mock.MatchedBy(func(p domain.OrderPayload) bool {
				return p.PaymentMethod == domain.PaymentMidtrans && p.Paid == nil
			})).Return(&domain.SubmitResult{TransactionID: 77, SnapID: "snap-abc"}, nil).Once()
			gateway.On("Pay", ctx, "snap-abc").Return(testCase.resolution, nil).Once()

			if testCase.wantCleared {
				archive.On("Drop", ctx).Return(nil).Once()
				publisher.On("PublishSale", ctx, mock.Anything).Return(nil).Once()
				api.On("Get", ctx, 77).Return(&domain.Transaction{ID: 77, PaymentStatus: "paid"}, nil).Once()
			}

			outcome, err := svc.Confirm(ctx)
			assert.NoError(t, err)
			assert.Equal(t, testCase.resolution, outcome.Resolution)
			assert.Equal(t, 77, outcome.TransactionID)

			if testCase.wantCleared {
				assert.Empty(t, cart.Items())
				assert.NotNil(t, outcome.Receipt)
				_, open := svc.Draft()
				assert.False(t, open)
			} else {
				assert.Equal(t, before, cart.State(), "cart untouched on non-success")
				assert.Nil(t, outcome.Receipt)
				_, open := svc.Draft()
				assert.True(t, open, "back to reviewing payment")
			}
		})
	}
}

func TestCheckout_GatewayTransportError(t *testing.T) {
	ctx := context.Background()
	api := mocks.NewTransactionAPI(t)
	gateway := mocks.NewGateway(t)

	cart := filledCart()
	svc := service.NewCheckoutService(cart, api, gateway, nil, nil)
	midtransDraft(svc)

	api.On("Submit", ctx, mock.Anything).Return(&domain.SubmitResult{TransactionID: 5, SnapID: "snap-x"}, nil).Once()
	gateway.On("Pay", ctx, "snap-x").Return(domain.PaymentError, errors.New("gateway unreachable")).Once()

	outcome, err := svc.Confirm(ctx)
	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "gateway unreachable")
	assert.Len(t, cart.Items(), 1)
}
