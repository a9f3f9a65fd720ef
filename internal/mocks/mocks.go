package mocks

import (
	"context"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/service"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type TransactionAPI struct {
	mock.Mock
}

func NewTransactionAPI(t testingT) *TransactionAPI {
	m := &TransactionAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TransactionAPI) Submit(ctx context.Context, payload domain.OrderPayload) (*domain.SubmitResult, error) {
	args := m.Called(ctx, payload)
	var result *domain.SubmitResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.SubmitResult)
	}
	return result, args.Error(1)
}

func (m *TransactionAPI) Get(ctx context.Context, id int) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	var tx *domain.Transaction
	if args.Get(0) != nil {
		tx = args.Get(0).(*domain.Transaction)
	}
	return tx, args.Error(1)
}

type Gateway struct {
	mock.Mock
}

func NewGateway(t testingT) *Gateway {
	m := &Gateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Gateway) Pay(ctx context.Context, snapToken string) (domain.PaymentResolution, error) {
	args := m.Called(ctx, snapToken)
	return args.Get(0).(domain.PaymentResolution), args.Error(1)
}

type CartArchive struct {
	mock.Mock
}

func NewCartArchive(t testingT) *CartArchive {
	m := &CartArchive{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CartArchive) Save(ctx context.Context, state domain.CartState) error {
	return m.Called(ctx, state).Error(0)
}

func (m *CartArchive) Load(ctx context.Context) (*domain.CartState, error) {
	args := m.Called(ctx)
	var state *domain.CartState
	if args.Get(0) != nil {
		state = args.Get(0).(*domain.CartState)
	}
	return state, args.Error(1)
}

func (m *CartArchive) Drop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type SalePublisher struct {
	mock.Mock
}

func NewSalePublisher(t testingT) *SalePublisher {
	m := &SalePublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SalePublisher) PublishSale(ctx context.Context, ev domain.SaleEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type Printer struct {
	mock.Mock
}

func NewPrinter(t testingT) *Printer {
	m := &Printer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Printer) Print(receipt []byte) error {
	return m.Called(receipt).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(transactionID int) ([]byte, error) {
	args := m.Called(transactionID)
	var qr []byte
	if args.Get(0) != nil {
		qr = args.Get(0).([]byte)
	}
	return qr, args.Error(1)
}

type CheckoutServiceInterface struct {
	mock.Mock
}

func NewCheckoutServiceInterface(t testingT) *CheckoutServiceInterface {
	m := &CheckoutServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CheckoutServiceInterface) Open() error {
	return m.Called().Error(0)
}

func (m *CheckoutServiceInterface) Cancel() {
	m.Called()
}

func (m *CheckoutServiceInterface) EditDraft(method *domain.PaymentMethod, paidAmount *string) (domain.CheckoutDraft, error) {
	args := m.Called(method, paidAmount)
	return args.Get(0).(domain.CheckoutDraft), args.Error(1)
}

func (m *CheckoutServiceInterface) Draft() (domain.CheckoutDraft, bool) {
	args := m.Called()
	return args.Get(0).(domain.CheckoutDraft), args.Bool(1)
}

func (m *CheckoutServiceInterface) Change() (float64, bool) {
	args := m.Called()
	return args.Get(0).(float64), args.Bool(1)
}

func (m *CheckoutServiceInterface) Confirm(ctx context.Context) (*service.CheckoutOutcome, error) {
	args := m.Called(ctx)
	var outcome *service.CheckoutOutcome
	if args.Get(0) != nil {
		outcome = args.Get(0).(*service.CheckoutOutcome)
	}
	return outcome, args.Error(1)
}

type ReceiptServiceInterface struct {
	mock.Mock
}

func NewReceiptServiceInterface(t testingT) *ReceiptServiceInterface {
	m := &ReceiptServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ReceiptServiceInterface) Get(ctx context.Context, id int) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	var tx *domain.Transaction
	if args.Get(0) != nil {
		tx = args.Get(0).(*domain.Transaction)
	}
	return tx, args.Error(1)
}

func (m *ReceiptServiceInterface) Render(tx *domain.Transaction) []byte {
	args := m.Called(tx)
	var rendered []byte
	if args.Get(0) != nil {
		rendered = args.Get(0).([]byte)
	}
	return rendered
}

func (m *ReceiptServiceInterface) QRCode(id int) ([]byte, error) {
	args := m.Called(id)
	var qr []byte
	if args.Get(0) != nil {
		qr = args.Get(0).([]byte)
	}
	return qr, args.Error(1)
}

func (m *ReceiptServiceInterface) Print(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ service.TransactionAPI           = (*TransactionAPI)(nil)
	_ service.Gateway                  = (*Gateway)(nil)
	_ service.CartArchive              = (*CartArchive)(nil)
	_ service.SalePublisher            = (*SalePublisher)(nil)
	_ service.Printer                  = (*Printer)(nil)
	_ service.QRGenerator              = (*QRGenerator)(nil)
	_ service.CheckoutServiceInterface = (*CheckoutServiceInterface)(nil)
	_ service.ReceiptServiceInterface  = (*ReceiptServiceInterface)(nil)
)
