package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pos-terminal/internal/domain"

	"github.com/skip2/go-qrcode"
)

// DefaultQRGenerator encodes a link to the hosted transaction detail so a
// customer can pull up the receipt from the printed slip.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(transactionID int) ([]byte, error) {
	qrData := fmt.Sprintf("%s/api/transactions/%d", g.BaseURL, transactionID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}

// ReceiptService fetches committed transactions and turns them into printable
// receipts. Everything here reads backend truth; nothing is derived from the
// local cart.
type ReceiptService struct {
	api     TransactionAPI
	qr      QRGenerator
	printer Printer
}

func NewReceiptService(api TransactionAPI, qr QRGenerator, printer Printer) *ReceiptService {
	return &ReceiptService{api: api, qr: qr, printer: printer}
}

func (s *ReceiptService) Get(ctx context.Context, id int) (*domain.Transaction, error) {
	return s.api.Get(ctx, id)
}

const receiptWidth = 32

// Render produces the monospace slip: header, order metadata, one line per
// item with its subtotal, and the grand total.
func (s *ReceiptService) Render(tx *domain.Transaction) []byte {
	var b strings.Builder
	line := strings.Repeat("-", receiptWidth)

	center := func(text string) {
		pad := (receiptWidth - len(text)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad) + text + "\n")
	}

	center("PAYMENT RECEIPT")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "ID       : #%d\n", tx.ID)
	fmt.Fprintf(&b, "Customer : %s\n", tx.CustomerName)
	fmt.Fprintf(&b, "Order    : %s\n", tx.OrderType)
	if tx.TableNumber != 0 {
		fmt.Fprintf(&b, "Table    : %d\n", tx.TableNumber)
	}
	fmt.Fprintf(&b, "Payment  : %s\n", tx.PaymentMethod)
	fmt.Fprintf(&b, "Status   : %s\n", tx.PaymentStatus)
	fmt.Fprintf(&b, "Date     : %s\n", tx.CreatedAt.Format("02 Jan 2006 15:04"))
	b.WriteString(line + "\n")
	for _, item := range tx.Details {
		name := fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
		amount := fmt.Sprintf("Rp %.0f", item.Subtotal)
		gap := receiptWidth - len(name) - len(amount)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(name + strings.Repeat(" ", gap) + amount + "\n")
	}
	b.WriteString(line + "\n")
	total := fmt.Sprintf("Rp %.0f", tx.TotalAmount)
	gap := receiptWidth - len("TOTAL") - len(total)
	if gap < 1 {
		gap = 1
	}
	b.WriteString("TOTAL" + strings.Repeat(" ", gap) + total + "\n")
	center("Terima kasih")

	return []byte(b.String())
}

func (s *ReceiptService) QRCode(id int) ([]byte, error) {
	return s.qr.Generate(id)
}

// Print fetches, renders and spools. Best effort end to end: a printer error
// is reported but changes nothing else.
func (s *ReceiptService) Print(ctx context.Context, id int) error {
	tx, err := s.api.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch transaction %d: %w", id, err)
	}
	if s.printer == nil {
		log.Printf("Warning: no printer configured, dropping receipt for transaction %d", id)
		return nil
	}
	return s.printer.Print(s.Render(tx))
}
