package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"pos-terminal/internal/client"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/service"

	"github.com/gorilla/mux"
)

// Handler exposes the cashier's UI events as HTTP endpoints. The cart and
// checkout services carry all the behavior; this layer only decodes, maps
// errors to status codes and keeps the Redis snapshot current.
type Handler struct {
	Cart       *service.CartStore
	Checkout   service.CheckoutServiceInterface
	Receipts   service.ReceiptServiceInterface
	Archive    service.CartArchive
	BackendURL string
	Proxy      client.HTTPClient
}

func NewHandler(cart *service.CartStore, checkout service.CheckoutServiceInterface, receipts service.ReceiptServiceInterface, archive service.CartArchive) *Handler {
	return &Handler{
		Cart:     cart,
		Checkout: checkout,
		Receipts: receipts,
		Archive:  archive,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/cart/items", h.updateQty).Methods("PATCH")
	r.HandleFunc("/api/cart/items", h.removeItem).Methods("DELETE")
	r.HandleFunc("/api/cart/order", h.updateOrder).Methods("PUT")

	r.HandleFunc("/api/checkout", h.openCheckout).Methods("POST")
	r.HandleFunc("/api/checkout", h.editCheckout).Methods("PUT")
	r.HandleFunc("/api/checkout", h.cancelCheckout).Methods("DELETE")
	r.HandleFunc("/api/checkout/confirm", h.confirmCheckout).Methods("POST")

	r.HandleFunc("/api/receipts/{id}", h.getReceipt).Methods("GET")
	r.HandleFunc("/api/receipts/{id}/qrcode", h.getReceiptQRCode).Methods("GET")
	r.HandleFunc("/api/receipts/{id}/print", h.printReceipt).Methods("POST")

	if h.Proxy != nil {
		r.PathPrefix("/api/categories").HandlerFunc(h.proxyCatalog)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "pos-terminal",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type cartView struct {
	domain.CartState
	Total float64 `json:"total"`
}

func (h *Handler) writeCart(w http.ResponseWriter) {
	view := cartView{CartState: h.Cart.State(), Total: h.Cart.Total()}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// persistCart saves the snapshot after a mutation. Redis being down must
// never block a sale, so failures only log.
func (h *Handler) persistCart(r *http.Request) {
	if h.Archive == nil {
		return
	}
	if err := h.Archive.Save(r.Context(), h.Cart.State()); err != nil {
		log.Printf("Warning: failed to save cart snapshot: %v", err)
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Product domain.Product `json:"product"`
		Note    string         `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Product.ID == 0 {
		http.Error(w, "Missing product", http.StatusBadRequest)
		return
	}

	h.Cart.AddItem(payload.Product, payload.Note)
	h.persistCart(r)
	h.writeCart(w)
}

func (h *Handler) updateQty(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID int    `json:"productId"`
		Note      string `json:"note"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Cart.UpdateQty(payload.ProductID, payload.Note, payload.Qty)
	h.persistCart(r)
	h.writeCart(w)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID int    `json:"productId"`
		Note      string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Cart.RemoveItem(payload.ProductID, payload.Note)
	h.persistCart(r)
	h.writeCart(w)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrderType    *domain.OrderType `json:"orderType"`
		TableNumber  *string           `json:"tableNumber"`
		CustomerName *string           `json:"customerName"`
		Note         *string           `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if payload.OrderType != nil {
		h.Cart.SetOrderType(*payload.OrderType)
	}
	if payload.TableNumber != nil {
		h.Cart.SetTableNumber(*payload.TableNumber)
	}
	if payload.CustomerName != nil {
		h.Cart.SetCustomerName(*payload.CustomerName)
	}
	if payload.Note != nil {
		h.Cart.SetNote(*payload.Note)
	}
	h.persistCart(r)
	h.writeCart(w)
}

type checkoutView struct {
	domain.CheckoutDraft
	Total  float64  `json:"total"`
	Change *float64 `json:"change,omitempty"`
}

func (h *Handler) writeCheckout(w http.ResponseWriter, draft domain.CheckoutDraft) {
	view := checkoutView{CheckoutDraft: draft, Total: h.Cart.Total()}
	if change, ok := h.Checkout.Change(); ok {
		view.Change = &change
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *Handler) openCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.Checkout.Open(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	draft, _ := h.Checkout.Draft()
	h.writeCheckout(w, draft)
}

func (h *Handler) editCheckout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PaymentMethod *domain.PaymentMethod `json:"paymentMethod"`
		PaidAmount    *string               `json:"paidAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft, err := h.Checkout.EditDraft(payload.PaymentMethod, payload.PaidAmount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.writeCheckout(w, draft)
}

func (h *Handler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.Checkout.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Checkout.Confirm(r.Context())
	if err != nil {
		h.writeConfirmError(w, err)
		return
	}

	response := map[string]interface{}{
		"transactionId": outcome.TransactionID,
		"status":        outcome.Resolution.String(),
	}
	code := http.StatusOK
	switch outcome.Resolution {
	case domain.PaymentSuccess:
		response["change"] = outcome.Change
		if outcome.Receipt != nil {
			response["receipt"] = outcome.Receipt
		}
	case domain.PaymentPending:
		response["message"] = "Payment popup closed without a final status"
		code = http.StatusAccepted
	case domain.PaymentError:
		response["message"] = "Payment failed"
		code = http.StatusBadGateway
	case domain.PaymentCancelled:
		response["message"] = "Payment was cancelled"
		code = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) writeConfirmError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrCustomerName),
		errors.Is(err, service.ErrTableNumber),
		errors.Is(err, service.ErrPaidAmountMissing),
		errors.Is(err, service.ErrInsufficientPaid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCheckoutClosed), errors.Is(err, service.ErrSubmitInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrGatewayUnavailable), errors.Is(err, service.ErrNoSnapToken):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, client.ErrBackend):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tx, err := h.Receipts.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	response := map[string]interface{}{
		"transaction": tx,
		"rendered":    string(h.Receipts.Render(tx)),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *Handler) getReceiptQRCode(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	qrCode, err := h.Receipts.QRCode(id)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

// printReceipt always answers 202 once the transaction exists; the spool is
// fire and forget and the UI gets no print status either way.
func (h *Handler) printReceipt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Receipts.Print(r.Context(), id); err != nil {
		if errors.Is(err, client.ErrBackend) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Warning: print failed for transaction %d: %v", id, err)
	}
	w.WriteHeader(http.StatusAccepted)
}

// proxyCatalog forwards catalog reads to the backend so the cashier UI talks
// to a single origin.
func (h *Handler) proxyCatalog(w http.ResponseWriter, r *http.Request) {
	url := h.BackendURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := h.Proxy.Do(req)
	if err != nil {
		log.Printf("ERROR: Failed to proxy to %s: %v", url, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("ERROR: Failed to copy response: %v", err)
	}
}
