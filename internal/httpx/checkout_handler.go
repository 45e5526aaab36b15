package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/cart"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/checkout"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/orders"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type CheckoutHandler struct {
	Carts   *cart.Store
	Service *checkout.Service
	Orders  *orders.Repo
	Redis   *redis.Client
}

type checkoutReq struct {
	Method  string            `json:"method"`
	Details map[string]string `json:"details"`
}

type checkoutResp struct {
	OrderID       string   `json:"order_id"`
	PaymentID     string   `json:"payment_id"`
	Method        string   `json:"method"`
	PaymentStatus string   `json:"payment_status"`
	Total         float64  `json:"total"`
	Warnings      []string `json:"warnings,omitempty"`
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout/{owner}", h.checkout)
	r.Get("/orders/{owner}", h.listOrders)
	r.Get("/orders/{owner}/{orderID}/payments", h.listPayments)
	r.Post("/orders/{owner}/{orderID}/cancel", h.cancel)
}

func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, owner)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Service.Checkout(ctx, owner, c, checkout.PaymentInput{
		Method:  req.Method,
		Details: req.Details,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// cache the final status so GETs skip the DB
	status := orders.StatusPending
	if res.PaymentStatus == orders.PaymentSuccess {
		status = orders.StatusConfirmed
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
	_ = h.Redis.Set(ctx, statusKey, fmt.Sprintf(`{"status":%q}`, status), redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusOK, checkoutResp{
		OrderID:       res.OrderID,
		PaymentID:     res.PaymentID,
		Method:        string(res.Method),
		PaymentStatus: string(res.PaymentStatus),
		Total:         res.Total,
		Warnings:      res.DetailIssues,
	})
}

func (h *CheckoutHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Orders.ListByOwner(ctx, chi.URLParam(r, "owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	type orderResp struct {
		ID          string    `json:"id"`
		TotalAmount float64   `json:"total_amount"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"created_at"`
	}
	out := make([]orderResp, 0, len(list))
	for _, o := range list {
		out = append(out, orderResp{ID: o.ID, TotalAmount: o.TotalAmount, Status: string(o.Status), CreatedAt: o.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CheckoutHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "orderID")
	o, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if o.OwnerID != chi.URLParam(r, "owner") {
		writeError(w, orders.ErrNotFound)
		return
	}
	// Confirmed is terminal; the repo enforces it under a row lock
	if err := h.Orders.UpdateStatus(ctx, orderID, orders.StatusCancelled); err != nil {
		writeError(w, err)
		return
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	_ = h.Redis.Del(ctx, statusKey).Err()
	writeJSON(w, http.StatusOK, map[string]string{"status": string(orders.StatusCancelled)})
}

func (h *CheckoutHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "orderID")
	o, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if o.OwnerID != chi.URLParam(r, "owner") {
		writeError(w, orders.ErrNotFound)
		return
	}
	ps, err := h.Orders.PaymentsByOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	type paymentResp struct {
		ID     string `json:"id"`
		Method string `json:"method"`
		Status string `json:"status"`
	}
	out := make([]paymentResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentResp{ID: p.ID, Method: string(p.Method), Status: string(p.Status)})
	}
	writeJSON(w, http.StatusOK, out)
}
