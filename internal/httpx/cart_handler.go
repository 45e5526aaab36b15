package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/cart"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	Carts *cart.Store
	Books *books.Repo
}

type addItemReq struct {
	BookID string `json:"book_id"`
	Qty    int    `json:"qty"`
}

type updateQtyReq struct {
	Qty int `json:"qty"`
}

type cartLineResp struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type cartResp struct {
	OwnerID string         `json:"owner_id"`
	Lines   []cartLineResp `json:"lines"`
	Total   float64        `json:"total"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart/{owner}", h.view)
	r.Delete("/cart/{owner}", h.clear)
	r.Post("/cart/{owner}/items", h.addItem)
	r.Put("/cart/{owner}/items/{bookID}", h.updateQty)
	r.Delete("/cart/{owner}/items/{bookID}", h.removeItem)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Qty <= 0 {
		writeError(w, cart.ErrInvalidQuantity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.Books.Get(ctx, req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	// early shortfall feedback; checkout re-validates anyway
	if err := h.Books.Reserve(ctx, req.BookID, req.Qty); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.Carts.Load(ctx, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.AddItem(b, req.Qty); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Carts.Save(ctx, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartHandler) updateQty(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	bookID := chi.URLParam(r, "bookID")
	var req updateQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := c.UpdateQuantity(bookID, req.Qty); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Carts.Save(ctx, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	bookID := chi.URLParam(r, "bookID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	c.RemoveItem(bookID)
	if err := h.Carts.Save(ctx, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, chi.URLParam(r, "owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, chi.URLParam(r, "owner"))
	if err != nil {
		writeError(w, err)
		return
	}
	c.Clear()
	if err := h.Carts.Save(ctx, c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResp(c))
}

func toCartResp(c *cart.Cart) cartResp {
	resp := cartResp{OwnerID: c.OwnerID, Lines: []cartLineResp{}, Total: c.Total()}
	for _, l := range c.Lines {
		resp.Lines = append(resp.Lines, cartLineResp{
			BookID:   l.Book.ID,
			Title:    l.Book.Title,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal,
		})
	}
	return resp
}
