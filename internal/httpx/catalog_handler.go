package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/users"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	Books *books.Repo
	Users *users.Repo
}

type addBookReq struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
}

type updateStockReq struct {
	Stock int `json:"stock"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/books", h.list)
	r.Post("/books", h.add)
	r.Put("/books/{bookID}/stock", h.updateStock)
	r.Delete("/books/{bookID}", h.remove)
	r.Post("/users", h.addUser)
}

// requireAdmin resolves X-User-ID against the user store and checks the
// catalog-management capability. Not authentication, just a role gate.
func (h *CatalogHandler) requireAdmin(ctx context.Context, r *http.Request) bool {
	uid := r.Header.Get("X-User-ID")
	if uid == "" {
		return false
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return false
	}
	return u.CanManageCatalog()
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	bs, err := h.Books.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *CatalogHandler) add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
		return
	}
	var req addBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	id, err := h.Books.Add(ctx, req.Title, req.Author, req.Price, req.Stock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *CatalogHandler) remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
		return
	}
	if err := h.Books.Delete(ctx, chi.URLParam(r, "bookID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type addUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Address  string `json:"address"`
}

func (h *CatalogHandler) addUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req addUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	id, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, users.Role(req.Role), req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *CatalogHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.requireAdmin(ctx, r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin role required"})
		return
	}
	var req updateStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Books.UpdateStock(ctx, chi.URLParam(r, "bookID"), req.Stock); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
