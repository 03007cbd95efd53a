package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"CoffeeMill/internal/model"
)

// registerProductRoutes регистрирует пять маршрутов категории:
// /{path} GET, POST и /{path}/{id} GET, PATCH, PUT, DELETE
func (h *Handler) registerProductRoutes(r *mux.Router, kind model.Kind) {
	base := "/" + kind.Path()
	r.HandleFunc(base, h.listProducts(kind)).Methods(http.MethodGet)
	r.HandleFunc(base, h.createProduct(kind)).Methods(http.MethodPost)
	r.HandleFunc(base+"/{id}", h.viewProduct(kind)).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", h.updateProduct(kind)).Methods(http.MethodPatch, http.MethodPut)
	r.HandleFunc(base+"/{id}", h.deleteProduct(kind)).Methods(http.MethodDelete)
}

// listProducts: аноним видит только видимые товары, администратор все, остальным 403
func (h *Handler) listProducts(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, _ := h.resolve(r)
		if acc == accessDenied {
			writeData(w, http.StatusForbidden, msgUnauthorized)
			return
		}
		products, err := h.catalog.List(r.Context(), kind, acc == accessAdmin)
		if err != nil {
			writeData(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusOK, products)
	}
}

func (h *Handler) createProduct(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		var in model.ProductInput
		if err := decodeBody(w, r, &in); err != nil {
			writeData(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := h.catalog.Create(r.Context(), kind, in, actor)
		if err != nil {
			writeData(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusCreated, p)
	}
}

// viewProduct открыт всем и возвращает товар независимо от visible; промах - data: null
func (h *Handler) viewProduct(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.catalog.Get(r.Context(), kind, mux.Vars(r)["id"])
		if err != nil {
			writeData(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusOK, p)
	}
}

func (h *Handler) updateProduct(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		var in model.ProductInput
		if err := decodeBody(w, r, &in); err != nil {
			writeData(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := h.catalog.Update(r.Context(), kind, mux.Vars(r)["id"], in, actor)
		if err != nil {
			writeData(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusOK, p)
	}
}

func (h *Handler) deleteProduct(kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.requireAdmin(w, r)
		if !ok {
			return
		}
		p, err := h.catalog.Delete(r.Context(), kind, mux.Vars(r)["id"], actor)
		if err != nil {
			writeData(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeData(w, http.StatusOK, p)
	}
}
