package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"CoffeeMill/internal/model"
)

// CreateMessage обрабатывает POST /message; авторизация не нужна
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var msg model.Message
	if err := decodeBody(w, r, &msg); err != nil {
		writeData(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := h.messages.Submit(r.Context(), model.Message{Name: msg.Name, ContactInfo: msg.ContactInfo, Body: msg.Body})
	if err != nil {
		writeData(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusCreated, saved)
}

// ListMessages обрабатывает GET /message
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	msgs, err := h.messages.List(r.Context())
	if err != nil {
		writeData(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, msgs)
}

// ViewMessage обрабатывает GET /message/{id} и отмечает сообщение прочитанным
func (h *Handler) ViewMessage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	msg, err := h.messages.View(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeData(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, msg)
}

// DeleteMessage обрабатывает DELETE /message/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	msg, err := h.messages.Delete(r.Context(), mux.Vars(r)["id"], actor)
	if err != nil {
		writeData(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, msg)
}
