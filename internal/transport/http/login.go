package http

import (
	"errors"
	"log"
	"net/http"

	"CoffeeMill/internal/service"
)

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login обрабатывает POST /user/login.
// Неверные данные - 200 с пустым токеном, ошибка хранилища - 500
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "invalid request body"})
		return
	}
	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrBadCredentials):
		writeJSON(w, http.StatusOK, loginResponse{Message: "Incorrect login data"})
	case err != nil:
		log.Printf("[auth] login failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "Unable to retrieve user data from the database"})
	default:
		writeJSON(w, http.StatusOK, loginResponse{Message: "Success", Token: token})
	}
}
