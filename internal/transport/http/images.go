package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"CoffeeMill/internal/service"
)

// imageResponse - ответы эндпоинтов изображений используют поле message
type imageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (h *Handler) requireImageAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	return h.requireAdminWith(w, r, func(status int, _ string) {
		msg := "User does not have required roles to perform this action"
		if status == http.StatusUnauthorized {
			msg = "Authorization header missing from request"
		}
		writeJSON(w, status, imageResponse{Message: msg})
	})
}

// UploadImage обрабатывает POST /image {name, image(base64)}
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireImageAdmin(w, r)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, imageResponse{Message: "invalid request body"})
		return
	}
	info, err := h.images.Upload(r.Context(), req.Name, req.Image, actor)
	if errors.Is(err, service.ErrInvalidImage) {
		writeJSON(w, http.StatusBadRequest, imageResponse{Message: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, imageResponse{Message: "Unable to upload image", Data: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Message: "Image successfully uploaded", Data: info})
}

// DeleteImage обрабатывает DELETE /image/{id}
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireImageAdmin(w, r)
	if !ok {
		return
	}
	if err := h.images.Delete(r.Context(), mux.Vars(r)["id"], actor); err != nil {
		writeJSON(w, http.StatusInternalServerError, imageResponse{Message: "Unable to delete image", Data: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Message: "Image successfully deleted"})
}
