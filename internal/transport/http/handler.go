package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"CoffeeMill/internal/auth"
	"CoffeeMill/internal/model"
	"CoffeeMill/pkg/blob"
)

// MaxBodyBytes ограничивает размер тела запроса (изображения приходят в base64)
const MaxBodyBytes = 50 << 20

// CatalogService - операции над товарами любой категории
type CatalogService interface {
	List(ctx context.Context, kind model.Kind, all bool) ([]model.Product, error)
	Get(ctx context.Context, kind model.Kind, id string) (*model.Product, error)
	Create(ctx context.Context, kind model.Kind, in model.ProductInput, actor string) (*model.Product, error)
	Update(ctx context.Context, kind model.Kind, id string, in model.ProductInput, actor string) (*model.Product, error)
	Delete(ctx context.Context, kind model.Kind, id, actor string) (*model.Product, error)
}

// MessageService - операции над сообщениями обратной связи
type MessageService interface {
	Submit(ctx context.Context, m model.Message) (*model.Message, error)
	List(ctx context.Context) ([]model.Message, error)
	View(ctx context.Context, id string) (*model.Message, error)
	Delete(ctx context.Context, id, actor string) (*model.Message, error)
}

// AuthService выполняет вход администратора
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// ImageService загружает и удаляет изображения
type ImageService interface {
	Upload(ctx context.Context, name, encoded, actor string) (*blob.ObjectInfo, error)
	Delete(ctx context.Context, id, actor string) error
}

// TokenVerifier проверяет токен из заголовка Authorization
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Services собирает зависимости хендлера
type Services struct {
	Catalog  CatalogService
	Messages MessageService
	Auth     AuthService
	Images   ImageService
	Tokens   TokenVerifier
	// Ready проверяет зависимости для /readyz; nil - всегда готов
	Ready func(ctx context.Context) error
}

// Handler реализует HTTP API
type Handler struct {
	catalog  CatalogService
	messages MessageService
	auth     AuthService
	images   ImageService
	tokens   TokenVerifier
	ready    func(ctx context.Context) error
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(s Services) *Handler {
	return &Handler{
		catalog:  s.Catalog,
		messages: s.Messages,
		auth:     s.Auth,
		images:   s.Images,
		tokens:   s.Tokens,
		ready:    s.Ready,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readyz).Methods(http.MethodGet)

	for _, kind := range model.Kinds {
		h.registerProductRoutes(r, kind)
	}

	r.HandleFunc("/image", h.UploadImage).Methods(http.MethodPost)
	r.HandleFunc("/image/{id}", h.DeleteImage).Methods(http.MethodDelete)

	r.HandleFunc("/user/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/message", h.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/message", h.CreateMessage).Methods(http.MethodPost)
	r.HandleFunc("/message/{id}", h.ViewMessage).Methods(http.MethodGet)
	r.HandleFunc("/message/{id}", h.DeleteMessage).Methods(http.MethodDelete)
}

// dataResponse - общий конверт ответов {"data": ...}
type dataResponse struct {
	Data interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, v interface{}) {
	writeJSON(w, status, dataResponse{Data: v})
}

// decodeBody читает JSON тела; пустое тело оставляет dst нулевым
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Index возвращает приветствие API
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Coffee Mill & Cakes API",
	})
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			log.Printf("[http] readiness check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
