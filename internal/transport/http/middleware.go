package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// statusResponseWriter запоминает статус ответа для лога
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader сохраняет статус и вызывает оригинальный WriteHeader
func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware пишет строку "METHOD PATH STATUS Nms" на каждый запрос.
// Паника логируется и пробрасывается дальше. nil-логгер - стандартный log
func LoggingMiddleware(l *log.Logger) mux.MiddlewareFunc {
	if l == nil {
		l = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if rec := recover(); rec != nil {
					l.Printf("PANIC %s %s 500 %dms: %v", r.Method, r.URL.Path, time.Since(start).Milliseconds(), rec)
					panic(rec)
				}
			}()
			next.ServeHTTP(srw, r)
			l.Printf("%s %s %d %dms", r.Method, r.URL.Path, srw.status, time.Since(start).Milliseconds())
		})
	}
}

// CORSMiddleware разрешает кросс-доменные запросы с origin и отвечает на preflight
func CORSMiddleware(origin string) mux.MiddlewareFunc {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter собирает роутер со всеми маршрутами и middleware.
// CORS оборачивает роутер целиком: preflight OPTIONS не совпадает ни с одним маршрутом
func NewRouter(h *Handler, corsOrigin string) http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.Use(LoggingMiddleware(nil))
	return CORSMiddleware(corsOrigin)(r)
}
