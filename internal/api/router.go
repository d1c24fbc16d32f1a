package api

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oldlogancap/logan-screener/internal/api/handlers"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// NewRouter builds the HTTP route table.
func NewRouter(h *handlers.Handler, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/screen", h.Screen).Methods(http.MethodPost)
	v1.HandleFunc("/results", h.Results).Methods(http.MethodGet)
	v1.HandleFunc("/universe", h.Indices).Methods(http.MethodGet)
	v1.HandleFunc("/universe/{index}", h.Universe).Methods(http.MethodGet)
	v1.HandleFunc("/stocks/{ticker}", h.StockDetail).Methods(http.MethodGet)
	v1.HandleFunc("/stocks/{ticker}/filing", h.IngestFiling).Methods(http.MethodPost)

	r.HandleFunc("/ws/chat", h.Chat)

	return r
}

// requestLogger logs each request with its duration and status.
func requestLogger(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Info("request handled")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working through the logging wrapper.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}
