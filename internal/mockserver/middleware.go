package mockserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	allowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// cors sets permissive CORS headers and answers preflight requests with 200.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests writes "<timestamp> - <METHOD> <URL>" for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info(requestLine(s.now(), r))
		next.ServeHTTP(w, r)
	})
}

func requestLine(at time.Time, r *http.Request) string {
	return fmt.Sprintf("%s - %s %s", at.UTC().Format("2006-01-02T15:04:05.000Z07:00"), r.Method, r.URL.RequestURI())
}

func validCollection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !collectionName.MatchString(chi.URLParam(r, "collection")) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown collection"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
