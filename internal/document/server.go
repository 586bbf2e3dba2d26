package document

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// Server handles HTTP requests for document parsing
type Server struct {
	service *Service
	auth    APIKeyAuth
	mux     *http.ServeMux
}

// APIKeyAuth holds the API key clients must present in the x-api-key
// header. An empty key disables authentication.
type APIKeyAuth struct {
	Key string
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, auth APIKeyAuth) *Server {
	return NewServerWithMux(service, auth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, auth APIKeyAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service: service,
		auth:    auth,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks the x-api-key header against the configured key
func (s *Server) authenticate(r *http.Request) bool {
	if s.auth.Key == "" {
		return true // No auth required if not configured
	}

	clientKey := r.Header.Get("x-api-key")
	return subtle.ConstantTimeCompare([]byte(clientKey), []byte(s.auth.Key)) == 1
}

// corsMiddleware adds CORS headers and answers preflight requests
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			writeJSONError(w, "Unauthorized - invalid or missing API key", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux.
// Routes must be registered from most specific to least specific.
func (s *Server) registerRoutes() {
	// Liveness probe stays open; everything else needs the API key
	s.mux.HandleFunc("GET /ping", s.handlePing)

	s.mux.HandleFunc("POST /parse", s.requireAuth(s.handleParse))

	s.mux.HandleFunc("GET /invoices/{id}/file", s.requireAuth(s.handleGetDocumentFile))
	s.mux.HandleFunc("GET /invoices/{id}", s.requireAuth(s.handleGetDocument))
	s.mux.HandleFunc("DELETE /invoices/{id}", s.requireAuth(s.handleDeleteDocument))
	s.mux.HandleFunc("GET /invoices", s.requireAuth(s.handleListDocuments))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware so OPTIONS preflights are answered
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
