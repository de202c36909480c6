package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	secret    []byte
}

func newAuthMiddleware(secret string) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	if secret == "" {
		logger.Warn().Msg("ADMIN_JWT_SECRET is not set, blog writes will be rejected")
	}
	return authMiddleware{
		responder: NewResponder(logger),
		logger:    logger,
		secret:    []byte(secret),
	}
}

// authenticate accepts requests carrying an HS256 bearer token signed with the admin secret
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if !strings.HasPrefix(authHeader, "Bearer ") || tokenString == "" {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		if len(m.secret) == 0 {
			m.responder.WriteError(w, errs.NewInvalidTokenError(errors.New("no admin secret configured")))
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			m.logger.Debug().Err(err).Msg("Rejected admin token")
			m.responder.WriteError(w, errs.NewInvalidTokenError(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithAdminSubject(r.Context(), claims.Subject)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

func originAllowed(allowedOrigins []string, origin string) bool {
	return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
}

// CORSCheckMiddleware rejects preflight requests from origins that are not allowed
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(allowedOrigins, origin) && r.Method == http.MethodOptions {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware sets CORS headers for allowed origins and answers preflight requests
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return originAllowed(allowedOrigins, origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// HTTPLoggingMiddleware logs every request at a level chosen by its status code
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	logger := log.With().Str("component", "http").Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = logger.Error()
		case srw.status >= 400:
			logEvent = logger.Warn()
		default:
			logEvent = logger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"path", "method", "status"})
)

// MetricsMiddleware records request rate, errors and duration per route pattern
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			path = routeCtx.RoutePattern()
		}

		status := strconv.Itoa(ww.Status())
		httpDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(path, r.Method, status).Inc()
	})
}
