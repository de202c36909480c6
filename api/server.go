package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/blog-service/config"
	"github.com/rpupo63/blog-service/services"
	"github.com/rs/zerolog/log"
)

// serverOptions holds everything the HTTP layer reads from configuration
type serverOptions struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	jwtSecret       string
	acceptedOrigins []string
}

func newServerOptions(c map[string]string) serverOptions {
	seconds := func(key string) time.Duration {
		return time.Duration(config.GetInt(c, key, 180)) * time.Second
	}
	return serverOptions{
		addr:            net.JoinHostPort("0.0.0.0", config.GetString(c, "PORT", "8080")),
		readTimeout:     seconds("READ_TIMEOUT_SECONDS"),
		writeTimeout:    seconds("WRITE_TIMEOUT_SECONDS"),
		idleTimeout:     seconds("IDLE_TIMEOUT_SECONDS"),
		shutdownTimeout: config.GetMillis(c, "SHUTDOWN_TIMEOUT_MS", 30*time.Second),
		jwtSecret:       config.GetString(c, "ADMIN_JWT_SECRET", ""),
		acceptedOrigins: config.GetStrings(c, "ACCEPTED_ORIGINS"),
	}
}

type Server struct {
	*http.Server
	startupTime     time.Time
	shutdownTimeout time.Duration
}

func NewServer(c map[string]string, blogs *services.BlogService) Server {
	opts := newServerOptions(c)
	startupTime := time.Now()

	return Server{
		Server: &http.Server{
			Addr:         opts.addr,
			Handler:      newRouter(blogs, opts, startupTime),
			ReadTimeout:  opts.readTimeout,
			WriteTimeout: opts.writeTimeout,
			IdleTimeout:  opts.idleTimeout,
		},
		startupTime:     startupTime,
		shutdownTimeout: opts.shutdownTimeout,
	}
}

func newRouter(blogs *services.BlogService, opts serverOptions, startupTime time.Time) *chi.Mux {
	r := chi.NewRouter()
	r.Use(LogInternalServerErrors)
	r.Use(CORSCheckMiddleware(opts.acceptedOrigins))
	r.Use(corsMiddleware(opts.acceptedOrigins))

	setupRoutes(r, initializeHandlers(blogs, startupTime), newAuthMiddleware(opts.jwtSecret))
	return r
}

// Start blocks serving requests and reports why it stopped on errChannel
func (s Server) Start(errChannel chan<- error) {
	log.Info().Str("addr", s.Addr).Msg("Server started")
	errChannel <- s.ListenAndServe()
}

// ShutdownGracefully waits up to SHUTDOWN_TIMEOUT_MS for in-flight requests
func (s Server) ShutdownGracefully() {
	log.Info().Msg("Gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down the server")
		return
	}
	log.Info().Msg("HTTP server shut down")
}
