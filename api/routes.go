package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes registers every endpoint. Writes to blogs require an admin token.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", handlers.healthHandler.getHealth())

	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)
		r.Use(MetricsMiddleware)

		// Public reads
		r.Get("/blogs", handlers.blogHandler.listBlogs())
		r.Get("/blogs/search", handlers.blogHandler.searchBlogs())
		r.Get("/blogs/{blogID}", handlers.blogHandler.getBlog())
		r.Get("/blogs/{blogID}/comments", handlers.blogHandler.listComments())
		r.Post("/blogs/{blogID}/comments", handlers.blogHandler.addComment())

		r.Get("/archives", handlers.referenceHandler.listArchives())
		r.Get("/categories", handlers.referenceHandler.listCategories())
		r.Get("/tags", handlers.referenceHandler.listTags())

		// Admin writes
		r.Group(func(r chi.Router) {
			r.Use(auth.authenticate)
			r.Post("/blogs", handlers.blogHandler.createBlog())
			r.Put("/blogs/{blogID}", handlers.blogHandler.updateBlog())
			r.Delete("/blogs/{blogID}", handlers.blogHandler.deleteBlog())
		})
	})
}
