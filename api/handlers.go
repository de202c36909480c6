package api

import (
	"time"

	"github.com/rpupo63/blog-service/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(blogs *services.BlogService, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		blogHandler:      newBlogHandler(blogs),
		referenceHandler: newReferenceHandler(blogs),
		healthHandler:    newHealthHandler(startupTime),
	}
}
