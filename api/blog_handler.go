package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-service/errs"
	"github.com/rpupo63/blog-service/models"
	"github.com/rpupo63/blog-service/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogs     *services.BlogService
}

func newBlogHandler(blogs *services.BlogService) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blogs:     blogs,
	}
}

func blogIDParam(r *http.Request) (uuid.UUID, error) {
	return uuidParam(chi.URLParam(r, "blogID"), "blogID")
}

func uuidParam(value, name string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func optionalUUIDQuery(r *http.Request, name string) (uuid.UUID, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return uuid.Nil, nil
	}
	return uuidParam(value, name)
}

func optionalIntQuery(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return n, nil
}

// parseListQuery reads ?title=&categoryId=&archiveId=&tagId=&page=&size=&sort=field,dir
func parseListQuery(r *http.Request) (models.BlogFilter, models.PageRequest, error) {
	var filter models.BlogFilter
	var page models.PageRequest
	var err error

	filter.Title = r.URL.Query().Get("title")
	if filter.CategoryID, err = optionalUUIDQuery(r, "categoryId"); err != nil {
		return filter, page, err
	}
	if filter.ArchiveID, err = optionalUUIDQuery(r, "archiveId"); err != nil {
		return filter, page, err
	}
	if filter.TagID, err = optionalUUIDQuery(r, "tagId"); err != nil {
		return filter, page, err
	}
	if page.Page, err = optionalIntQuery(r, "page"); err != nil {
		return filter, page, err
	}
	if page.Size, err = optionalIntQuery(r, "size"); err != nil {
		return filter, page, err
	}
	page.Sort = models.ParseSort(r.URL.Query()["sort"])
	return filter, page, nil
}

// listBlogs returns one page of blogs matching the query filters
func (h blogHandler) listBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, page, err := parseListQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogs, err := h.blogs.List(r.Context(), filter, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, blogs)
	}
}

// searchBlogs runs a keyword query against the search index
func (h blogHandler) searchBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := optionalIntQuery(r, "limit")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		docs, err := h.blogs.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, docs)
	}
}

// getBlog returns one blog and counts the read unless ?count=false
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		bump := r.URL.Query().Get("count") != "false"

		blog, err := h.blogs.Detail(r.Context(), blogID, bump)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, blog)
	}
}

func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BlogRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.save(w, r, req.toBlog(uuid.Nil), http.StatusCreated)
	}
}

func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req BlogRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.save(w, r, req.toBlog(blogID), http.StatusOK)
	}
}

func (h blogHandler) save(w http.ResponseWriter, r *http.Request, blog *models.Blog, status int) {
	result, err := h.blogs.Save(r.Context(), blog)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	h.logger.Info().
		Str("blogID", result.Blog.ID.String()).
		Str("admin", ctxGetAdminSubject(r.Context())).
		Bool("indexed", result.Mirrored()).
		Msg("Blog saved")

	response := SaveBlogResponse{Blog: result.Blog, Indexed: result.Mirrored()}
	if result.MirrorErr != nil {
		response.IndexError = result.MirrorErr.Error()
	}
	h.responder.WriteJSONWithStatus(w, status, response)
}

// deleteBlog removes the blog; comments and search documents stay
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.blogs.DeleteByID(r.Context(), blogID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("blogID", blogID.String()).Str("admin", ctxGetAdminSubject(r.Context())).Msg("Blog deleted")
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "blog deleted successfully",
		})
	}
}

func (h blogHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.blogs.Comments(r.Context(), blogID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}
		h.responder.WriteJSON(w, comments)
	}
}

func (h blogHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := blogIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req CommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := h.blogs.AddComment(r.Context(), blogID, &models.Comment{Author: req.Author, Content: req.Content})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, CommentCreatedResponse{ID: id})
	}
}
