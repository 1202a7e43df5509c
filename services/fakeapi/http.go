package fakeapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvbf/event-seed/repos/eventapi"
)

const maxUploadSize = 10 << 20

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// API is the event API served by the fake server.
type API interface {
	CreateUser(ctx context.Context, req eventapi.CreateUserRequest) (*eventapi.User, error)
	FindUser(ctx context.Context, req eventapi.FindRequest) (*eventapi.User, error)
	CreateTag(ctx context.Context, req eventapi.CreateTagRequest) (*eventapi.Tag, error)
	FindTag(ctx context.Context, req eventapi.FindRequest) (*eventapi.Tag, error)
	CreateEvent(ctx context.Context, req eventapi.CreateEventRequest) (*eventapi.Event, error)
	FindEvent(ctx context.Context, req eventapi.FindRequest) (*eventapi.Event, error)
	UploadImage(ctx context.Context, eventID, name, contentType string, data []byte) (string, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service API

	// The router instance to configure the HTTP routes.
	Router Router

	Logger *slog.Logger
}

// NewHTTPHandler registers the RPC procedures and the image upload route.
func NewHTTPHandler(opts HTTPOptions) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := opts.Router
	h := &httpHandler{opts}

	for procedure, handler := range newRPCHandlers(opts.Service) {
		r.POST(procedure, gin.WrapH(handler))
	}
	r.POST("/events/:event_id/images", h.uploadImageHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) uploadImageHandler(c *gin.Context) {
	eventID := c.Param("event_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	imageID, err := h.Service.UploadImage(c.Request.Context(), eventID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, ErrInvalidArgument):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.Logger.Error("could not store image", "event_id", eventID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": imageID})
}
