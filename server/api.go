package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/audiovault/audio"
	apperrors "github.com/kbukum/audiovault/errors"
	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/server/middleware"
	"github.com/kbukum/audiovault/store"
	"github.com/kbukum/audiovault/validation"
)

// Converter is the pipeline contract the API serves. *converter.Converter
// implements it.
type Converter interface {
	Convert(ctx context.Context, path string) (*store.Record, error)
	RevealByID(ctx context.Context, id string) (string, error)
	GetRecord(ctx context.Context, id string) (*store.Record, error)
	ListRecords(ctx context.Context) ([]store.Summary, error)
	Inspect(ctx context.Context, path string) (*audio.Asset, error)
}

// API holds the /api/v1 handlers.
type API struct {
	conv Converter
	log  *logger.Logger
	// slot admits one Convert or Reveal at a time.
	slot chan struct{}
}

// NewAPI creates the API handlers for conv.
func NewAPI(conv Converter, log *logger.Logger) *API {
	return &API{conv: conv, log: log.WithComponent("api"), slot: make(chan struct{}, 1)}
}

type pathRequest struct {
	Path string `json:"path"`
}

func (r *pathRequest) bind(c *gin.Context) error {
	if err := c.ShouldBindJSON(r); err != nil {
		return apperrors.InvalidInput("body", err.Error()).WithCause(err)
	}
	return validation.Path("path", r.Path)
}

type revealResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Register mounts the routes on engine. A non-empty authSecret protects
// them with HS256 bearer tokens.
func (a *API) Register(engine *gin.Engine, authSecret string) {
	v1 := engine.Group("/api/v1")
	if authSecret != "" {
		v1.Use(middleware.Auth(middleware.AuthConfig{
			TokenValidator: middleware.HS256Validator([]byte(authSecret)),
		}))
	}

	v1.POST("/inspect", a.inspect)
	v1.POST("/conversions", a.convert)
	v1.GET("/conversions", a.list)
	v1.GET("/conversions/:id", a.get)
	v1.POST("/conversions/:id/reveal", a.reveal)
}

func (a *API) inspect(c *gin.Context) {
	var req pathRequest
	if err := req.bind(c); err != nil {
		RespondWithError(c, err)
		return
	}
	asset, err := a.conv.Inspect(c.Request.Context(), req.Path)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, asset)
}

func (a *API) convert(c *gin.Context) {
	var req pathRequest
	if err := req.bind(c); err != nil {
		RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	release, err := a.acquire(ctx)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	defer release()

	rec, err := a.conv.Convert(ctx, req.Path)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, rec.Summary())
}

func (a *API) list(c *gin.Context) {
	summaries, err := a.conv.ListRecords(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOKWithMeta(c, summaries, &Meta{Total: len(summaries)})
}

func (a *API) get(c *gin.Context) {
	rec, err := a.conv.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, rec)
}

func (a *API) reveal(c *gin.Context) {
	ctx := c.Request.Context()
	release, err := a.acquire(ctx)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	defer release()

	id := c.Param("id")
	text, err := a.conv.RevealByID(ctx, id)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, revealResponse{ID: id, Text: text})
}

// acquire waits for the worker slot or for ctx to end.
func (a *API) acquire(ctx context.Context) (func(), error) {
	select {
	case a.slot <- struct{}{}:
		return func() { <-a.slot }, nil
	case <-ctx.Done():
		return nil, apperrors.Internal(ctx.Err())
	}
}
