package pfp

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pfp/asset"
	h "pfp/helpers"
	"pfp/resolver"
)

const cacheControl = "public, s-maxage=86400, stale-while-revalidate=604800"

// Resolver is the part of *resolver.Resolver the handler needs.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (resolver.Result, error)
}

// PFP handler contains dependencies for the picture endpoint.
type PFP struct {
	Resolver Resolver
	Asset    asset.Config
	Log      *zap.Logger
}

func New(r Resolver, ac asset.Config, log *zap.Logger) *PFP {
	if log == nil {
		log = zap.NewNop()
	}
	return &PFP{
		Resolver: r,
		Asset:    ac,
		Log:      log,
	}
}

type pictureQuery struct {
	URL      string `query:"url" validate:"required"`
	Redirect string `query:"redirect"`
}

type pictureResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

// GET /api/pfp?url=<profile-url>&redirect=1
func (p *PFP) Get(c echo.Context) error {
	var q pictureQuery
	if err := h.BindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := p.Resolver.Resolve(c.Request().Context(), q.URL)
	if err != nil {
		return p.resolveError(c, err)
	}

	p.Log.Debug("profile resolved",
		zap.String("id", res.ID),
		zap.String("key", res.Key),
		zap.String("rule", res.Rule),
		zap.Bool("looked_up", res.LookedUp),
		zap.Bool("off_site", res.OffSite),
	)

	imageURL := asset.BuildURL(res.ID, p.Asset)
	c.Response().Header().Set("Cache-Control", cacheControl)

	if wantsRedirect(q.Redirect) {
		return c.Redirect(http.StatusFound, imageURL)
	}
	return c.JSON(http.StatusOK, pictureResponse{ID: res.ID, ImageURL: imageURL})
}

func wantsRedirect(v string) bool {
	return v == "1" || v == "true"
}

func (p *PFP) resolveError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, resolver.ErrInvalidURL):
		return h.JSONError(c, http.StatusBadRequest, "Invalid URL.")
	case errors.Is(err, resolver.ErrExtractionFailed):
		return h.JSONError(c, http.StatusBadRequest, "Could not extract username/ID from URL.")
	case errors.Is(err, resolver.ErrNotFound):
		return h.JSONError(c, http.StatusNotFound, "Could not extract Facebook Profile ID.")
	case errors.Is(err, resolver.ErrLookupUnavailable):
		p.Log.Warn("profile lookup failed", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "Internal Server Error")
	default:
		p.Log.Error("resolve failed", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
