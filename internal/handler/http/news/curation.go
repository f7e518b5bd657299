package news

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"catchup-news/internal/common/pagination"
	"catchup-news/internal/domain/entity"
	"catchup-news/internal/handler/http/respond"
	"catchup-news/internal/usecase/curation"
	newsUC "catchup-news/internal/usecase/news"
)

// Limits accepted by the ?limit= parameter of the curated endpoints.
const (
	DefaultMostReadLimit = 10
	MaxMostReadLimit     = 50
	MaxHomeLimit         = 30
)

// selection picks a curated subset of the aggregated, newest-first articles.
type selection func(articles []entity.Article, limit int) []entity.Article

// selectionHandler runs the pipeline, applies the optional section and source
// pre-filters and hands the result to a selection.
type selectionHandler struct {
	svc          Service
	cfg          pagination.Config
	name         string
	defaultLimit int
	maxLimit     int // 0 means the limit parameter is ignored
	sel          selection
}

func (h selectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	ctx := r.Context()
	startTime := time.Now()

	res, err := h.svc.Aggregate(ctx)
	if err != nil {
		failPipeline(w, err)
		return
	}

	values := r.URL.Query()
	parsed := newsUC.ParseNewsQuery(values, h.cfg)
	filtered := newsUC.Match(res.Articles, entity.NewsQuery{
		Section:   parsed.Section,
		SourceIDs: parsed.SourceIDs,
	})
	selected := h.sel(filtered, h.limit(values))
	pagination.RecordDuration(h.name, time.Since(startTime).Seconds())

	w.Header().Set("Cache-Control", cacheControl)
	respond.JSON(w, http.StatusOK, SelectionResponse{
		Articles: toDTOs(selected),
		Warnings: nonNilWarnings(res.Warnings),
	})
}

// limit reads ?limit=, falling back to the default for missing or garbage
// values and clamping to maxLimit.
func (h selectionHandler) limit(values url.Values) int {
	if h.maxLimit == 0 {
		return h.defaultLimit
	}
	n, err := strconv.Atoi(values.Get("limit"))
	if err != nil || n < 1 {
		return h.defaultLimit
	}
	return min(n, h.maxLimit)
}

// NewFeaturedHandler serves the hero selection.
// @Summary      Featured news
// @Description  Up to five image-bearing articles, one per section first, at most two per source.
// @Tags         news
// @Produce      json
// @Param        section  query    string  false  "Section slug"
// @Param        source   query    string  false  "Comma-separated source ids"
// @Success      200 {object} SelectionResponse
// @Failure      405 {object} respond.ErrorBody "Method not allowed"
// @Failure      500 {object} respond.ErrorBody "Source catalog unavailable"
// @Router       /api/news/featured [get]
func NewFeaturedHandler(svc Service, cfg pagination.Config) http.Handler {
	return selectionHandler{
		svc:          svc,
		cfg:          cfg,
		name:         "featured",
		defaultLimit: curation.FeaturedLimit,
		sel:          curation.SelectFeatured,
	}
}

// NewHomeHandler serves the mixed home feed.
// @Summary      Home feed
// @Description  A diverse mix laid out in rows of three, at most two articles per source and per section.
// @Tags         news
// @Produce      json
// @Param        section  query    string  false  "Section slug"
// @Param        source   query    string  false  "Comma-separated source ids"
// @Param        limit    query    int     false  "Number of articles" default(15) minimum(1) maximum(30)
// @Success      200 {object} SelectionResponse
// @Failure      405 {object} respond.ErrorBody "Method not allowed"
// @Failure      500 {object} respond.ErrorBody "Source catalog unavailable"
// @Router       /api/news/home [get]
func NewHomeHandler(svc Service, cfg pagination.Config) http.Handler {
	return selectionHandler{
		svc:          svc,
		cfg:          cfg,
		name:         "home",
		defaultLimit: curation.HomeMixedLimit,
		maxLimit:     MaxHomeLimit,
		sel:          curation.SelectHomeMixed,
	}
}

// NewMostReadHandler serves the most-read ranking. now is injectable for tests;
// nil means time.Now.
// @Summary      Most read
// @Description  Ranks articles by recency and source activity, at most three per source.
// @Tags         news
// @Produce      json
// @Param        section  query    string  false  "Section slug"
// @Param        source   query    string  false  "Comma-separated source ids"
// @Param        limit    query    int     false  "Number of articles" default(10) minimum(1) maximum(50)
// @Success      200 {object} SelectionResponse
// @Failure      405 {object} respond.ErrorBody "Method not allowed"
// @Failure      500 {object} respond.ErrorBody "Source catalog unavailable"
// @Router       /api/news/most-read [get]
func NewMostReadHandler(svc Service, cfg pagination.Config, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	return selectionHandler{
		svc:          svc,
		cfg:          cfg,
		name:         "most_read",
		defaultLimit: DefaultMostReadLimit,
		maxLimit:     MaxMostReadLimit,
		sel: func(articles []entity.Article, limit int) []entity.Article {
			return curation.RankMostRead(articles, now(), limit)
		},
	}
}
