package news

import (
	"context"
	"errors"
	"net/http"
	"time"

	"catchup-news/internal/common/pagination"
	"catchup-news/internal/domain/entity"
	"catchup-news/internal/handler/http/requestid"
	"catchup-news/internal/handler/http/respond"
	"catchup-news/internal/observability/logging"
	newsUC "catchup-news/internal/usecase/news"
)

// cacheControl is sent on every successful news response.
const cacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// Service is the subset of the news use case the handlers need.
type Service interface {
	Aggregate(ctx context.Context) (newsUC.Result, error)
	Query(ctx context.Context, q entity.NewsQuery) (newsUC.QueryResult, []entity.Warning, error)
}

type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
}

// ServeHTTP lists aggregated articles.
// @Summary      List news
// @Description  Runs the aggregation pipeline over every configured feed and returns one filtered page. Per-source failures are reported in warnings and never fail the request.
// @Tags         news
// @Produce      json
// @Param        id       query    string  false  "Exact article id"
// @Param        section  query    string  false  "Section slug"
// @Param        source   query    string  false  "Comma-separated source ids"
// @Param        q        query    string  false  "Case-insensitive text search over title and summary"
// @Param        page     query    int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit    query    int     false  "Items per page" default(20) minimum(1) maximum(100)
// @Success      200 {object} ListResponse
// @Failure      405 {object} respond.ErrorBody "Method not allowed"
// @Failure      500 {object} respond.ErrorBody "Source catalog unavailable"
// @Router       /api/news [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !readOnly(w, r) {
		return
	}
	ctx := r.Context()
	startTime := time.Now()
	logger := logging.FromContext(ctx)

	q := newsUC.ParseNewsQuery(r.URL.Query(), h.PaginationCfg)
	params := pagination.Params{Page: q.Page, Limit: q.Limit}

	result, warnings, err := h.Svc.Query(ctx, q)
	if err != nil {
		pagination.RecordRequest(http.StatusInternalServerError, q.Page)
		failPipeline(w, err)
		return
	}

	pagination.RecordDuration("handler", time.Since(startTime).Seconds())
	pagination.RecordRequest(http.StatusOK, q.Page)
	pagination.UpdateTotalCount(result.Total)
	pagination.LogResponse(logger, requestid.FromContext(ctx), params, result.Total,
		len(result.Articles), time.Since(startTime), http.StatusOK)

	w.Header().Set("Cache-Control", cacheControl)
	respond.JSON(w, http.StatusOK, ListResponse{
		Articles: toDTOs(result.Articles),
		Total:    result.Total,
		Page:     result.Page,
		Limit:    result.Limit,
		Warnings: nonNilWarnings(warnings),
	})
}

// readOnly answers 405 for anything but GET and HEAD.
func readOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	respond.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
	return false
}

// failPipeline maps a pipeline error to a 500 without partial data.
func failPipeline(w http.ResponseWriter, err error) {
	if errors.Is(err, newsUC.ErrCatalogUnavailable) {
		respond.SafeError(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, "news sources are unavailable", err))
		return
	}
	respond.SafeError(w, http.StatusInternalServerError, err)
}
