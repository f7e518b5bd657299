package news

import (
	"net/http"

	"catchup-news/internal/common/pagination"
)

// Register registers the news handlers with the given mux. Routes are
// registered without a method so non-GET requests get a JSON 405.
func Register(mux *http.ServeMux, svc Service, cfg pagination.Config) {
	mux.Handle("/api/news", ListHandler{Svc: svc, PaginationCfg: cfg})
	mux.Handle("/api/news/featured", NewFeaturedHandler(svc, cfg))
	mux.Handle("/api/news/home", NewHomeHandler(svc, cfg))
	mux.Handle("/api/news/most-read", NewMostReadHandler(svc, cfg, nil))
}
