package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener/internal/shortener"
)

// ReservedPaths are the first path segments served by fixed routes, huma's
// docs and schema endpoints included. A short code equal to one never redirects.
var ReservedPaths = []shortener.Code{"shorten", "api", "analytics", "health", "docs", "openapi", "schemas"}

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Returns the short code for a URL, reusing the existing code for equivalent URLs.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-url-stats",
		Method:      http.MethodGet,
		Path:        "/api/urls/{code}",
		Summary:     "Get short URL details",
		Description: "Returns the mapping and its click count without recording a click.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetURLStats)

	huma.Register(api, huma.Operation{
		OperationID: "top-urls",
		Method:      http.MethodGet,
		Path:        "/analytics",
		Summary:     "Most clicked URLs",
		Tags:        []string{"Analytics"},
	}, urlHandler.TopURLs)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code and counts the click.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
