// Package api exposes the chatbot and catalog listing endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fashionstore-chatbot/internal/catalog"
	"fashionstore-chatbot/internal/chatbot"
	"fashionstore-chatbot/internal/chatbot/filter"
	apperrors "fashionstore-chatbot/internal/common/errors"
	"fashionstore-chatbot/internal/common/logger"
)

const maxMessageBodySize = 64 << 10 // 64KB

// Pinger is a health-checkable backend dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ChatRequest is one shopper message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the composed reply for one message.
type ChatResponse struct {
	Response string `json:"response"`
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Service  *chatbot.Service
	Store    catalog.Store
	PageSize int
	Log      logger.Logger
	Pingers  map[string]Pinger // name -> backend, checked by /healthz
}

// NewRouter builds the service's HTTP handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(deps.Log))
	r.Use(Recoverer(deps.Log))

	r.Post("/api/chatbot", handleChat(deps))
	r.Get("/api/products", handleListProducts(deps))
	r.Get("/api/products/{id}", handleGetProduct(deps))
	r.Get("/healthz", handleHealthz(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxMessageBodySize)
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "unreadable request body")
			return
		}
		// The JSON decoder silently replaces invalid UTF-8, so the raw bytes
		// are checked first.
		if !utf8.Valid(body) {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "message must be valid UTF-8")
			return
		}

		var req ChatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "invalid request body")
			return
		}

		reply := deps.Service.HandleMessage(r.Context(), req.Message)
		writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
	}
}

// handleListProducts serves a capped product listing filtered through the same
// expression tree as the chatbot. Supported query params: q, color, size,
// min_price, max_price.
func handleListProducts(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var parts []filter.Expr
		if term := strings.TrimSpace(q.Get("q")); term != "" {
			parts = append(parts, filter.ContainsAnyField(strings.ToLower(term),
				filter.FieldName, filter.FieldDescription, filter.FieldCategory, filter.FieldSubcategory))
		}
		if color := strings.TrimSpace(q.Get("color")); color != "" {
			parts = append(parts, filter.Equals{Field: filter.FieldColor, Value: strings.ToLower(color)})
		}
		if size := strings.TrimSpace(q.Get("size")); size != "" {
			parts = append(parts, filter.Equals{Field: filter.FieldSize, Value: strings.ToUpper(size)})
		}

		minPrice, okMin, err := parsePrice(q.Get("min_price"))
		if err != nil {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "min_price must be a number")
			return
		}
		maxPrice, okMax, err := parsePrice(q.Get("max_price"))
		if err != nil {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "max_price must be a number")
			return
		}
		if okMin || okMax {
			if !okMax {
				maxPrice = maxListingPrice
			}
			parts = append(parts, filter.Between{Field: filter.FieldPrice, Min: minPrice, Max: maxPrice})
		}

		var expr filter.Expr
		switch len(parts) {
		case 0:
			// Unfiltered listing: match everything available.
			expr = filter.Between{Field: filter.FieldPrice, Min: 0, Max: maxListingPrice}
		case 1:
			expr = parts[0]
		default:
			expr = filter.And{Exprs: parts}
		}

		products, err := deps.Store.Search(r.Context(), expr, deps.PageSize)
		if err != nil {
			deps.Log.WithError(err).Error("product listing query failed", nil)
			writeError(w, http.StatusBadGateway, string(apperrors.ErrCodeCatalogQueryFailed), "catalog unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"products": products,
			"count":    len(products),
		})
	}
}

const maxListingPrice = 1e9

func parsePrice(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false, apperrors.NewInvalidRequestFormatError("price out of range")
	}
	return v, true, nil
}

func handleGetProduct(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidRequestFormat), "id must be a positive integer")
			return
		}

		product, err := deps.Store.Get(r.Context(), id)
		if err != nil {
			if apperrors.IsCode(err, apperrors.ErrCodeProductNotFound) {
				writeError(w, http.StatusNotFound, string(apperrors.ErrCodeProductNotFound), "product not found")
				return
			}
			deps.Log.WithError(err).Error("product lookup failed", map[string]interface{}{"id": id})
			writeError(w, http.StatusBadGateway, string(apperrors.ErrCodeCatalogQueryFailed), "catalog unavailable")
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func handleHealthz(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{}
		healthy := true
		for name, p := range deps.Pingers {
			if err := p.Ping(r.Context()); err != nil {
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":   map[bool]string{true: "ok", false: "degraded"}[healthy],
			"backends": status,
		})
	}
}
