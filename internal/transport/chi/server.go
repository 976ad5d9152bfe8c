package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	contentuc "github.com/kailas-cloud/tradex/internal/usecase/content"
	healthuc "github.com/kailas-cloud/tradex/internal/usecase/health"
	popularityuc "github.com/kailas-cloud/tradex/internal/usecase/popularity"
	searchuc "github.com/kailas-cloud/tradex/internal/usecase/search"
)

// errorCode is the machine-readable error identifier in API error bodies.
type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeInvalidReceipt          errorCode = "invalid_receipt"
	codeReceiptMismatch         errorCode = "receipt_mismatch"
	codeVerificationUnavailable errorCode = "verification_unavailable"
	codeInvalidFilter           errorCode = "invalid_filter"
	codeUnknownCategory         errorCode = "unknown_category"
	codeSchemaUnavailable       errorCode = "schema_unavailable"
	codeListingNotFound         errorCode = "listing_not_found"
	codePostNotFound            errorCode = "post_not_found"
	codePaymentRequired         errorCode = "payment_required"
	codeInternalError           errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Allowed []string  `json:"allowed,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the trader and premium APIs over HTTP.
type Server struct {
	search          *searchuc.Service
	content         *contentuc.Service
	popular         *popularityuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	errorHandlers   []errorHandler
	defaultPageSize int
	maxPageSize     int
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	content *contentuc.Service,
	popular *popularityuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		content:         content,
		popular:         popular,
		health:          health,
		logger:          logger,
		defaultPageSize: 16,
		maxPageSize:     100,
	}
	s.errorHandlers = []errorHandler{
		filterValidationHandler,
		sentinelHandler(domain.ErrInvalidReceipt, http.StatusBadRequest, codeInvalidReceipt),
		sentinelHandler(domain.ErrReceiptMismatch, http.StatusForbidden, codeReceiptMismatch),
		sentinelHandler(domain.ErrVerificationUnavailable, http.StatusServiceUnavailable, codeVerificationUnavailable),
		sentinelHandler(domain.ErrUnknownCategory, http.StatusBadRequest, codeUnknownCategory),
		sentinelHandler(domain.ErrSchemaUnavailable, http.StatusServiceUnavailable, codeSchemaUnavailable),
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, codeListingNotFound),
		sentinelHandler(domain.ErrPostNotFound, http.StatusNotFound, codePostNotFound),
		sentinelHandler(domain.ErrPaymentRequired, http.StatusPaymentRequired, codePaymentRequired),
	}
	return s
}

// WithPagination overrides the default and maximum page sizes for the
// endpoints that page outside the search service.
func (s *Server) WithPagination(defaultSize, maxSize int) *Server {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

func (s *Server) paginate(page, perPage int) (offset, limit int) {
	if perPage <= 0 {
		perPage = s.defaultPageSize
	}
	if perPage > s.maxPageSize {
		perPage = s.maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return perPage * (page - 1), perPage
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/trader", s.ListAds)
	r.Get("/trader/dealer", s.ListDealerAds)
	r.Get("/trader/private", s.ListPrivateAds)
	r.Get("/trader/search", s.SearchAds)
	r.Get("/trader/search/options", s.SearchOptions)
	r.Get("/trader/{id}", s.GetAd)
	r.Get("/premium/cat", s.ListPostCategories)
	r.Get("/premium/cat/{id}", s.ListPostsByCategory)
	r.Get("/premium/{id}", s.GetPost)
	r.Get("/popular", s.PopularPosts)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListAds handles GET /trader.
func (s *Server) ListAds(w http.ResponseWriter, r *http.Request) {
	s.listAds(w, r, "")
}

// ListDealerAds handles GET /trader/dealer.
func (s *Server) ListDealerAds(w http.ResponseWriter, r *http.Request) {
	s.listAds(w, r, domain.ListingDealer)
}

// ListPrivateAds handles GET /trader/private.
func (s *Server) ListPrivateAds(w http.ResponseWriter, r *http.Request) {
	s.listAds(w, r, domain.ListingPrivate)
}

func (s *Server) listAds(w http.ResponseWriter, r *http.Request, listingType domain.ListingType) {
	page, perPage := parsePaging(r.URL.Query())

	result, err := s.search.List(r.Context(), listingType, page, perPage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adPageToResponse(result, page))
}

// GetAd handles GET /trader/{id}.
func (s *Server) GetAd(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "listing id must be an integer")
		return
	}

	ad, err := s.search.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adToResponse(ad))
}

// SearchAds handles GET /trader/search.
func (s *Server) SearchAds(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query())

	result, err := s.search.Search(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adPageToResponse(result, filter.Page))
}

// SearchOptions handles GET /trader/search/options.
func (s *Server) SearchOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.search.Options(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opts)
}

// ListPostCategories handles GET /premium/cat.
func (s *Server) ListPostCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.content.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]postCategoryResponse, len(cats))
	for i, c := range cats {
		items[i] = postCategoryToResponse(c)
	}
	writeJSON(w, http.StatusOK, postCategoryListResponse{Items: items})
}

// ListPostsByCategory handles GET /premium/cat/{id}.
func (s *Server) ListPostsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "category id must be an integer")
		return
	}

	page, perPage := parsePaging(r.URL.Query())
	offset, limit := s.paginate(page, perPage)

	result, err := s.content.PostsByCategory(r.Context(), categoryID, offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postPageToResponse(result, page))
}

// GetPost handles GET /premium/{id}. Locked posts require a receipt, passed
// in the X-Receipt-Data header or the receipt query parameter.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "post id must be an integer")
		return
	}

	rawReceipt := r.Header.Get("X-Receipt-Data")
	if rawReceipt == "" {
		rawReceipt = r.URL.Query().Get("receipt")
	}

	post, err := s.content.GetPost(r.Context(), id, rawReceipt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postToResponse(post, true))
}

// PopularPosts handles GET /popular.
func (s *Server) PopularPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePaging(r.URL.Query())
	offset, limit := s.paginate(page, perPage)

	result, err := s.popular.Top(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postPageToResponse(result, page))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidReceipt,
		domain.ErrReceiptMismatch,
		domain.ErrVerificationUnavailable,
		domain.ErrInvalidFilter,
		domain.ErrUnknownCategory,
		domain.ErrSchemaUnavailable,
		domain.ErrListingNotFound,
		domain.ErrPostNotFound,
		domain.ErrPaymentRequired,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// filterValidationHandler handles ErrInvalidFilter with the offending field
// and, for enum rules, the allowed values.
func filterValidationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidFilter) {
		return false
	}
	var fve *domain.FilterValidationError
	if errors.As(err, &fve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    codeInvalidFilter,
			Message: fve.Error(),
			Field:   fve.Field,
			Allowed: fve.Allowed,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeInvalidFilter, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
