package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/lastweeknextday/review-gateway/interfaces"
	"github.com/lastweeknextday/review-gateway/metrics"
)

const (
	// maxBodySize is the maximum allowed request body size (1MB).
	maxBodySize = 1024 * 1024

	// UnknownDomain is used when a request carries neither Origin nor Host.
	UnknownDomain = "Unknown"
)

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func badRequest(format string, args ...any) error {
	return &RequestError{StatusCode: http.StatusBadRequest, Err: fmt.Errorf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &RequestError{StatusCode: http.StatusNotFound, Err: fmt.Errorf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &RequestError{StatusCode: http.StatusConflict, Err: fmt.Errorf(format, args...)}
}

// contractError marks a failed contract call as an upstream failure.
func contractError(what string, err error) error {
	metrics.RecordUpstreamError(metrics.UpstreamContract)
	return &RequestError{StatusCode: http.StatusBadGateway, Err: fmt.Errorf("%s: %w", what, err)}
}

// contentError marks a failed content store call as an upstream failure.
func contentError(what string, err error) error {
	if errors.Is(err, interfaces.ErrContentNotFound) {
		return &RequestError{StatusCode: http.StatusNotFound, Err: fmt.Errorf("%s: %w", what, err)}
	}
	metrics.RecordUpstreamError(metrics.UpstreamContent)
	return &RequestError{StatusCode: http.StatusBadGateway, Err: fmt.Errorf("%s: %w", what, err)}
}

// Response is the envelope of every API response.
type Response struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

// apiFunc returns the message of a successful response or an error.
type apiFunc func(w http.ResponseWriter, r *http.Request) (any, error)

// Handler serves the gateway API. Reads and unsigned transactions go to the
// review contract, item metadata goes to the content store, and domain-local
// item names are resolved through the registration service.
type Handler struct {
	contract      interfaces.ReviewContract
	registrations interfaces.RegistrationService
	content       interfaces.StorageBackend
	log           *slog.Logger
}

func NewHandler(contract interfaces.ReviewContract, registrations interfaces.RegistrationService, content interfaces.StorageBackend, log *slog.Logger) *Handler {
	return &Handler{
		contract:      contract,
		registrations: registrations,
		content:       content,
		log:           log,
	}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/ping", h.serve(h.handlePing))

	r.Get("/editors", h.serve(h.handleGetEditors))
	r.Get("/editors/{address}", h.serve(h.handleIsEditor))
	r.Post("/editors", h.serve(h.handleAddEditorTx))
	r.Delete("/editors/{address}", h.serve(h.handleRemoveEditorTx))

	r.Get("/items", h.serve(h.handleGetItems))
	r.Post("/items", h.serve(h.handleAddItemTx))
	r.Post("/items/register", h.serve(h.handleRegisterItem))
	r.Get("/items/id/{itemID}", h.serve(h.handleGetItemByID))
	r.Get("/items/id/{itemID}/reviews", h.serve(h.handleGetReviewsForItemByID))
	r.Get("/items/{itemName}", h.serve(h.handleGetItem))
	r.Get("/items/{itemName}/id", h.serve(h.handleGetItemID))
	r.Get("/items/{itemName}/domains", h.serve(h.handleGetItemDomains))
	r.Get("/items/{itemName}/reviews", h.serve(h.handleGetReviewsForItem))
	r.Post("/items/{itemName}/reviews", h.serve(h.handleAddReviewTx))
	r.Get("/items/{itemName}/ipfs", h.serve(h.handleGetInfoHash))
	r.Post("/items/{itemName}/ipfs", h.serve(h.handleUpdateInfoHashTx))
	r.Get("/items/{itemName}/info", h.serve(h.handleGetItemInfo))
	r.Put("/items/{itemName}/info", h.serve(h.handleUpdateItemInfo))
	r.Get("/items/{itemName}/registration", h.serve(h.handleCheckRegistration))

	r.Get("/domains", h.serve(h.handleGetDomains))
	r.Get("/domains/id/{domainID}/reviews", h.serve(h.handleGetReviewsForDomainByID))
	r.Get("/domains/id/{domainID}/items/{itemName}/reviews", h.serve(h.handleGetReviewsForItemOfDomain))
	r.Get("/domains/id/{domainID}/items/id/{itemID}/reviews", h.serve(h.handleGetReviewsForItemOfDomain))
	r.Get("/domains/{domainName}", h.serve(h.handleGetDomain))
	r.Get("/domains/{domainName}/id", h.serve(h.handleGetDomainID))
	r.Get("/domains/{domainName}/reviews", h.serve(h.handleGetReviewsForDomain))
	r.Get("/domains/{domainName}/items/{itemName}/reviews", h.serve(h.handleGetReviewsForItemOfDomain))
	r.Get("/domains/{domainName}/items/id/{itemID}/reviews", h.serve(h.handleGetReviewsForItemOfDomain))

	r.Get("/reviews", h.serve(h.handleGetReviews))
	r.Get("/reviews/{reviewID}", h.serve(h.handleGetReview))
	r.Get("/users/{address}/reviews", h.serve(h.handleGetUserReviews))

	r.Post("/registration/assign", h.serve(h.handleAssignRegistration))
	r.Delete("/registration/queue", h.serve(h.handleRemoveFromQueue))
	r.Get("/registration/queue", h.serve(h.handleGetQueue))
	r.Get("/registration/mapping", h.serve(h.handleGetMapping))
}

// serve adapts fn to an http.HandlerFunc writing the response envelope.
func (h *Handler) serve(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, err := fn(w, r)
		if err == nil {
			writeJSON(w, http.StatusOK, Response{Success: true, Message: message})
			return
		}

		status := statusCode(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("Request failed", "err", err, "method", r.Method, "path", r.URL.Path, "status", status)
		} else {
			h.log.Debug("Request rejected", "err", err, "method", r.Method, "path", r.URL.Path, "status", status)
		}

		msg := err.Error()
		if status == http.StatusInternalServerError {
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				msg = "Internal server error"
			}
		}
		writeJSON(w, status, Response{Success: false, Message: msg})
	}
}

func statusCode(err error) int {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.StatusCode
	case errors.Is(err, interfaces.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RequestDomain returns the domain a request originates from: the Origin
// header without its scheme, else the request host without its port, else
// UnknownDomain. The value is never case-folded.
func RequestDomain(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		if _, rest, found := strings.Cut(origin, "://"); found {
			return rest
		}
		return origin
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return UnknownDomain
	}
	return host
}

// resolveItemName maps a domain-local item name to its canonical name.
// Names without an approved registration are used as given.
func (h *Handler) resolveItemName(ctx context.Context, itemName, domain string) string {
	if canonical, found := h.registrations.CheckRegistration(ctx, itemName, domain); found {
		h.log.Debug("Resolved registered item name", "proposedItemName", itemName, "domain", domain, "itemName", canonical)
		return canonical
	}
	return itemName
}

// requireEditor fails unless initiator is an authorized editor.
func (h *Handler) requireEditor(ctx context.Context, initiator common.Address) error {
	ok, err := h.contract.IsAuthorizedEditor(ctx, initiator)
	if err != nil {
		return contractError("failed to check editor status", err)
	}
	if !ok {
		return &RequestError{StatusCode: http.StatusForbidden, Err: fmt.Errorf("address %s is not an authorized editor", initiator.Hex())}
	}
	return nil
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func requireQuery(r *http.Request, key string) (string, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return "", badRequest("missing %s", key)
	}
	return v, nil
}

func parseAddress(field, v string) (common.Address, error) {
	if v == "" {
		return common.Address{}, badRequest("missing %s", field)
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, badRequest("invalid %s address %q", field, v)
	}
	return common.HexToAddress(v), nil
}

func queryAddress(r *http.Request, key string) (common.Address, error) {
	return parseAddress(key, r.URL.Query().Get(key))
}

func pathAddress(r *http.Request, key string) (common.Address, error) {
	return parseAddress(key, pathParam(r, key))
}

func parseID(field, v string) (uint64, error) {
	if v == "" {
		return 0, badRequest("missing %s", field)
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, badRequest("invalid %s %q", field, v)
	}
	return id, nil
}

func pathID(r *http.Request, key string) (uint64, error) {
	return parseID(key, pathParam(r, key))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("missing body")
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) (any, error) {
	h.log.Debug("Ping", "remoteAddr", r.RemoteAddr)
	return "Pong", nil
}
