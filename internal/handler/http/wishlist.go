package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/andreinadaban/wishlist-service/pkg/errors"
	"github.com/andreinadaban/wishlist-service/pkg/validator"

	"github.com/andreinadaban/wishlist-service/internal/domain"
	"github.com/andreinadaban/wishlist-service/internal/service"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service    *service.WishlistService
	cookieName string
	logger     *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler. cookieName is
// exposed through the bootstrap endpoint so the storefront script knows which
// cookie carries the guest token.
func NewWishlistHandler(svc *service.WishlistService, cookieName string, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service:    svc,
		cookieName: cookieName,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CommandRequest is the JSON request body for the multiplexed command endpoint.
type CommandRequest struct {
	Do        string `json:"do" validate:"required,oneof=add remove clear check snapshot"`
	ProductID string `json:"product_id" validate:"omitempty,max=128"`
}

// MergeRequest is the JSON request body for merging a guest wishlist into the
// authenticated customer's wishlist.
type MergeRequest struct {
	GuestToken string `json:"guest_token" validate:"required,max=128"`
}

// --- Response DTOs ---

// WishlistResponse is the JSON shape of a wishlist snapshot.
type WishlistResponse struct {
	OwnerKind string   `json:"owner_kind"`
	Items     []string `json:"items"`
	Count     int      `json:"count"`
}

// CheckResponse is the JSON shape of a membership probe.
type CheckResponse struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
}

// BootstrapResponse carries the data the storefront script needs on page load.
type BootstrapResponse struct {
	OwnerKind  string   `json:"owner_kind"`
	CookieName string   `json:"cookie_name"`
	Items      []string `json:"items"`
	Count      int      `json:"count"`
}

func newWishlistResponse(w *domain.Wishlist) WishlistResponse {
	return WishlistResponse{
		OwnerKind: string(w.Owner.Kind),
		Items:     w.Items(),
		Count:     w.Len(),
	}
}

// --- Response envelope ---

type response struct {
	OK    bool           `json:"ok"`
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func ok(data any) response {
	return response{OK: true, Data: data}
}

// --- Handlers ---

// Command handles POST /api/v1/wishlist/commands. One endpoint multiplexes
// the whole closed command set so the storefront wires a single URL.
func (h *WishlistHandler) Command(w http.ResponseWriter, r *http.Request) {
	session, found := sessionFromContext(r.Context())
	if !found {
		h.writeError(w, r, apperrors.IdentityUnresolved(errors.New("no session in request context")))
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.service.Dispatch(r.Context(), session.Owner, service.Command{
		Do:        req.Do,
		ProductID: req.ProductID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(result))
}

// Snapshot handles GET /api/v1/wishlist
func (h *WishlistHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	session, found := sessionFromContext(r.Context())
	if !found {
		h.writeError(w, r, apperrors.IdentityUnresolved(errors.New("no session in request context")))
		return
	}

	wishlist, err := h.service.Snapshot(r.Context(), session.Owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(newWishlistResponse(wishlist)))
}

// CheckItem handles GET /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	session, found := sessionFromContext(r.Context())
	if !found {
		h.writeError(w, r, apperrors.IdentityUnresolved(errors.New("no session in request context")))
		return
	}

	productID := chi.URLParam(r, "productId")
	in, err := h.service.Contains(r.Context(), session.Owner, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(CheckResponse{ProductID: productID, InWishlist: in}))
}

// Merge handles POST /api/v1/wishlist/merge. Only an authenticated customer
// can absorb a guest wishlist; the guest token arrives in the body because
// the session cookie already carries the customer identity at this point.
func (h *WishlistHandler) Merge(w http.ResponseWriter, r *http.Request) {
	session, found := sessionFromContext(r.Context())
	if !found {
		h.writeError(w, r, apperrors.IdentityUnresolved(errors.New("no session in request context")))
		return
	}

	if session.Owner.Kind != domain.OwnerCustomer {
		h.writeError(w, r, apperrors.Unauthorized("merge requires an authenticated customer"))
		return
	}

	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	merged, err := h.service.Merge(r.Context(), domain.GuestOwner(req.GuestToken), session.Owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(newWishlistResponse(merged)))
}

// Bootstrap handles GET /api/v1/wishlist/bootstrap. The storefront script
// calls it once per page load to learn the cookie name and the current set.
func (h *WishlistHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	session, found := sessionFromContext(r.Context())
	if !found {
		h.writeError(w, r, apperrors.IdentityUnresolved(errors.New("no session in request context")))
		return
	}

	wishlist, err := h.service.Snapshot(r.Context(), session.Owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(BootstrapResponse{
		OwnerKind:  string(session.Owner.Kind),
		CookieName: h.cookieName,
		Items:      wishlist.Items(),
		Count:      wishlist.Len(),
	}))
}

// AdminSnapshot handles GET /api/v1/admin/wishlists/{kind}/{id}. Support
// staff use it to inspect any owner's wishlist; RequireAdmin gates the route.
func (h *WishlistHandler) AdminSnapshot(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	owner, err := domain.ParseOwnerKey(kind + ":" + id)
	if err != nil {
		h.writeError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}

	wishlist, err := h.service.Snapshot(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ok(newWishlistResponse(wishlist)))
}

// --- Helpers ---

func (h *WishlistHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "request failed",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message, Retryable: appErr.Retryable},
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	writeJSON(w, http.StatusInternalServerError, response{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func (h *WishlistHandler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
