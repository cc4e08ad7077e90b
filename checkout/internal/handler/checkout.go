package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"convenience_store/checkout/internal/auth"
	"convenience_store/checkout/internal/logic"
	"convenience_store/checkout/internal/session"
	"convenience_store/checkout/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeader lets a client retry POST /api/checkout safely.
const IdempotencyHeader = "Idempotency-Key"

var errMembershipRequiresToken = errors.New("membership discount requires a member token")

// ReceiptCache keeps confirmed receipts and idempotency markers.
type ReceiptCache interface {
	SaveReceipt(ctx context.Context, r store.StoredReceipt) error
	GetReceipt(ctx context.Context, orderID string) (*store.StoredReceipt, error)
	TryMarkConfirmed(ctx context.Context, key, orderID string) (bool, error)
	ConfirmedOrder(ctx context.Context, key string) (string, error)
	ReleaseMarker(ctx context.Context, key string)
}

type CheckoutHandler struct {
	pricer *session.Pricer
	cache  ReceiptCache
	logger *zap.Logger
}

// NewCheckoutHandler serves the checkout API. cache may be nil.
func NewCheckoutHandler(pricer *session.Pricer, cache ReceiptCache, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{pricer: pricer, cache: cache, logger: logger}
}

type itemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
}

type checkoutRequest struct {
	Items      []itemRequest `json:"items" binding:"required,min=1,dive"`
	Membership bool          `json:"membership"`
}

type productResponse struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Stock     int    `json:"stock"`
	Promotion string `json:"promotion,omitempty"`
}

type checkoutResponse struct {
	OrderID    string        `json:"order_id,omitempty"`
	Membership bool          `json:"membership"`
	Receipt    logic.Receipt `json:"receipt"`
	CreatedAt  *time.Time    `json:"created_at,omitempty"`
}

// ListProducts returns every catalog entry with its current stock.
func (h *CheckoutHandler) ListProducts(c *gin.Context) {
	entries := h.pricer.Catalog.Entries()
	out := make([]productResponse, 0, len(entries))
	for _, e := range entries {
		p := productResponse{Name: e.Name(), UnitPrice: e.UnitPrice(), Stock: e.Stock()}
		if promo := e.Promotion(); promo != nil {
			p.Promotion = fmt.Sprintf("%d+1", promo.RequiredQuantity())
		}
		out = append(out, p)
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": out})
}

// Preview prices the requested items without touching stock.
func (h *CheckoutHandler) Preview(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	s, err := h.fill(req)
	if err != nil {
		h.fail(c, "preview", err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{Membership: req.Membership, Receipt: s.Preview(req.Membership)})
}

// Confirm decrements stock and returns the receipt. A repeated
// Idempotency-Key returns the first receipt instead of buying twice.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	s, err := h.fill(req)
	if err != nil {
		h.fail(c, "confirm", err)
		return
	}

	key := c.GetHeader(IdempotencyHeader)
	if key != "" && h.cache != nil {
		first, err := h.cache.TryMarkConfirmed(ctx, key, s.ID)
		if err != nil {
			h.fail(c, "confirm", fmt.Errorf("failed to mark idempotency key: %w", err))
			return
		}
		if !first {
			h.replay(c, key)
			return
		}
	}

	out, err := s.Confirm(ctx, req.Membership)
	if err != nil {
		if key != "" && h.cache != nil {
			h.cache.ReleaseMarker(ctx, key)
		}
		h.fail(c, "confirm", err)
		return
	}

	if h.cache != nil {
		stored := store.StoredReceipt{
			OrderID:    out.OrderID,
			Membership: out.Membership,
			Receipt:    out.Receipt,
			CreatedAt:  out.CreatedAt,
		}
		if err := h.cache.SaveReceipt(ctx, stored); err != nil {
			// the purchase stands; only the lookup is lost
			h.logger.Error("receipt cache write failed", zap.String("order_id", out.OrderID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, checkoutResponse{
		OrderID:    out.OrderID,
		Membership: out.Membership,
		Receipt:    out.Receipt,
		CreatedAt:  &out.CreatedAt,
	})
}

// GetReceipt returns a cached receipt by order id.
func (h *CheckoutHandler) GetReceipt(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "receipt cache is not configured"})
		return
	}
	stored, err := h.cache.GetReceipt(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		h.fail(c, "receipt", err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{
		OrderID:    stored.OrderID,
		Membership: stored.Membership,
		Receipt:    stored.Receipt,
		CreatedAt:  &stored.CreatedAt,
	})
}

func (h *CheckoutHandler) bind(c *gin.Context) (checkoutRequest, bool) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return req, false
	}
	if req.Membership {
		if _, ok := auth.MemberID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errMembershipRequiresToken.Error()})
			return req, false
		}
	}
	return req, true
}

func (h *CheckoutHandler) fill(req checkoutRequest) (*session.Session, error) {
	s := h.pricer.New()
	for _, item := range req.Items {
		if _, err := s.Add(item.Name, item.Quantity); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (h *CheckoutHandler) replay(c *gin.Context, key string) {
	ctx := c.Request.Context()
	orderID, err := h.cache.ConfirmedOrder(ctx, key)
	if err != nil {
		h.fail(c, "replay", err)
		return
	}
	stored, err := h.cache.GetReceipt(ctx, orderID)
	if errors.Is(err, store.ErrReceiptNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "checkout with this key is in progress", "order_id": orderID})
		return
	}
	if err != nil {
		h.fail(c, "replay", err)
		return
	}
	h.logger.Info("idempotent replay", zap.String("order_id", orderID))
	c.JSON(http.StatusOK, checkoutResponse{
		OrderID:    stored.OrderID,
		Membership: stored.Membership,
		Receipt:    stored.Receipt,
		CreatedAt:  &stored.CreatedAt,
	})
}

func (h *CheckoutHandler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	h.logger.Info(op+" rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrUnknownProduct), errors.Is(err, store.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrOutOfStock), errors.Is(err, logic.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
