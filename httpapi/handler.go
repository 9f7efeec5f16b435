// Package httpapi serves the mint engine over HTTP. Mint and setup calls
// require a bearer token whose subject is the calling account; reads are
// public.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bitfsorg/libmint-go/account"
	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/mint"
	"github.com/bitfsorg/libmint-go/royalty"
	"github.com/bitfsorg/libmint-go/token"
)

const (
	// MaxBodySize bounds request bodies.
	MaxBodySize = 1 << 20

	// DefaultMaxPayoutLen is the receiver limit when max_len is omitted.
	DefaultMaxPayoutLen = 10
)

// Engine is the part of mint.Engine the handlers call.
type Engine interface {
	Mint(ctx context.Context, caller account.ID, amount uint64) (*mint.Receipt, error)
	AppendList(ctx context.Context, caller account.ID, tier allowlist.Tier, ids []account.ID) error
	List(tier allowlist.Tier) (allowlist.List, error)
	TotalSupply() (uint64, error)
	TokenExists(id token.ID) (bool, error)
	Token(id token.ID) (*token.View, error)
	SupplyForOwner(owner account.ID) (uint64, error)
	Payout(id token.ID, balance uint64, maxLen int) (royalty.Payout, error)
	ContractMetadata() token.ContractMetadata
	Status() (*mint.Status, error)
}

// Handler routes HTTP requests to an Engine.
type Handler struct {
	engine Engine
	tokens *TokenService
	logger *slog.Logger
}

// New returns a Handler.
func New(engine Engine, tokens *TokenService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, tokens: tokens, logger: logger}
}

// Register mounts the v1 routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/supply", h.handleSupply)
		r.Get("/status", h.handleStatus)
		r.Get("/metadata", h.handleMetadata)
		r.Get("/lists/{tier}", h.handleList)
		r.Get("/tokens/{id}", h.handleToken)
		r.Get("/tokens/{id}/exists", h.handleTokenExists)
		r.Get("/tokens/{id}/payout", h.handlePayout)
		r.Get("/owners/{account}/supply", h.handleOwnerSupply)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.tokens, h.logger))
			r.Post("/mint", h.handleMint)
			r.Post("/admin/lists/{tier}", h.handleAppendList)
		})
	})
}

// MintRequest is the body of POST /v1/mint.
type MintRequest struct {
	// Amount is the attached payment in base units.
	Amount uint64 `json:"amount"`
}

// MintResponse describes an issued token.
type MintResponse struct {
	TokenID          string   `json:"token_id"`
	OwnerID          string   `json:"owner_id"`
	Tier             string   `json:"tier"`
	Phase            string   `json:"phase"`
	Evicted          []string `json:"evicted,omitempty"`
	SettlementQueued bool     `json:"settlement_queued"`
}

// AppendListRequest is the body of POST /v1/admin/lists/{tier}.
type AppendListRequest struct {
	Accounts []string `json:"accounts"`
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := CallerFrom(ctx)

	var req MintRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	rec, err := h.engine.Mint(ctx, caller, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := MintResponse{
		TokenID:          rec.TokenID.String(),
		OwnerID:          rec.Owner.String(),
		Tier:             rec.Tier.String(),
		Phase:            rec.Phase.String(),
		SettlementQueued: rec.SettlementQueued,
	}
	for _, e := range rec.Evicted {
		resp.Evicted = append(resp.Evicted, e.Tier.String())
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleAppendList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := CallerFrom(ctx)

	tier, err := allowlist.ParseTier(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req AppendListRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	ids, err := account.ParseAll(req.Accounts)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.engine.AppendList(ctx, caller, tier, ids); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tier, err := allowlist.ParseTier(chi.URLParam(r, "tier"))
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := h.engine.List(tier)
	if err != nil {
		writeError(w, err)
		return
	}
	if l == nil {
		l = allowlist.List{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tier": tier.String(), "accounts": l})
}

func (h *Handler) handleSupply(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.TotalSupply()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"total_supply": n})
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	id, err := token.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.engine.Token(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleTokenExists(w http.ResponseWriter, r *http.Request) {
	id, err := token.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	ok, err := h.engine.TokenExists(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": ok})
}

func (h *Handler) handlePayout(w http.ResponseWriter, r *http.Request) {
	id, err := token.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	balance, err := strconv.ParseUint(q.Get("balance"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: balance: %w", ErrBadRequest, err))
		return
	}
	maxLen := DefaultMaxPayoutLen
	if v := q.Get("max_len"); v != "" {
		if maxLen, err = strconv.Atoi(v); err != nil || maxLen <= 0 {
			writeError(w, fmt.Errorf("%w: max_len %q", ErrBadRequest, v))
			return
		}
	}
	p, err := h.engine.Payout(id, balance, maxLen)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]royalty.Payout{"payout": p})
}

func (h *Handler) handleOwnerSupply(w http.ResponseWriter, r *http.Request) {
	owner, err := account.Parse(chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, err)
		return
	}
	n, err := h.engine.SupplyForOwner(owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"owner_id": owner, "supply": n})
}

func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.ContractMetadata())
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.Status()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "status failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
