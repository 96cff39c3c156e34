package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"passpoll/internal/platform/metrics"
	"passpoll/internal/platform/middleware"
	"passpoll/internal/poll/models"
	"passpoll/internal/poll/service"
	dErrors "passpoll/pkg/domain-errors"
	"passpoll/pkg/platform/httputil"
	"passpoll/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the poll operations exposed over HTTP.
type Service interface {
	CreateClass(ctx context.Context, caller models.Identity, class string) error
	CreatePoll(ctx context.Context, admin models.Identity, req service.CreatePollRequest) (*models.Poll, error)
	StartPoll(ctx context.Context, caller models.Identity, pollID models.PollID) (*models.Poll, error)
	RegisterVoter(ctx context.Context, voter models.Identity, pollID models.PollID) (*models.VoterState, error)
	IssuePass(ctx context.Context, caller models.Identity, pollID models.PollID, recipient models.Identity) error
	IssuePasses(ctx context.Context, caller models.Identity, pollID models.PollID, recipients []models.Identity) ([]service.IssueResult, error)
	CastVote(ctx context.Context, voter models.Identity, pollID models.PollID, voterStateAddr models.Address, choice models.VoteChoice) (*models.Poll, error)
	GetPoll(ctx context.Context, pollID models.PollID) (*models.Poll, error)
	GetVoterState(ctx context.Context, pollID models.PollID, voter models.Identity) (*models.VoterState, error)
	PassBalance(ctx context.Context, pollID models.PollID, holder models.Identity) (models.TokenClass, uint64, error)
}

// Handler handles poll, registration, pass and vote endpoints.
type Handler struct {
	logger       *slog.Logger
	polls        Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	timeout      time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithRequestTimeout bounds each request's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New creates a new poll Handler.
func New(
	polls Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	opts ...Option) *Handler {
	h := &Handler{
		logger:       logger,
		polls:        polls,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the poll routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	pollRouter := chi.NewRouter()
	pollRouter.Use(middleware.Recovery(h.logger))
	pollRouter.Use(middleware.RequestID)
	pollRouter.Use(middleware.RequestTime)
	pollRouter.Use(middleware.Logger(h.logger))
	pollRouter.Use(middleware.Timeout(h.timeout))
	pollRouter.Use(middleware.ContentTypeJSON)
	pollRouter.Use(middleware.LatencyMiddleware(h.metrics))
	pollRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	pollRouter.Post("/token-classes", h.handleCreateClass)
	pollRouter.Route("/polls", func(r chi.Router) {
		r.Post("/", h.handleCreatePoll)
		r.Route("/{pollID}", func(r chi.Router) {
			r.Get("/", h.handleGetPoll)
			r.Post("/start", h.handleStartPoll)
			r.Post("/voters", h.handleRegisterVoter)
			r.Get("/voters/{voter}", h.handleGetVoterState)
			r.Post("/passes", h.handleIssuePass)
			r.Get("/passes/{holder}", h.handleGetBalance)
			r.Post("/votes", h.handleCastVote)
		})
	})

	r.Mount("/", pollRouter)
}

func (h *Handler) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateClassRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.polls.CreateClass(ctx, caller, req.Class); err != nil {
		h.writeServiceError(ctx, w, "create pass token class", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"class":          req.Class,
		"mint_authority": string(caller),
	})
}

func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreatePollRequest
	if !h.decode(w, r, &req) {
		return
	}
	poll, err := h.polls.CreatePoll(ctx, caller, service.CreatePollRequest{
		PollID:         models.PollID(req.PollID),
		Question:       req.Question,
		StartTS:        req.StartTS,
		EndTS:          req.EndTS,
		PassTokenClass: req.PassTokenClass,
	})
	if err != nil {
		h.writeServiceError(ctx, w, "create poll", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPollResponse(poll))
}

func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}
	poll, err := h.polls.GetPoll(ctx, pollID)
	if err != nil {
		h.writeServiceError(ctx, w, "get poll", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPollResponse(poll))
}

func (h *Handler) handleStartPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}
	poll, err := h.polls.StartPoll(ctx, caller, pollID)
	if err != nil {
		h.writeServiceError(ctx, w, "start poll", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPollResponse(poll))
}

func (h *Handler) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}
	state, err := h.polls.RegisterVoter(ctx, caller, pollID)
	if err != nil {
		h.writeServiceError(ctx, w, "register voter", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVoterStateResponse(state))
}

func (h *Handler) handleGetVoterState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}
	state, err := h.polls.GetVoterState(ctx, pollID, models.Identity(chi.URLParam(r, "voter")))
	if err != nil {
		h.writeServiceError(ctx, w, "get voter state", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVoterStateResponse(state))
}

func (h *Handler) handleIssuePass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}

	var req IssuePassRequest
	if !h.decode(w, r, &req) {
		return
	}
	switch {
	case req.Recipient != "" && len(req.Recipients) > 0:
		h.writeServiceError(ctx, w, "issue pass", dErrors.New(dErrors.CodeBadRequest, "set either recipient or recipients, not both"))
	case req.Recipient != "":
		if err := h.polls.IssuePass(ctx, caller, pollID, models.Identity(req.Recipient)); err != nil {
			h.writeServiceError(ctx, w, "issue pass", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		recipients := make([]models.Identity, len(req.Recipients))
		for i, recipient := range req.Recipients {
			recipients[i] = models.Identity(recipient)
		}
		results, err := h.polls.IssuePasses(ctx, caller, pollID, recipients)
		if err != nil {
			h.writeServiceError(ctx, w, "issue passes", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toIssueBatchResponse(results))
	}
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}
	holder := chi.URLParam(r, "holder")
	class, balance, err := h.polls.PassBalance(ctx, pollID, models.Identity(holder))
	if err != nil {
		h.writeServiceError(ctx, w, "get pass balance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{
		Holder:  holder,
		Class:   string(class),
		Balance: balance,
	})
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	pollID, ok := h.pollID(w, r)
	if !ok {
		return
	}

	var req CastVoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	choice, err := models.ParseVoteChoice(req.Choice)
	if err != nil {
		h.writeServiceError(ctx, w, "cast vote", err)
		return
	}
	poll, err := h.polls.CastVote(ctx, caller, pollID, models.Address(req.VoterState), choice)
	if err != nil {
		h.writeServiceError(ctx, w, "cast vote", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPollResponse(poll))
}

// caller reads the identity set by RequireAuth.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	ctx := r.Context()
	caller := requestcontext.Caller(ctx)
	if caller == "" {
		// Only reachable if RequireAuth is missing from the chain.
		h.logger.ErrorContext(ctx, "caller missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return models.Identity(caller), true
}

func (h *Handler) pollID(w http.ResponseWriter, r *http.Request) (models.PollID, bool) {
	raw := chi.URLParam(r, "pollID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid poll id",
			"request_id", requestcontext.RequestID(r.Context()),
			"poll_id", raw,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "poll id must be an unsigned integer"))
		return 0, false
	}
	return models.PollID(id), true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// writeServiceError logs rejections at Warn and internal failures at Error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, action string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+action,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, action+" rejected",
			"request_id", requestID,
			"code", string(dErrors.CodeOf(err)),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
