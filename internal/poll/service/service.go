package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"passpoll/internal/passes"
	"passpoll/internal/poll/events"
	"passpoll/internal/poll/metrics"
	"passpoll/internal/poll/models"
	dErrors "passpoll/pkg/domain-errors"
	"passpoll/pkg/platform/sentinel"
	"passpoll/pkg/requestcontext"
)

// Store persists poll and voter-state records by derived address.
// Create returns sentinel.ErrConflict on an occupied address; Find returns sentinel.ErrNotFound.
type Store interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	FindPoll(ctx context.Context, addr models.Address) (*models.Poll, error)
	UpdatePoll(ctx context.Context, poll *models.Poll) error
	CreateVoterState(ctx context.Context, state *models.VoterState) error
	FindVoterState(ctx context.Context, addr models.Address) (*models.VoterState, error)
	UpdateVoterState(ctx context.Context, state *models.VoterState) error
}

// Ledger is the capability-token ledger holding voting passes.
type Ledger interface {
	CreateClass(ctx context.Context, class models.TokenClass, mintAuthority models.Identity) error
	MintOne(ctx context.Context, authority models.Identity, class models.TokenClass, recipient models.Identity) error
	BurnOne(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity) error
	BalanceOf(ctx context.Context, class models.TokenClass, holder models.Identity) (uint64, error)
}

// ReceiptBurner is implemented by ledgers whose burn can apply even though the
// call returns an error. SettleBurn reports whether the burn under receipt applied
// and, if it has not, fences it out so it never will.
type ReceiptBurner interface {
	BurnOneWithReceipt(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity, receipt string) error
	SettleBurn(ctx context.Context, class models.TokenClass, receipt string) (bool, error)
}

// Publisher receives domain events after a successful commit.
type Publisher interface {
	Emit(ctx context.Context, event events.Event) error
}

const (
	opCreateClass   = "create_class"
	opCreatePoll    = "create_poll"
	opStartPoll     = "start_poll"
	opRegisterVoter = "register_voter"
	opIssuePass     = "issue_pass"
	opIssuePasses   = "issue_passes"
	opCastVote      = "cast_vote"
)

const (
	defaultBatchConcurrency = 8
	maxBatchRecipients      = 1000

	settleAttempts = 3
	settleTimeout  = 2 * time.Second
)

// Service coordinates token-gated yes/no polls: creation and start by an admin,
// one registration per voter, and at most one pass-burning vote per registration.
// Every check-then-mutate sequence runs inside a PollTx.
type Service struct {
	store            Store
	ledger           Ledger
	tx               PollTx
	publisher        Publisher
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	clock            func() time.Time
	batchConcurrency int
	txTimeout        time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTx replaces the default in-memory sharded transaction.
func WithTx(tx PollTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithClock overrides the request time. Without it, requestcontext.Now is used.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithBatchConcurrency bounds concurrent mints in IssuePasses.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithTxTimeout bounds each in-memory transaction that has no deadline of its own.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.txTimeout = d
	}
}

func New(store Store, ledger Ledger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("poll store is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("pass ledger is required")
	}

	svc := &Service{
		store:            store,
		ledger:           ledger,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:           otel.Tracer("passpoll/poll"),
		batchConcurrency: defaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.tx == nil {
		tx := newShardedPollTx(store, ledger)
		tx.timeout = svc.txTimeout
		svc.tx = tx
	}
	if svc.publisher == nil {
		svc.publisher = events.NewLogPublisher(svc.logger)
	}

	return svc, nil
}

// CreatePollRequest carries the fixed configuration of a new poll.
type CreatePollRequest struct {
	PollID         models.PollID
	Question       string
	StartTS        int64
	EndTS          int64
	PassTokenClass string
}

// CreateClass registers a pass token class with the caller as its mint authority.
func (s *Service) CreateClass(ctx context.Context, caller models.Identity, class string) (err error) {
	ctx, done := s.begin(ctx, opCreateClass)
	defer func() { done(err) }()

	tokenClass, err := models.ParseTokenClass(class)
	if err != nil {
		return err
	}
	if err := s.ledger.CreateClass(ctx, tokenClass, caller); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "pass token class already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create pass token class")
	}

	s.logger.InfoContext(ctx, "pass token class created",
		"class", tokenClass,
		"mint_authority", caller,
	)
	return nil
}

// CreatePoll validates the configuration and creates the poll at its derived address.
// The caller becomes the poll admin.
func (s *Service) CreatePoll(ctx context.Context, admin models.Identity, req CreatePollRequest) (poll *models.Poll, err error) {
	ctx, done := s.begin(ctx, opCreatePoll, attribute.String("poll.id", fmt.Sprint(req.PollID)))
	defer func() { done(err) }()

	if _, err := models.ParseIdentity(string(admin)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidConfiguration, "invalid admin identity")
	}
	class, err := models.ParseTokenClass(req.PassTokenClass)
	if err != nil {
		return nil, err
	}
	poll, err = models.NewPoll(admin, req.PollID, req.Question, req.StartTS, req.EndTS, class)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreatePoll(ctx, poll); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicatePoll, "poll already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create poll")
	}

	s.metrics.IncrementPollsCreated()
	s.logger.InfoContext(ctx, "poll created",
		"poll_id", poll.ID,
		"admin", admin,
		"start_ts", poll.StartTS,
		"end_ts", poll.EndTS,
	)
	s.emit(ctx, events.New(events.TypePollCreated, poll, admin, s.now(ctx)))
	return poll, nil
}

// StartPoll activates a poll. Only the admin may start it, only once, and only
// while StartTS <= now < EndTS.
func (s *Service) StartPoll(ctx context.Context, caller models.Identity, pollID models.PollID) (poll *models.Poll, err error) {
	ctx, done := s.begin(ctx, opStartPoll, attribute.String("poll.id", fmt.Sprint(pollID)))
	defer func() { done(err) }()

	now := s.now(ctx)
	addr := models.PollAddress(pollID)

	err = s.tx.RunInTx(ctx, []models.Address{addr}, func(store Store, _ Ledger) error {
		p, err := findPoll(ctx, store, addr)
		if err != nil {
			return err
		}
		if caller != p.Admin {
			return dErrors.New(dErrors.CodeUnauthorized, "only the poll admin can start the poll")
		}
		if !p.StartWindowContains(now.Unix()) {
			return dErrors.New(dErrors.CodeNotInTimeWindow, "poll can only start within its voting window")
		}
		if p.IsActive {
			return dErrors.New(dErrors.CodeAlreadyActive, "poll is already active")
		}

		p.IsActive = true
		if err := store.UpdatePoll(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to start poll")
		}
		poll = p
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}

	s.logger.InfoContext(ctx, "poll started",
		"poll_id", pollID,
		"admin", caller,
	)
	s.emit(ctx, events.New(events.TypePollStarted, poll, caller, now))
	return poll, nil
}

// RegisterVoter creates the caller's registration for a poll. Registration is
// open whether or not the poll has started.
func (s *Service) RegisterVoter(ctx context.Context, voter models.Identity, pollID models.PollID) (state *models.VoterState, err error) {
	ctx, done := s.begin(ctx, opRegisterVoter, attribute.String("poll.id", fmt.Sprint(pollID)))
	defer func() { done(err) }()

	if _, err := models.ParseIdentity(string(voter)); err != nil {
		return nil, err
	}
	poll, err := findPoll(ctx, s.store, models.PollAddress(pollID))
	if err != nil {
		return nil, err
	}

	state = models.NewVoterState(poll.Address, voter)
	if err := s.store.CreateVoterState(ctx, state); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateRegistration, "voter already registered for this poll")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register voter")
	}

	s.logger.InfoContext(ctx, "voter registered",
		"poll_id", pollID,
		"voter", voter,
	)
	event := events.New(events.TypeVoterRegistered, poll, voter, s.now(ctx))
	event.Subject = voter
	s.emit(ctx, event)
	return state, nil
}

// IssuePass mints one voting pass of the poll's class to recipient. Admin only.
func (s *Service) IssuePass(ctx context.Context, caller models.Identity, pollID models.PollID, recipient models.Identity) (err error) {
	ctx, done := s.begin(ctx, opIssuePass, attribute.String("poll.id", fmt.Sprint(pollID)))
	defer func() { done(err) }()

	if _, err := models.ParseIdentity(string(recipient)); err != nil {
		return err
	}
	poll, err := s.authorizeIssuer(ctx, caller, pollID)
	if err != nil {
		return err
	}
	return s.mint(ctx, caller, poll, recipient)
}

// IssueResult reports the outcome of one mint in a batch.
type IssueResult struct {
	Recipient models.Identity
	Err       error
}

// IssuePasses mints one pass to each recipient with bounded concurrency.
// The admin check runs once before any mint; each mint then succeeds or fails on
// its own and is reported per recipient.
func (s *Service) IssuePasses(ctx context.Context, caller models.Identity, pollID models.PollID, recipients []models.Identity) (results []IssueResult, err error) {
	ctx, done := s.begin(ctx, opIssuePasses,
		attribute.String("poll.id", fmt.Sprint(pollID)),
		attribute.Int("recipients", len(recipients)),
	)
	defer func() { done(err) }()

	if len(recipients) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "recipients must not be empty")
	}
	if len(recipients) > maxBatchRecipients {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("at most %d recipients per batch", maxBatchRecipients))
	}
	for _, recipient := range recipients {
		if _, err := models.ParseIdentity(string(recipient)); err != nil {
			return nil, err
		}
	}

	poll, err := s.authorizeIssuer(ctx, caller, pollID)
	if err != nil {
		return nil, err
	}
	return s.mintBatch(ctx, caller, poll, recipients), nil
}

// CastVote burns one of the voter's passes, marks the registration as voted and
// counts the choice, all as one unit. The registration defaults to the voter's own.
func (s *Service) CastVote(ctx context.Context, voter models.Identity, pollID models.PollID, voterStateAddr models.Address, choice models.VoteChoice) (poll *models.Poll, err error) {
	ctx, done := s.begin(ctx, opCastVote, attribute.String("poll.id", fmt.Sprint(pollID)))
	defer func() { done(err) }()

	if choice != models.VoteYes && choice != models.VoteNo {
		return nil, dErrors.New(dErrors.CodeBadRequest, "choice must be yes or no")
	}

	now := s.now(ctx)
	pollAddr := models.PollAddress(pollID)
	if voterStateAddr == "" {
		voterStateAddr = models.VoterStateAddress(pollAddr, voter)
	}

	keys := []models.Address{pollAddr, voterStateAddr, models.HolderAddress(voter)}
	err = s.tx.RunInTx(ctx, keys, func(store Store, ledger Ledger) error {
		p, err := findPoll(ctx, store, pollAddr)
		if err != nil {
			return err
		}
		state, err := store.FindVoterState(ctx, voterStateAddr)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "voter is not registered for this poll")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter state")
		}

		if err := checkVote(ctx, ledger, p, state, voter, now.Unix()); err != nil {
			return err
		}
		if !p.CanCount(choice) {
			return dErrors.New(dErrors.CodeArithmeticOverflow, "tally overflow")
		}

		if err := s.burn(ctx, ledger, voter, p.PassTokenClass); err != nil {
			return err
		}
		state.HasVoted = true
		if err := store.UpdateVoterState(ctx, state); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record vote")
		}
		if err := p.Count(choice); err != nil {
			return err
		}
		if err := store.UpdatePoll(ctx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tally")
		}
		poll = p
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}

	s.metrics.IncrementVotesCast(string(choice))
	s.logger.InfoContext(ctx, "vote cast",
		"poll_id", pollID,
		"voter", voter,
		"total_yes", poll.TotalYes,
		"total_no", poll.TotalNo,
	)
	event := events.New(events.TypeVoteCast, poll, voter, now)
	event.Subject = voter
	event.Choice = choice
	s.emit(ctx, event)
	return poll, nil
}

// checkVote applies the vote preconditions in order; the first failure wins.
func checkVote(ctx context.Context, ledger Ledger, poll *models.Poll, state *models.VoterState, voter models.Identity, now int64) error {
	if !poll.IsActive {
		return dErrors.New(dErrors.CodeNotActive, "poll is not active")
	}
	if !poll.VoteWindowContains(now) {
		return dErrors.New(dErrors.CodeNotInTimeWindow, "poll is outside its voting window")
	}
	if state.HasVoted {
		return dErrors.New(dErrors.CodeAlreadyVoted, "voter has already voted")
	}
	if state.Voter != voter || state.Poll != poll.Address {
		return dErrors.New(dErrors.CodeUnauthorized, "voter state does not belong to the caller")
	}
	balance, err := ledger.BalanceOf(ctx, poll.PassTokenClass, voter)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read pass balance")
	}
	if balance == 0 {
		return dErrors.New(dErrors.CodeNoPass, "voter holds no voting pass")
	}
	return nil
}

// GetPoll returns the current poll record. It takes the poll's lock so a vote
// in progress is seen either whole or not at all.
func (s *Service) GetPoll(ctx context.Context, pollID models.PollID) (poll *models.Poll, err error) {
	addr := models.PollAddress(pollID)
	err = s.tx.RunInTx(ctx, []models.Address{addr}, func(store Store, _ Ledger) error {
		poll, err = findPoll(ctx, store, addr)
		return err
	})
	if err != nil {
		return nil, asDomainError(err)
	}
	return poll, nil
}

// GetVoterState returns a voter's registration for a poll.
func (s *Service) GetVoterState(ctx context.Context, pollID models.PollID, voter models.Identity) (state *models.VoterState, err error) {
	pollAddr := models.PollAddress(pollID)
	addr := models.VoterStateAddress(pollAddr, voter)
	err = s.tx.RunInTx(ctx, []models.Address{pollAddr, addr}, func(store Store, _ Ledger) error {
		state, err = store.FindVoterState(ctx, addr)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeNotFound, "voter is not registered for this poll")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter state")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}
	return state, nil
}

// PassBalance returns the poll's pass class and how many passes of it holder owns.
func (s *Service) PassBalance(ctx context.Context, pollID models.PollID, holder models.Identity) (class models.TokenClass, balance uint64, err error) {
	pollAddr := models.PollAddress(pollID)
	err = s.tx.RunInTx(ctx, []models.Address{pollAddr, models.HolderAddress(holder)}, func(store Store, ledger Ledger) error {
		poll, err := findPoll(ctx, store, pollAddr)
		if err != nil {
			return err
		}
		class = poll.PassTokenClass
		balance, err = ledger.BalanceOf(ctx, class, holder)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read pass balance")
		}
		return nil
	})
	if err != nil {
		return "", 0, asDomainError(err)
	}
	return class, balance, nil
}

// burn spends one of voter's passes. With a ReceiptBurner, a burn whose reply
// was lost is settled before the vote commits or fails.
func (s *Service) burn(ctx context.Context, ledger Ledger, voter models.Identity, class models.TokenClass) error {
	burner, ok := ledger.(ReceiptBurner)
	if !ok {
		if err := ledger.BurnOne(ctx, voter, class, voter); err != nil {
			return ledgerError(err, "failed to burn voting pass")
		}
		return nil
	}

	receipt := uuid.NewString()
	burnErr := burner.BurnOneWithReceipt(ctx, voter, class, voter, receipt)
	if burnErr == nil {
		return nil
	}
	if isLedgerRejection(burnErr) {
		return ledgerError(burnErr, "failed to burn voting pass")
	}

	burned, err := settleBurn(ctx, burner, class, receipt)
	if err != nil {
		s.logger.ErrorContext(ctx, "pass burn outcome unknown",
			"class", class,
			"holder", voter,
			"receipt", receipt,
			"burn_error", burnErr,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle voting pass burn")
	}
	if !burned {
		return ledgerError(burnErr, "failed to burn voting pass")
	}
	s.logger.WarnContext(ctx, "pass burn reply lost, burn confirmed",
		"class", class,
		"holder", voter,
		"receipt", receipt,
		"burn_error", burnErr,
	)
	return nil
}

// settleBurn retries on a context detached from the caller's, which may
// already be past its deadline.
func settleBurn(ctx context.Context, burner ReceiptBurner, class models.TokenClass, receipt string) (bool, error) {
	ctx = context.WithoutCancel(ctx)
	var err error
	for attempt := 0; attempt < settleAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, settleTimeout)
		var burned bool
		burned, err = burner.SettleBurn(attemptCtx, class, receipt)
		cancel()
		if err == nil {
			return burned, nil
		}
	}
	return false, err
}

func (s *Service) authorizeIssuer(ctx context.Context, caller models.Identity, pollID models.PollID) (*models.Poll, error) {
	poll, err := findPoll(ctx, s.store, models.PollAddress(pollID))
	if err != nil {
		return nil, err
	}
	if caller != poll.Admin {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "only the poll admin can issue passes")
	}
	return poll, nil
}

func (s *Service) mint(ctx context.Context, caller models.Identity, poll *models.Poll, recipient models.Identity) error {
	if err := s.ledger.MintOne(ctx, caller, poll.PassTokenClass, recipient); err != nil {
		return ledgerError(err, "failed to mint voting pass")
	}

	s.metrics.IncrementPassesIssued()
	s.logger.InfoContext(ctx, "pass issued",
		"poll_id", poll.ID,
		"recipient", recipient,
	)
	event := events.New(events.TypePassIssued, poll, caller, s.now(ctx))
	event.Subject = recipient
	s.emit(ctx, event)
	return nil
}

func findPoll(ctx context.Context, store Store, addr models.Address) (*models.Poll, error) {
	poll, err := store.FindPoll(ctx, addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "poll not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load poll")
	}
	return poll, nil
}

// ledgerError translates ledger sentinels into domain codes.
func ledgerError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrForbidden):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "caller lacks authority over the pass token class")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeInvalidConfiguration, "unknown pass token class")
	case errors.Is(err, sentinel.ErrInsufficient):
		return dErrors.Wrap(err, dErrors.CodeNoPass, "voter holds no voting pass")
	case errors.Is(err, passes.ErrBalanceOverflow):
		return dErrors.Wrap(err, dErrors.CodeArithmeticOverflow, "pass balance overflow")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

// isLedgerRejection reports whether the ledger refused the operation outright.
func isLedgerRejection(err error) bool {
	return errors.Is(err, sentinel.ErrForbidden) ||
		errors.Is(err, sentinel.ErrNotFound) ||
		errors.Is(err, sentinel.ErrInsufficient) ||
		errors.Is(err, passes.ErrBalanceOverflow)
}

// asDomainError keeps coded errors and wraps anything else as internal.
func asDomainError(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "transaction failed")
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

// emit publishes after commit. The operation already succeeded, so failures are logged only.
func (s *Service) emit(ctx context.Context, event events.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish poll event",
			"event_type", event.Type,
			"poll_id", event.PollID,
			"error", err,
		)
	}
}

// begin opens a span for op and returns a finisher that records latency,
// rejections and span status.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "poll."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		defer span.End()
		s.metrics.ObserveOperationLatency(op, time.Since(start))
		if err == nil {
			return
		}
		code := dErrors.CodeOf(err)
		s.metrics.IncrementRejection(op, string(code))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		if code == dErrors.CodeInternal {
			s.logger.ErrorContext(ctx, "poll operation failed",
				"operation", op,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			return
		}
		s.logger.WarnContext(ctx, "poll operation rejected",
			"operation", op,
			"code", code,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
