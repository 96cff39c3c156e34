package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"passpoll/internal/platform/middleware"
	"passpoll/internal/poll/handler/mocks"
	"passpoll/internal/poll/models"
	"passpoll/internal/poll/service"
	dErrors "passpoll/pkg/domain-errors"
	"passpoll/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type PollHandlerSuite struct {
	suite.Suite
}

func TestPollHandlerSuite(t *testing.T) {
	suite.Run(t, new(PollHandlerSuite))
}

// tokenIsCaller treats the bearer token itself as the caller identity.
type tokenIsCaller struct{}

func (tokenIsCaller) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token == "expired" {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "token has expired")
	}
	return &middleware.JWTClaims{Caller: token}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, nil, tokenIsCaller{})
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func do(t *testing.T, router http.Handler, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Serve(router, testutil.APIRequest(t, method, path, caller, body))
}

func samplePoll() *models.Poll {
	return &models.Poll{
		Address:        models.PollAddress(7),
		Admin:          "admin",
		ID:             7,
		Question:       "Ship it?",
		StartTS:        100,
		EndTS:          200,
		PassTokenClass: "T",
	}
}

// =============================================================================
// Authentication
// =============================================================================

func (s *PollHandlerSuite) TestAuthentication() {
	s.Run("missing token is 401 and never reaches the service", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodPost, "/polls/7/start", "", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("expired token is 401", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodGet, "/polls/7", "expired", nil)
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// Polls
// =============================================================================

func (s *PollHandlerSuite) TestCreatePoll() {
	s.Run("caller becomes admin", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CreatePoll(gomock.Any(), models.Identity("admin"), service.CreatePollRequest{
			PollID:         7,
			Question:       "Ship it?",
			StartTS:        100,
			EndTS:          200,
			PassTokenClass: "T",
		}).Return(samplePoll(), nil)

		w := do(s.T(), router, http.MethodPost, "/polls", "admin", CreatePollRequest{
			PollID: 7, Question: "Ship it?", StartTS: 100, EndTS: 200, PassTokenClass: "T",
		})

		s.Equal(http.StatusCreated, w.Code)
		resp := testutil.DecodeJSON[PollResponse](s.T(), w)
		s.Equal("admin", resp.Admin)
		s.Equal(uint64(7), resp.PollID)
		s.False(resp.IsActive)
		s.Equal(string(models.PollAddress(7)), resp.Address)
	})

	s.Run("duplicate poll is 409", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CreatePoll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeDuplicatePoll, "poll already exists"))

		w := do(s.T(), router, http.MethodPost, "/polls", "admin", CreatePollRequest{PollID: 7, StartTS: 1, EndTS: 2, PassTokenClass: "T"})

		testutil.AssertError(s.T(), w, http.StatusConflict, "duplicate_poll")
	})

	s.Run("unknown fields are rejected", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodPost, "/polls", "admin", map[string]any{"poll_id": 7, "admin": "someone-else"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("non JSON content type is rejected", func() {
		router, _ := newTestRouter(s.T())
		req := httptest.NewRequest(http.MethodPost, "/polls", bytes.NewBufferString("poll_id=7"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer admin")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		s.Equal(http.StatusUnsupportedMediaType, w.Code)
	})
}

func (s *PollHandlerSuite) TestStartPoll() {
	s.Run("returns the active poll", func() {
		router, svc := newTestRouter(s.T())
		started := samplePoll()
		started.IsActive = true
		svc.EXPECT().StartPoll(gomock.Any(), models.Identity("admin"), models.PollID(7)).Return(started, nil)

		w := do(s.T(), router, http.MethodPost, "/polls/7/start", "admin", nil)

		s.Equal(http.StatusOK, w.Code)
		s.True(testutil.DecodeJSON[PollResponse](s.T(), w).IsActive)
	})

	s.Run("non admin is 403", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().StartPoll(gomock.Any(), models.Identity("mallory"), models.PollID(7)).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "only the poll admin can start the poll"))

		w := do(s.T(), router, http.MethodPost, "/polls/7/start", "mallory", nil)

		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("malformed poll id is 400", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodPost, "/polls/-1/start", "admin", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *PollHandlerSuite) TestGetPoll() {
	router, svc := newTestRouter(s.T())
	svc.EXPECT().GetPoll(gomock.Any(), models.PollID(8)).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "poll not found"))

	w := do(s.T(), router, http.MethodGet, "/polls/8", "alice", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

// =============================================================================
// Registration and passes
// =============================================================================

func (s *PollHandlerSuite) TestRegisterVoter() {
	router, svc := newTestRouter(s.T())
	state := models.NewVoterState(models.PollAddress(7), "alice")
	svc.EXPECT().RegisterVoter(gomock.Any(), models.Identity("alice"), models.PollID(7)).Return(state, nil)

	w := do(s.T(), router, http.MethodPost, "/polls/7/voters", "alice", nil)

	s.Equal(http.StatusCreated, w.Code)
	resp := testutil.DecodeJSON[VoterStateResponse](s.T(), w)
	s.Equal("alice", resp.Voter)
	s.False(resp.HasVoted)
	s.Equal(string(state.Address), resp.Address)
}

func (s *PollHandlerSuite) TestIssuePass() {
	s.Run("single recipient", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().IssuePass(gomock.Any(), models.Identity("admin"), models.PollID(7), models.Identity("alice")).Return(nil)

		w := do(s.T(), router, http.MethodPost, "/polls/7/passes", "admin", IssuePassRequest{Recipient: "alice"})

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("batch reports each recipient", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().IssuePasses(gomock.Any(), models.Identity("admin"), models.PollID(7), []models.Identity{"alice", "bob"}).
			Return([]service.IssueResult{
				{Recipient: "alice"},
				{Recipient: "bob", Err: dErrors.New(dErrors.CodeArithmeticOverflow, "pass balance overflow")},
			}, nil)

		w := do(s.T(), router, http.MethodPost, "/polls/7/passes", "admin", IssuePassRequest{Recipients: []string{"alice", "bob"}})

		s.Equal(http.StatusOK, w.Code)
		resp := testutil.DecodeJSON[IssueBatchResponse](s.T(), w)
		s.Equal(1, resp.Issued)
		s.Equal(1, resp.Failed)
		s.True(resp.Results[0].Issued)
		s.Equal("arithmetic_overflow", resp.Results[1].Error)
	})

	s.Run("recipient and recipients together is 400", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodPost, "/polls/7/passes", "admin", IssuePassRequest{Recipient: "a", Recipients: []string{"b"}})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *PollHandlerSuite) TestGetBalance() {
	router, svc := newTestRouter(s.T())
	svc.EXPECT().PassBalance(gomock.Any(), models.PollID(7), models.Identity("alice")).Return(models.TokenClass("T"), uint64(2), nil)

	w := do(s.T(), router, http.MethodGet, "/polls/7/passes/alice", "alice", nil)

	s.Equal(http.StatusOK, w.Code)
	resp := testutil.DecodeJSON[BalanceResponse](s.T(), w)
	s.Equal(BalanceResponse{Holder: "alice", Class: "T", Balance: 2}, *resp)
}

// =============================================================================
// Voting
// =============================================================================

func (s *PollHandlerSuite) TestCastVote() {
	s.Run("defaults to the caller's registration", func() {
		router, svc := newTestRouter(s.T())
		counted := samplePoll()
		counted.IsActive = true
		counted.TotalYes = 1
		svc.EXPECT().CastVote(gomock.Any(), models.Identity("alice"), models.PollID(7), models.Address(""), models.VoteYes).
			Return(counted, nil)

		w := do(s.T(), router, http.MethodPost, "/polls/7/votes", "alice", CastVoteRequest{Choice: "YES"})

		s.Equal(http.StatusOK, w.Code)
		s.Equal(uint64(1), testutil.DecodeJSON[PollResponse](s.T(), w).TotalYes)
	})

	s.Run("explicit registration is passed through", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CastVote(gomock.Any(), models.Identity("bob"), models.PollID(7), models.Address("abc"), models.VoteNo).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "voter state does not belong to the caller"))

		w := do(s.T(), router, http.MethodPost, "/polls/7/votes", "bob", CastVoteRequest{Choice: "no", VoterState: "abc"})

		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("no pass is 402", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CastVote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNoPass, "voter holds no voting pass"))

		w := do(s.T(), router, http.MethodPost, "/polls/7/votes", "alice", CastVoteRequest{Choice: "yes"})

		s.Equal(http.StatusPaymentRequired, w.Code)
	})

	s.Run("invalid choice never reaches the service", func() {
		router, _ := newTestRouter(s.T())
		w := do(s.T(), router, http.MethodPost, "/polls/7/votes", "alice", CastVoteRequest{Choice: "maybe"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("internal errors hide their message", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CastVote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "connection refused to 10.0.0.3"))

		w := do(s.T(), router, http.MethodPost, "/polls/7/votes", "alice", CastVoteRequest{Choice: "yes"})

		testutil.AssertError(s.T(), w, http.StatusInternalServerError, "internal_error")
		assert.NotContains(s.T(), w.Body.String(), "10.0.0.3")
	})
}

func (s *PollHandlerSuite) TestCreateClass() {
	router, svc := newTestRouter(s.T())
	svc.EXPECT().CreateClass(gomock.Any(), models.Identity("admin"), "T").Return(nil)

	w := do(s.T(), router, http.MethodPost, "/token-classes", "admin", CreateClassRequest{Class: "T"})

	s.Equal(http.StatusCreated, w.Code)
	testutil.AssertJSONField(s.T(), w, "mint_authority", "admin")
}
