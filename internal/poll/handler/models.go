package handler

import (
	"errors"

	"passpoll/internal/poll/models"
	"passpoll/internal/poll/service"
	dErrors "passpoll/pkg/domain-errors"
)

// CreateClassRequest registers a pass token class owned by the caller.
type CreateClassRequest struct {
	Class string `json:"class"`
}

// CreatePollRequest is the body of POST /polls.
type CreatePollRequest struct {
	PollID         uint64 `json:"poll_id"`
	Question       string `json:"question"`
	StartTS        int64  `json:"start_ts"`
	EndTS          int64  `json:"end_ts"`
	PassTokenClass string `json:"pass_token_class"`
}

// IssuePassRequest carries either one recipient or a batch.
type IssuePassRequest struct {
	Recipient  string   `json:"recipient,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// CastVoteRequest is the body of POST /polls/{pollID}/votes. VoterState
// defaults to the caller's own registration.
type CastVoteRequest struct {
	Choice     string `json:"choice"`
	VoterState string `json:"voter_state,omitempty"`
}

type PollResponse struct {
	Address        string `json:"address"`
	Admin          string `json:"admin"`
	PollID         uint64 `json:"poll_id"`
	Question       string `json:"question"`
	StartTS        int64  `json:"start_ts"`
	EndTS          int64  `json:"end_ts"`
	IsActive       bool   `json:"is_active"`
	PassTokenClass string `json:"pass_token_class"`
	TotalYes       uint64 `json:"total_yes"`
	TotalNo        uint64 `json:"total_no"`
}

type VoterStateResponse struct {
	Address  string `json:"address"`
	Poll     string `json:"poll"`
	Voter    string `json:"voter"`
	HasVoted bool   `json:"has_voted"`
}

type BalanceResponse struct {
	Holder  string `json:"holder"`
	Class   string `json:"class"`
	Balance uint64 `json:"balance"`
}

type IssueResultResponse struct {
	Recipient        string `json:"recipient"`
	Issued           bool   `json:"issued"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type IssueBatchResponse struct {
	Issued  int                   `json:"issued"`
	Failed  int                   `json:"failed"`
	Results []IssueResultResponse `json:"results"`
}

func toPollResponse(p *models.Poll) PollResponse {
	return PollResponse{
		Address:        string(p.Address),
		Admin:          string(p.Admin),
		PollID:         uint64(p.ID),
		Question:       p.Question,
		StartTS:        p.StartTS,
		EndTS:          p.EndTS,
		IsActive:       p.IsActive,
		PassTokenClass: string(p.PassTokenClass),
		TotalYes:       p.TotalYes,
		TotalNo:        p.TotalNo,
	}
}

func toVoterStateResponse(s *models.VoterState) VoterStateResponse {
	return VoterStateResponse{
		Address:  string(s.Address),
		Poll:     string(s.Poll),
		Voter:    string(s.Voter),
		HasVoted: s.HasVoted,
	}
}

func toIssueBatchResponse(results []service.IssueResult) IssueBatchResponse {
	resp := IssueBatchResponse{Results: make([]IssueResultResponse, 0, len(results))}
	for _, res := range results {
		item := IssueResultResponse{Recipient: string(res.Recipient), Issued: res.Err == nil}
		if res.Err != nil {
			resp.Failed++
			code := dErrors.CodeOf(res.Err)
			item.Error = string(code)
			var de *dErrors.Error
			if code != dErrors.CodeInternal && errors.As(res.Err, &de) {
				item.ErrorDescription = de.Message
			}
		} else {
			resp.Issued++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}
