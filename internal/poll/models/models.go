package models

import (
	"math"
	"strings"
	"unicode"

	dErrors "passpoll/pkg/domain-errors"
)

// MaxQuestionLength bounds Poll.Question in bytes.
const MaxQuestionLength = 200

// MaxTally is the largest representable tally value.
const MaxTally = math.MaxUint64

const maxIdentifierLength = 128

// PollID is the caller-chosen poll identifier. Record addresses derive from it.
type PollID uint64

// Identity is an authenticated caller identity. The core only compares identities.
type Identity string

// TokenClass names the capability-token class whose units are voting passes.
type TokenClass string

// Poll is one yes/no question with its voting window and tally.
// Everything except IsActive and the tallies is fixed at creation.
type Poll struct {
	Address        Address
	Admin          Identity
	ID             PollID
	Question       string
	StartTS        int64
	EndTS          int64
	IsActive       bool
	PassTokenClass TokenClass
	TotalYes       uint64
	TotalNo        uint64
}

// VoterState records that a voter registered for a poll and whether they voted.
type VoterState struct {
	Address  Address
	Poll     Address
	Voter    Identity
	HasVoted bool
}

// VoteChoice is a binary ballot.
type VoteChoice string

const (
	VoteYes VoteChoice = "yes"
	VoteNo  VoteChoice = "no"
)

// ParseVoteChoice accepts "yes" or "no", case-insensitively.
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch VoteChoice(strings.ToLower(strings.TrimSpace(s))) {
	case VoteYes:
		return VoteYes, nil
	case VoteNo:
		return VoteNo, nil
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "choice must be yes or no")
}

// ParseIdentity validates a caller or recipient identity.
func ParseIdentity(s string) (Identity, error) {
	if err := validateIdentifier(s); err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "identity "+err.Error())
	}
	return Identity(s), nil
}

// ParseTokenClass validates a pass token class name.
func ParseTokenClass(s string) (TokenClass, error) {
	if err := validateIdentifier(s); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidConfiguration, "pass_token_class "+err.Error())
	}
	return TokenClass(s), nil
}

type identifierError string

func (e identifierError) Error() string { return string(e) }

func validateIdentifier(s string) error {
	if s == "" {
		return identifierError("is required")
	}
	if len(s) > maxIdentifierLength {
		return identifierError("is too long")
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return identifierError("must not contain whitespace")
	}
	return nil
}

// ValidateConfiguration enforces the creation-time invariants of a poll.
func ValidateConfiguration(question string, startTS, endTS int64) error {
	if len(question) > MaxQuestionLength {
		return dErrors.New(dErrors.CodeInvalidConfiguration, "question exceeds 200 bytes")
	}
	if startTS >= endTS {
		return dErrors.New(dErrors.CodeInvalidConfiguration, "start_ts must be before end_ts")
	}
	return nil
}

// NewPoll builds an inactive poll with zero tallies after validating its configuration.
func NewPoll(admin Identity, id PollID, question string, startTS, endTS int64, class TokenClass) (*Poll, error) {
	if err := ValidateConfiguration(question, startTS, endTS); err != nil {
		return nil, err
	}
	return &Poll{
		Address:        PollAddress(id),
		Admin:          admin,
		ID:             id,
		Question:       question,
		StartTS:        startTS,
		EndTS:          endTS,
		IsActive:       false,
		PassTokenClass: class,
	}, nil
}

// NewVoterState builds the registration record for (poll, voter).
func NewVoterState(poll Address, voter Identity) *VoterState {
	return &VoterState{
		Address: VoterStateAddress(poll, voter),
		Poll:    poll,
		Voter:   voter,
	}
}

// StartWindowContains reports whether a poll may be started at now: [start, end).
func (p *Poll) StartWindowContains(now int64) bool {
	return now >= p.StartTS && now < p.EndTS
}

// VoteWindowContains reports whether votes are accepted at now: [start, end].
func (p *Poll) VoteWindowContains(now int64) bool {
	return now >= p.StartTS && now <= p.EndTS
}

// CanCount reports whether one more vote for choice fits in its tally.
func (p *Poll) CanCount(choice VoteChoice) bool {
	if choice == VoteYes {
		return p.TotalYes < MaxTally
	}
	return p.TotalNo < MaxTally
}

// Count increments the tally for choice, refusing to wrap.
func (p *Poll) Count(choice VoteChoice) error {
	if !p.CanCount(choice) {
		return dErrors.New(dErrors.CodeArithmeticOverflow, "tally overflow")
	}
	if choice == VoteYes {
		p.TotalYes++
	} else {
		p.TotalNo++
	}
	return nil
}
