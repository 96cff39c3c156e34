package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passpoll/pkg/domain-errors"
)

// TestValidateConfiguration_Invariants covers the creation-time invariants:
// "question fits in 200 bytes" and "start_ts < end_ts".
func TestValidateConfiguration_Invariants(t *testing.T) {
	t.Run("accepts question at the length limit", func(t *testing.T) {
		require.NoError(t, ValidateConfiguration(strings.Repeat("a", MaxQuestionLength), 100, 200))
	})

	t.Run("rejects question one byte over the limit", func(t *testing.T) {
		err := ValidateConfiguration(strings.Repeat("ten bytes!", 20)+"+", 100, 200)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
	})

	t.Run("counts bytes not runes", func(t *testing.T) {
		// 101 two-byte runes = 202 bytes
		err := ValidateConfiguration(strings.Repeat("é", 101), 100, 200)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
	})

	t.Run("rejects equal start and end", func(t *testing.T) {
		err := ValidateConfiguration("Q?", 100, 100)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		err := ValidateConfiguration("Q?", 200, 100)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
	})
}

func TestNewPoll(t *testing.T) {
	p, err := NewPoll("admin", 1, "Q?", 100, 200, "T")
	require.NoError(t, err)
	assert.Equal(t, PollAddress(1), p.Address)
	assert.False(t, p.IsActive)
	assert.Zero(t, p.TotalYes)
	assert.Zero(t, p.TotalNo)
	assert.Equal(t, TokenClass("T"), p.PassTokenClass)
}

func TestWindows(t *testing.T) {
	p := &Poll{StartTS: 100, EndTS: 200}

	assert.False(t, p.StartWindowContains(99))
	assert.True(t, p.StartWindowContains(100))
	assert.True(t, p.StartWindowContains(199))
	assert.False(t, p.StartWindowContains(200), "start window is half-open")

	assert.False(t, p.VoteWindowContains(99))
	assert.True(t, p.VoteWindowContains(100))
	assert.True(t, p.VoteWindowContains(200), "vote window is inclusive")
	assert.False(t, p.VoteWindowContains(201))
}

func TestCount(t *testing.T) {
	t.Run("increments the matching tally", func(t *testing.T) {
		p := &Poll{}
		require.NoError(t, p.Count(VoteYes))
		require.NoError(t, p.Count(VoteNo))
		require.NoError(t, p.Count(VoteNo))
		assert.Equal(t, uint64(1), p.TotalYes)
		assert.Equal(t, uint64(2), p.TotalNo)
	})

	t.Run("refuses to wrap at max and leaves tally unchanged", func(t *testing.T) {
		p := &Poll{TotalYes: MaxTally, TotalNo: 7}
		err := p.Count(VoteYes)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeArithmeticOverflow))
		assert.Equal(t, uint64(MaxTally), p.TotalYes)
		assert.Equal(t, uint64(7), p.TotalNo)
		assert.True(t, p.CanCount(VoteNo))
	})
}

func TestAddresses(t *testing.T) {
	t.Run("poll address is deterministic and distinct per id", func(t *testing.T) {
		assert.Equal(t, PollAddress(1), PollAddress(1))
		assert.NotEqual(t, PollAddress(1), PollAddress(2))
		assert.Len(t, string(PollAddress(1)), 64)
	})

	t.Run("voter state address binds poll and voter", func(t *testing.T) {
		a := VoterStateAddress(PollAddress(1), "alice")
		assert.Equal(t, a, VoterStateAddress(PollAddress(1), "alice"))
		assert.NotEqual(t, a, VoterStateAddress(PollAddress(2), "alice"))
		assert.NotEqual(t, a, VoterStateAddress(PollAddress(1), "bob"))
	})
}

func TestParse(t *testing.T) {
	choice, err := ParseVoteChoice(" YES ")
	require.NoError(t, err)
	assert.Equal(t, VoteYes, choice)

	_, err = ParseVoteChoice("maybe")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = ParseIdentity("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	_, err = ParseIdentity("has space")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = ParseTokenClass(strings.Repeat("x", 129))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidConfiguration))
}
