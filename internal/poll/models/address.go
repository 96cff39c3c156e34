package models

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Address is the deterministic storage key of a record. Two creations at the
// same address conflict, which is what makes polls and registrations unique.
type Address string

const (
	pollSeed       = "pollpoll"
	voterStateSeed = "voter_state"
	holderSeed     = "pass_holder"
)

// PollAddress derives the address of the poll with the given id.
func PollAddress(id PollID) Address {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], uint64(id))
	return derive([]byte(pollSeed), le[:])
}

// VoterStateAddress derives the address of the registration for (poll, voter).
func VoterStateAddress(poll Address, voter Identity) Address {
	return derive([]byte(voterStateSeed), []byte(poll), []byte{0}, []byte(voter))
}

// HolderAddress is the lock key of a holder's pass balances. It is never stored.
func HolderAddress(holder Identity) Address {
	return derive([]byte(holderSeed), []byte(holder))
}

func derive(parts ...[]byte) Address {
	// blake2b.New256 only errors for oversized keys; no key is used.
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	return Address(hex.EncodeToString(h.Sum(nil)))
}
