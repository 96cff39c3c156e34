package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and ledgers return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: no record at the address
// - ErrConflict: address already occupied on create
// - ErrInsufficient: holder balance cannot cover a burn
// - ErrForbidden: the acting authority does not hold the right for the class
// - ErrUnavailable: backend temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInsufficient = errors.New("insufficient balance")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)
