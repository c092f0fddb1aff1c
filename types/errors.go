package types

import "errors"

// Domain errors returned by the election core. All of them are client-facing
// and actionable; the API layer maps each to a stable numeric code. None of
// them is retried server-side.
var (
	// ErrInvalidTransition is returned on an illegal lifecycle move, such as
	// starting an already ongoing election or ending one before its
	// scheduled end without the force flag.
	ErrInvalidTransition = errors.New("invalid election state transition")

	// ErrElectionNotOngoing rejects any voting-path operation attempted
	// while the election is upcoming or completed.
	ErrElectionNotOngoing = errors.New("election is not ongoing")

	// ErrInvalidOTP covers a missing, consumed or mismatched one-time code.
	ErrInvalidOTP = errors.New("invalid one-time code")

	// ErrOTPExpired is returned when the code exists but its window passed.
	ErrOTPExpired = errors.New("one-time code expired")

	// ErrBallotAccessDenied rejects a vote submission without a valid,
	// unconsumed ballot access grant.
	ErrBallotAccessDenied = errors.New("no valid ballot access grant")

	// ErrAlreadyVoted rejects duplicate submissions; they are never merged.
	ErrAlreadyVoted = errors.New("voter has already voted")

	// ErrIncompleteBallot rejects ballots missing a contested position,
	// repeating one, or naming a candidate not approved for it.
	ErrIncompleteBallot = errors.New("ballot is incomplete or names an unknown candidate")

	// ErrVoteIntegrityViolation is returned when a ciphertext does not
	// decrypt to its paired candidate identifier. The whole ballot is
	// rejected, nothing is persisted.
	ErrVoteIntegrityViolation = errors.New("ciphertext does not match the submitted candidate")

	// ErrInvalidTieBreakSelection rejects a declaration whose tie-break
	// winner is not one of the tied candidates, or that leaves a tied
	// position unresolved.
	ErrInvalidTieBreakSelection = errors.New("invalid tie-break selection")

	// ErrResultsAlreadyDeclared rejects re-declaration of frozen results.
	ErrResultsAlreadyDeclared = errors.New("results already declared")
)
