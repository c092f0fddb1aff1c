// Package otp implements the voting one-time-code gate. A voter requests a
// code for an ongoing election, receives it out-of-band on the registered
// email address, and exchanges it for a single-use ballot access grant. The
// code binds ballot access to mailbox possession at vote time, independent
// of the long-lived session token used for site login.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/types"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

const (
	// CodeDigits is the length of the numeric one-time code.
	CodeDigits = 6
	// CodeTTL is how long an issued code (and the grant derived from it)
	// stays valid.
	CodeTTL = 10 * time.Minute
)

// ErrDispatchFailed signals a transient out-of-band delivery failure. The
// session was already durably created, so the caller may simply retry the
// request; a resend is safe.
var ErrDispatchFailed = errors.New("could not dispatch one-time code")

// Directory resolves a voter identifier to the registered email address.
// Voter registration lives outside this subsystem; this is its boundary.
type Directory interface {
	Email(voterID string) (string, error)
}

// Dispatcher delivers a one-time code out-of-band.
type Dispatcher interface {
	SendOTP(ctx context.Context, email, code string, expiresIn time.Duration) error
}

// Gate issues and verifies one-time codes, gating access to the ballot.
type Gate struct {
	store     *storage.Storage
	directory Directory
	dispatch  Dispatcher
}

// NewGate creates a new OTP gate.
func NewGate(store *storage.Storage, directory Directory, dispatch Dispatcher) *Gate {
	return &Gate{store: store, directory: directory, dispatch: dispatch}
}

// Request issues a fresh one-time code for the (voter, election) pair and
// dispatches it to the voter's registered address. Any prior unconsumed
// session for the pair is invalidated. It returns the expiry countdown,
// never the code itself.
func (g *Gate) Request(ctx context.Context, voter string, election *types.Election) (time.Duration, error) {
	if election.Status != types.ElectionStatusOngoing {
		return 0, types.ErrElectionNotOngoing
	}
	voted, err := g.store.HasVoted(election, voter)
	if err != nil {
		return 0, err
	}
	if voted {
		return 0, types.ErrAlreadyVoted
	}

	email, err := g.directory.Email(voter)
	if err != nil {
		return 0, fmt.Errorf("resolve voter address: %w", err)
	}

	code := util.RandomNumericCode(CodeDigits)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash one-time code: %w", err)
	}
	now := time.Now()
	if err := g.store.SetOTPSession(&types.OTPSession{
		Voter:      voter,
		ElectionID: election.ID,
		CodeHash:   hash,
		IssuedAt:   now,
		ExpiresAt:  now.Add(CodeTTL),
	}); err != nil {
		return 0, fmt.Errorf("store session: %w", err)
	}

	if err := g.dispatch.SendOTP(ctx, email, code, CodeTTL); err != nil {
		// the session is durable already; surface a retryable failure
		log.Warnw("one-time code dispatch failed",
			"voter", voter, "electionId", election.ID.String(), "error", err.Error())
		return 0, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	log.Debugw("one-time code issued",
		"voter", voter, "electionId", election.ID.String(), "expiresIn", CodeTTL)
	return CodeTTL, nil
}

// Verify checks a submitted code against the pair's current session,
// consumes the session and returns a fresh ballot access grant. A consumed
// or expired session never verifies again.
func (g *Gate) Verify(voter string, election *types.Election, code string) (*types.BallotGrant, error) {
	if election.Status != types.ElectionStatusOngoing {
		return nil, types.ErrElectionNotOngoing
	}
	now := time.Now()
	err := g.store.ConsumeOTPSession(election.ID, voter, func(sess *types.OTPSession) error {
		if sess.Consumed {
			return types.ErrInvalidOTP
		}
		if now.After(sess.ExpiresAt) {
			return types.ErrOTPExpired
		}
		if bcrypt.CompareHashAndPassword(sess.CodeHash, []byte(code)) != nil {
			return types.ErrInvalidOTP
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, types.ErrInvalidOTP
		}
		return nil, err
	}

	grant := &types.BallotGrant{
		Token:      uuid.NewString(),
		Voter:      voter,
		ElectionID: election.ID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(CodeTTL),
	}
	if err := g.store.SetBallotGrant(grant); err != nil {
		return nil, fmt.Errorf("store grant: %w", err)
	}
	log.Debugw("ballot access granted", "voter", voter, "electionId", election.ID.String())
	return grant, nil
}
