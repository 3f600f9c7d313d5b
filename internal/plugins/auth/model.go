// Package auth implements the adaptive login gate: credential checks,
// session failure tracking, and the visual challenge that is demanded
// from callers with a failure history.
package auth

import (
	"strings"
	"time"

	"github.com/pellmont/wardbook/internal/plugins/records"
)

// User is an account row as stored in the users table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Username          string `json:"username" form:"username"`
	Password          string `json:"password" form:"password"`
	Surname           string `json:"surname" form:"surname"`
	ChallengeResponse string `json:"challenge_response" form:"challenge_response"`
}

// LoginInput carries one login attempt as submitted by the form. Surname is
// the patient lookup to run once the caller is authenticated.
type LoginInput struct {
	Username          string
	Password          string
	Surname           string
	ChallengeResponse string
}

// Session is the per-caller state the gate consults on every attempt. It is
// stored server-side and referenced by an opaque cookie token; none of these
// fields ever reach the client.
type Session struct {
	ID               string    `json:"id"`
	Username         string    `json:"username,omitempty"`
	Authenticated    bool      `json:"authenticated"`
	FailureCount     int       `json:"failure_count"`
	PendingChallenge string    `json:"pending_challenge,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ChallengeRequired reports whether the next login attempt from this session
// must carry a correct challenge response. The rule is exact: any recorded
// failure demands a challenge, a clean history demands none.
func (s *Session) ChallengeRequired() bool {
	return s.FailureCount > 0
}

// RecordFailure notes one more failed attempt. The count only ever grows
// until a full success resets it.
func (s *Session) RecordFailure() {
	s.FailureCount++
}

// RecordSuccess marks the session authenticated and wipes the failure
// history and any pending challenge.
func (s *Session) RecordSuccess(username string) {
	s.Authenticated = true
	s.Username = username
	s.FailureCount = 0
	s.PendingChallenge = ""
}

// MatchesChallenge compares a response against the pending challenge answer,
// ignoring letter case. An empty pending answer never matches.
func (s *Session) MatchesChallenge(response string) bool {
	if s.PendingChallenge == "" {
		return false
	}
	return strings.EqualFold(s.PendingChallenge, response)
}

// Outcome classifies the result of one login attempt.
type Outcome int

const (
	// OutcomeAuthenticated means credentials (and the challenge, when one
	// was required) all checked out.
	OutcomeAuthenticated Outcome = iota
	// OutcomeInvalidInput means the submission was structurally incomplete
	// and was rejected before any checks ran.
	OutcomeInvalidInput
	// OutcomeChallengeFailed means the challenge response was wrong or
	// missing; the credentials were never examined.
	OutcomeChallengeFailed
	// OutcomeInvalidCredentials means the username/password pair did not
	// check out. Unknown users and wrong passwords both land here.
	OutcomeInvalidCredentials
)

// LoginResult is what the gate hands back to the HTTP layer after an
// attempt. Records are populated only on success.
type LoginResult struct {
	Outcome Outcome
	Records []records.Patient
}
