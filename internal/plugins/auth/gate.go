package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pellmont/wardbook/internal/apperror"
	"github.com/pellmont/wardbook/internal/plugins/captcha"
	"github.com/pellmont/wardbook/internal/plugins/records"
)

// RecordSearcher is the slice of the records service the gate needs to
// fetch patient rows after a successful login.
type RecordSearcher interface {
	SearchBySurname(ctx context.Context, surname string) ([]records.Patient, error)
}

// GateService is the adaptive login gate. Each session starts permissive;
// once an attempt fails, every later attempt from that session must also
// solve a visual challenge until one attempt fully succeeds.
type GateService interface {
	// EnsureSession resumes the session for the given ID, or creates a
	// fresh one when the ID is empty or no longer in the store.
	EnsureSession(ctx context.Context, id string) (*Session, error)

	// Login runs one attempt through the state machine and reports the
	// outcome. Domain failures are outcomes, not errors; an error means
	// the attempt could not be judged at all.
	Login(ctx context.Context, sessionID string, input LoginInput) (*LoginResult, error)

	// IssueChallenge generates a new challenge, binds its answer to the
	// session (replacing any pending one), and returns the PNG image.
	IssueChallenge(ctx context.Context, sessionID string) ([]byte, error)

	// ChallengeRequired reports whether the session's next attempt must
	// carry a challenge response. Read-only.
	ChallengeRequired(ctx context.Context, sessionID string) (bool, error)

	// ValidateSession returns the session if it exists and is
	// authenticated, apperror.Unauthorized otherwise.
	ValidateSession(ctx context.Context, sessionID string) (*Session, error)

	// Logout destroys the session.
	Logout(ctx context.Context, sessionID string) error
}

// gateService implements GateService.
type gateService struct {
	store      SessionStore
	verifier   CredentialVerifier
	challenges captcha.Generator
	records    RecordSearcher
}

// NewGateService creates the gate with its collaborators.
func NewGateService(store SessionStore, verifier CredentialVerifier, challenges captcha.Generator, searcher RecordSearcher) GateService {
	return &gateService{
		store:      store,
		verifier:   verifier,
		challenges: challenges,
		records:    searcher,
	}
}

func (g *gateService) EnsureSession(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		sess, err := g.store.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !isNotFound(err) {
			return nil, apperror.NewInternal(fmt.Errorf("resuming session: %w", err))
		}
	}

	sess := NewSession()
	if err := g.store.Put(ctx, sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}
	return sess, nil
}

// Login judges one attempt. The order is fixed: input shape first, then the
// challenge (when the session owes one), then credentials. Earlier checks
// short-circuit the later ones, so a caller with a wrong challenge answer
// learns nothing about the credentials it submitted.
func (g *gateService) Login(ctx context.Context, sessionID string, input LoginInput) (*LoginResult, error) {
	sess, err := g.loadOrFresh(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	surname := strings.TrimSpace(input.Surname)
	response := strings.TrimSpace(input.ChallengeResponse)

	// A structurally incomplete submission is rejected outright and leaves
	// the session untouched. Blank means blank after trimming, including
	// the password; the raw password still goes to the verifier untouched.
	// The response field only counts as required while an unanswered
	// challenge is actually pending.
	if username == "" || strings.TrimSpace(input.Password) == "" || surname == "" ||
		(sess.PendingChallenge != "" && response == "") {
		return &LoginResult{Outcome: OutcomeInvalidInput}, nil
	}

	if sess.ChallengeRequired() {
		matched := sess.MatchesChallenge(response)
		// One attempt consumes the pending challenge, pass or fail. A
		// retry needs a fresh image.
		sess.PendingChallenge = ""
		if !matched {
			sess.RecordFailure()
			if err := g.store.Put(ctx, sess); err != nil {
				return nil, apperror.NewInternal(fmt.Errorf("saving session: %w", err))
			}
			slog.Info("login challenge failed",
				slog.String("session_id", sess.ID),
				slog.Int("failure_count", sess.FailureCount),
			)
			return &LoginResult{Outcome: OutcomeChallengeFailed}, nil
		}
	}

	ok, err := g.verifier.Verify(ctx, username, input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("verifying credentials: %w", err))
	}
	if !ok {
		sess.RecordFailure()
		if err := g.store.Put(ctx, sess); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("saving session: %w", err))
		}
		slog.Info("login credentials rejected",
			slog.String("session_id", sess.ID),
			slog.Int("failure_count", sess.FailureCount),
		)
		return &LoginResult{Outcome: OutcomeInvalidCredentials}, nil
	}

	sess.RecordSuccess(username)
	if err := g.store.Put(ctx, sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("saving session: %w", err))
	}

	patients, err := g.records.SearchBySurname(ctx, surname)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in",
		slog.String("session_id", sess.ID),
		slog.String("username", username),
	)

	return &LoginResult{Outcome: OutcomeAuthenticated, Records: patients}, nil
}

func (g *gateService) IssueChallenge(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := g.loadOrFresh(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answer, img, err := g.challenges.Generate()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating challenge: %w", err))
	}

	sess.PendingChallenge = answer
	if err := g.store.Put(ctx, sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("saving session: %w", err))
	}

	return img, nil
}

func (g *gateService) ChallengeRequired(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	sess, err := g.store.Get(ctx, sessionID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, apperror.NewInternal(fmt.Errorf("reading session: %w", err))
	}
	return sess.ChallengeRequired(), nil
}

func (g *gateService) ValidateSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	sess, err := g.store.Get(ctx, sessionID)
	if isNotFound(err) {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session: %w", err))
	}
	if !sess.Authenticated {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	return sess, nil
}

func (g *gateService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := g.store.Delete(ctx, sessionID); err != nil {
		return apperror.NewInternal(fmt.Errorf("destroying session: %w", err))
	}
	return nil
}

// loadOrFresh fetches the session, substituting a clean one under the same
// ID when the store has forgotten it. An expired session and a brand new
// one are indistinguishable to the state machine.
func (g *gateService) loadOrFresh(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return NewSession(), nil
	}
	sess, err := g.store.Get(ctx, sessionID)
	if isNotFound(err) {
		return &Session{ID: sessionID, CreatedAt: time.Now().UTC()}, nil
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session: %w", err))
	}
	return sess, nil
}

// isNotFound reports whether err is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}
