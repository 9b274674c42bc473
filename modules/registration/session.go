package registration

import (
	"errors"
	"sync"

	"github.com/willvault/registry/pkg/tiers"
	"github.com/willvault/registry/pkg/wizard"
)

// ErrUnknownLevel is returned when a plan choice names no catalog tier.
var ErrUnknownLevel = errors.New("unknown subscription level")

// Session holds one user's wizard state: the chosen plan, the profile
// draft, and the step cursor. The wizard machine reads plan and
// profile validity back through closures, so the session is the single
// owner of the data.
type Session struct {
	mu           sync.RWMutex
	plan         tiers.Level
	planChosen   bool
	profile      Profile
	profileValid bool

	machine *wizard.Machine
}

// NewSession creates an empty session positioned at the first step.
func NewSession() *Session {
	s := &Session{}
	s.machine = wizard.NewMachine(s.planSnapshot, s.profileSnapshot)
	return s
}

func (s *Session) planSnapshot() (tiers.Level, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan, s.planChosen
}

func (s *Session) profileSnapshot() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileValid
}

// ChoosePlan records the plan selection, completing the subscription
// step.
func (s *Session) ChoosePlan(level tiers.Level) error {
	if !level.Valid() {
		return ErrUnknownLevel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = level
	s.planChosen = true
	return nil
}

// Plan returns the chosen plan; ok is false before any choice.
func (s *Session) Plan() (tiers.Level, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan, s.planChosen
}

// SetProfile stores the submitted profile and revalidates it. Invalid
// drafts are kept so the form can be redisplayed with the user's
// input; the returned error carries the field messages.
func (s *Session) SetProfile(p Profile) error {
	err := p.Validate()
	s.mu.Lock()
	s.profile = p
	s.profileValid = err == nil
	s.mu.Unlock()
	return err
}

// Profile returns the current profile draft.
func (s *Session) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Current returns the step the wizard is on.
func (s *Session) Current() wizard.Step { return s.machine.Current() }

// StepCompleted reports whether a step's completion predicate holds.
func (s *Session) StepCompleted(step wizard.Step) bool { return s.machine.StepCompleted(step) }

// Advance moves forward if the current step is complete.
func (s *Session) Advance() bool { return s.machine.Advance() }

// Back moves backward.
func (s *Session) Back() bool { return s.machine.Back() }

// SettlePayment marks the payment step complete.
func (s *Session) SettlePayment() { s.machine.SettlePayment() }

// Reset clears all state and returns to the first step.
func (s *Session) Reset() {
	s.mu.Lock()
	s.plan = ""
	s.planChosen = false
	s.profile = Profile{}
	s.profileValid = false
	s.mu.Unlock()
	s.machine.Reset()
}
