package wizard

import (
	"sync"

	"github.com/willvault/registry/pkg/tiers"
)

// PlanFunc reports the currently chosen plan; ok is false while no plan is
// selected yet.
type PlanFunc func() (plan tiers.Level, ok bool)

// ProfileFunc reports whether the profile record passes full validation.
type ProfileFunc func() bool

// Machine is the wizard cursor. It owns no form data itself; the completion
// predicates read the surrounding session through the injected funcs, which
// keeps the machine free of UI and persistence concerns.
type Machine struct {
	mu           sync.Mutex
	current      Step
	plan         PlanFunc
	profileValid ProfileFunc

	// paymentSettled marks the payment step complete for paid plans once the
	// reconciliation flow has confirmed activation. For bronze the step is
	// auto-complete and this flag is never consulted.
	paymentSettled bool
}

// NewMachine creates a machine positioned at the subscription step.
func NewMachine(plan PlanFunc, profileValid ProfileFunc) *Machine {
	if plan == nil {
		plan = func() (tiers.Level, bool) { return "", false }
	}
	if profileValid == nil {
		profileValid = func() bool { return false }
	}
	return &Machine{
		current:      StepSubscription,
		plan:         plan,
		profileValid: profileValid,
	}
}

// Current returns the step the wizard is on.
func (m *Machine) Current() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// StepCompleted reports whether a step's completion predicate holds.
func (m *Machine) StepCompleted(step Step) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepCompleted(step)
}

func (m *Machine) stepCompleted(step Step) bool {
	switch step {
	case StepSubscription:
		_, chosen := m.plan()
		return chosen
	case StepProfile:
		return m.profileValid()
	case StepPayment:
		if plan, ok := m.plan(); ok && plan == tiers.LevelBronze {
			return true
		}
		return m.paymentSettled
	case StepConfirmation:
		return true
	default:
		return false
	}
}

// Advance moves the cursor forward if the current step is complete. An
// incomplete step leaves the cursor untouched, keeping the caller on the
// current screen. Reports whether the cursor moved.
func (m *Machine) Advance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stepCompleted(m.current) {
		return false
	}

	plan, _ := m.plan()
	next, ok := NextStep(m.current, plan)
	if !ok {
		return false
	}
	m.current = next
	return true
}

// Back moves the cursor backward; always allowed. Reports whether it moved.
func (m *Machine) Back() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	plan, _ := m.plan()
	prev, ok := PrevStep(m.current, plan)
	if !ok {
		return false
	}
	m.current = prev
	return true
}

// SettlePayment marks the payment step complete for paid plans. The
// reconciliation flow calls this after the processor confirms activation,
// which is what actually gates a paid plan past the payment screen.
func (m *Machine) SettlePayment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paymentSettled = true
}

// Reset returns the cursor to the subscription step and clears the payment
// settlement flag.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = StepSubscription
	m.paymentSettled = false
}
