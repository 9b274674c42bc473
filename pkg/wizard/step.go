package wizard

import "github.com/willvault/registry/pkg/tiers"

// Step identifies a screen of the registration wizard.
type Step string

const (
	StepSubscription Step = "subscription"
	StepProfile      Step = "profile"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// stepOrder is the canonical forward order of the wizard.
var stepOrder = [...]Step{StepSubscription, StepProfile, StepPayment, StepConfirmation}

// Steps returns the canonical step order.
func Steps() []Step {
	return stepOrder[:]
}

// Valid reports whether s is a known wizard step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

func (s Step) index() int {
	for i, step := range stepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// NextStep returns the step after current for the chosen plan. The payment
// step is skipped entirely for the free bronze plan: from subscription the
// machine jumps straight to confirmation. The second return value is false
// at the end of the sequence.
func NextStep(current Step, plan tiers.Level) (Step, bool) {
	if plan == tiers.LevelBronze {
		switch current {
		case StepSubscription, StepProfile:
			return StepConfirmation, true
		}
	}

	idx := current.index()
	if idx < 0 || idx+1 >= len(stepOrder) {
		return "", false
	}
	return stepOrder[idx+1], true
}

// PrevStep returns the step before current for the chosen plan, skipping the
// payment step for bronze: from confirmation the machine returns straight to
// subscription. The second return value is false at the start.
func PrevStep(current Step, plan tiers.Level) (Step, bool) {
	if plan == tiers.LevelBronze && current == StepConfirmation {
		return StepSubscription, true
	}

	idx := current.index()
	if idx <= 0 {
		return "", false
	}
	return stepOrder[idx-1], true
}
