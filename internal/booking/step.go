package booking

import "fmt"

// Step is the wizard page the customer is on.
type Step int

const (
	StepDetails Step = iota + 1
	StepPreferences
	StepSchedule
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepPreferences:
		return "preferences"
	case StepSchedule:
		return "schedule"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Valid reports whether s is one of the three wizard steps.
func (s Step) Valid() bool {
	return s >= StepDetails && s <= StepSchedule
}

// Decision is the step gate's answer to a "continue" request.
type Decision struct {
	Allowed bool
	Next    Step
	Reason  string
	Err     error
}

// TryAdvance decides whether the draft may leave step. Date and time are never checked
// here; they are validated when the booking is submitted.
func TryAdvance(step Step, d Draft) Decision {
	var err error
	switch step {
	case StepDetails:
		if !d.HasContact() {
			err = ErrMissingContact
		}
	case StepPreferences:
		if !d.HasPreferences() {
			err = ErrMissingPreferences
		}
	case StepSchedule:
		err = ErrFinalStep
	default:
		err = fmt.Errorf("%w: %s", ErrIncompletePreviousStep, step)
	}
	if err != nil {
		return Decision{Allowed: false, Next: step, Reason: UserMessage(err), Err: err}
	}
	return Decision{Allowed: true, Next: step + 1}
}

// Wizard pairs a draft with the step it is on.
type Wizard struct {
	Draft Draft `json:"draft"`
	Step  Step  `json:"step"`
}

// NewWizard returns an empty wizard on the first step.
func NewWizard() Wizard {
	return Wizard{Step: StepDetails}
}

// SetField replaces one draft field. The step is unchanged.
func (w Wizard) SetField(field, value string) (Wizard, error) {
	d, err := w.Draft.Set(field, value)
	if err != nil {
		return w, err
	}
	w.Draft = d
	return w, nil
}

// Advance runs the step gate and moves forward by one step when allowed.
func (w Wizard) Advance() (Wizard, Decision) {
	dec := TryAdvance(w.Step, w.Draft)
	if dec.Allowed {
		w.Step = dec.Next
	}
	return w, dec
}

// Reset returns the wizard to an empty draft on the first step.
func (w Wizard) Reset() Wizard {
	return NewWizard()
}
