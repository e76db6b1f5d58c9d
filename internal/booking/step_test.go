package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTryAdvanceDetailsRequiresContact(t *testing.T) {
	full := Draft{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
	drafts := map[string]Draft{
		"missing name":  {Email: full.Email, Phone: full.Phone},
		"missing email": {Name: full.Name, Phone: full.Phone},
		"missing phone": {Name: full.Name, Email: full.Email},
		"blank name":    {Name: "   ", Email: full.Email, Phone: full.Phone},
		"empty":         {},
	}
	for name, d := range drafts {
		t.Run(name, func(t *testing.T) {
			dec := TryAdvance(StepDetails, d)
			assert.False(t, dec.Allowed)
			assert.Equal(t, StepDetails, dec.Next)
			assert.Equal(t, "missing contact details", dec.Reason)
			assert.ErrorIs(t, dec.Err, ErrMissingContact)
		})
	}

	dec := TryAdvance(StepDetails, full)
	assert.True(t, dec.Allowed)
	assert.Equal(t, StepPreferences, dec.Next)
}

func TestTryAdvancePreferences(t *testing.T) {
	dec := TryAdvance(StepPreferences, Draft{DeviceType: DevicePhone})
	assert.False(t, dec.Allowed)
	assert.Equal(t, "missing shoot preferences", dec.Reason)

	for _, device := range []DeviceType{DevicePhone, DeviceCamera} {
		for _, edit := range []EditType{EditBasic, EditPro} {
			dec := TryAdvance(StepPreferences, Draft{DeviceType: device, EditType: edit})
			assert.True(t, dec.Allowed)
			assert.Equal(t, StepSchedule, dec.Next)
		}
	}
}

func TestTryAdvanceIgnoresSchedule(t *testing.T) {
	dec := TryAdvance(StepPreferences, Draft{DeviceType: DeviceCamera, EditType: EditPro})
	assert.True(t, dec.Allowed, "date and time are checked at submission, not by the gate")
}

func TestTryAdvanceFinalStep(t *testing.T) {
	dec := TryAdvance(StepSchedule, Draft{})
	assert.False(t, dec.Allowed)
	assert.Equal(t, StepSchedule, dec.Next)
	assert.ErrorIs(t, dec.Err, ErrFinalStep)
}

func TestWizardAdvance(t *testing.T) {
	w := NewWizard()
	w, dec := w.Advance()
	assert.False(t, dec.Allowed)
	assert.Equal(t, StepDetails, w.Step)

	w, _ = w.SetField(FieldName, "Asha")
	w, _ = w.SetField(FieldEmail, "asha@example.com")
	w, _ = w.SetField(FieldPhone, "9876543210")
	w, dec = w.Advance()
	assert.True(t, dec.Allowed)
	assert.Equal(t, StepPreferences, w.Step)

	w = w.Reset()
	assert.Equal(t, NewWizard(), w)
}
