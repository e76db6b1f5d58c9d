package booking

import (
	"fmt"
	"strings"
	"time"
)

// DeviceType is the camera the shoot is filmed on.
type DeviceType string

const (
	DevicePhone  DeviceType = "Phone"
	DeviceCamera DeviceType = "Camera"
)

// EditType is the post-production package.
type EditType string

const (
	EditBasic EditType = "Basic"
	EditPro   EditType = "Pro"
)

// DateLayout is the calendar date format accepted for Draft.Date.
const DateLayout = "2006-01-02"

// TimeSlots lists the bookable start times, in display order.
var TimeSlots = []string{
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
}

// Field names accepted by Draft.Set.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldIdea       = "idea"
	FieldDeviceType = "deviceType"
	FieldEditType   = "editType"
	FieldDate       = "date"
	FieldTimeSlot   = "timeSlot"
)

// fieldAliases maps the persistence contract names onto draft fields.
var fieldAliases = map[string]string{
	"time":         FieldTimeSlot,
	"requirements": FieldIdea,
	"device_type":  FieldDeviceType,
	"edit_type":    FieldEditType,
	"time_slot":    FieldTimeSlot,
}

// Draft is the in-progress booking. It is a value: Set returns a new Draft and never
// mutates the receiver.
type Draft struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Idea       string     `json:"idea,omitempty"`
	DeviceType DeviceType `json:"deviceType"`
	EditType   EditType   `json:"editType"`
	Date       string     `json:"date"`
	TimeSlot   string     `json:"timeSlot"`

	// Version counts effective mutations since the draft was created.
	Version uint64 `json:"version"`
}

// NormalizeField resolves aliases and returns the canonical field name.
func NormalizeField(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if alias, ok := fieldAliases[name]; ok {
		return alias, true
	}
	switch name {
	case FieldName, FieldEmail, FieldPhone, FieldIdea, FieldDeviceType, FieldEditType, FieldDate, FieldTimeSlot:
		return name, true
	}
	return "", false
}

// Set returns a copy of d with exactly one field replaced. Values are stored as given.
// Setting a field to the value it already holds returns an identical draft.
func (d Draft) Set(field, value string) (Draft, error) {
	canonical, ok := NormalizeField(field)
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if d.Get(canonical) == value {
		return d, nil
	}

	next := d
	switch canonical {
	case FieldName:
		next.Name = value
	case FieldEmail:
		next.Email = value
	case FieldPhone:
		next.Phone = value
	case FieldIdea:
		next.Idea = value
	case FieldDeviceType:
		next.DeviceType = DeviceType(value)
	case FieldEditType:
		next.EditType = EditType(value)
	case FieldDate:
		next.Date = value
	case FieldTimeSlot:
		next.TimeSlot = value
	}
	next.Version++
	return next, nil
}

// Get returns the current value of a canonical field.
func (d Draft) Get(field string) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldIdea:
		return d.Idea
	case FieldDeviceType:
		return string(d.DeviceType)
	case FieldEditType:
		return string(d.EditType)
	case FieldDate:
		return d.Date
	case FieldTimeSlot:
		return d.TimeSlot
	}
	return ""
}

// HasContact reports whether name, email and phone are all filled in.
func (d Draft) HasContact() bool {
	return present(d.Name) && present(d.Email) && present(d.Phone)
}

// HasPreferences reports whether device and edit type are both chosen.
func (d Draft) HasPreferences() bool {
	return present(string(d.DeviceType)) && present(string(d.EditType))
}

// HasSchedule reports whether a date and a time slot are chosen.
func (d Draft) HasSchedule() bool {
	return present(d.Date) && present(d.TimeSlot)
}

// ValidateSchedule checks the date format and that the slot is one of TimeSlots.
func (d Draft) ValidateSchedule() error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(d.Date)); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidSchedule, d.Date)
	}
	if !IsTimeSlot(d.TimeSlot) {
		return fmt.Errorf("%w: time slot %q", ErrInvalidSchedule, d.TimeSlot)
	}
	return nil
}

// IsTimeSlot reports whether slot is one of the bookable start times.
func IsTimeSlot(slot string) bool {
	slot = strings.TrimSpace(slot)
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
