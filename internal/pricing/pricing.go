package pricing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wolfman30/starring-booking/internal/booking"
)

// DefaultCurrency is the currency the default table is quoted in.
const DefaultCurrency = "INR"

// Table maps a category key ("phone-basic") to a price in minor currency units.
type Table map[string]int64

// DefaultTable returns the standard four-category price list.
func DefaultTable() Table {
	return Table{
		"phone-basic":  99900,
		"phone-pro":    199900,
		"camera-basic": 299900,
		"camera-pro":   499900,
	}
}

// ParseTable decodes a JSON object of category keys to minor-unit amounts. Keys are
// normalised to lower case; non-positive amounts are rejected.
func ParseTable(raw string) (Table, error) {
	var parsed map[string]int64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("pricing: decode table: %w", err)
	}
	table := make(Table, len(parsed))
	for k, v := range parsed {
		if v <= 0 {
			return nil, fmt.Errorf("pricing: amount for %q must be positive", k)
		}
		table[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return table, nil
}

// Key builds the category key for a device and edit type.
func Key(device booking.DeviceType, edit booking.EditType) string {
	return strings.ToLower(strings.TrimSpace(string(device))) + "-" + strings.ToLower(strings.TrimSpace(string(edit)))
}

// Price looks up the amount for the combination. Device and edit type come from free-form
// draft fields, so an unknown combination is possible and reported as a pricing error.
func (t Table) Price(device booking.DeviceType, edit booking.EditType) (int64, error) {
	key := Key(device, edit)
	amount, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", booking.ErrCategoryNotPriced, key)
	}
	return amount, nil
}

// Covers reports the device/edit combinations that have no price entry.
func (t Table) Covers(devices []booking.DeviceType, edits []booking.EditType) []string {
	var missing []string
	for _, d := range devices {
		for _, e := range edits {
			if _, ok := t[Key(d, e)]; !ok {
				missing = append(missing, Key(d, e))
			}
		}
	}
	return missing
}
