package models

import "time"

// HOS rule variants. The variant fixes the cycle cap and the length of the
// trailing cycle window; it is immutable once the driver has logged events.
const (
	Rule70Hours8Days = "70_8"
	Rule60Hours7Days = "60_7"
)

// Driver is one commercial driver tracked for HOS compliance.
type Driver struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	LicenseNumber       string    `json:"license_number,omitempty"`
	LicenseState        string    `json:"license_state,omitempty"`
	CarrierName         string    `json:"carrier_name,omitempty"`
	HomeTerminalAddress string    `json:"home_terminal_address,omitempty"`
	Timezone            string    `json:"timezone"`      // IANA name, e.g. "America/Chicago"
	HOSRule             string    `json:"hos_rule_type"` // "70_8" | "60_7"
	CurrentCycleHours   float64   `json:"current_cycle_hours"` // cached, recomputable from history
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
