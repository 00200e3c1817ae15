package sysconfig

import (
	"database/sql"
	"time"
)

// DataType tags how a stored config value must be coerced.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeJSON    DataType = "json"
)

// Entry is one row of the system_config table. Values are stored as text
// and converted exactly once, at the service boundary.
type Entry struct {
	Key         string         `db:"key"`
	Value       string         `db:"value"`
	DataType    DataType       `db:"data_type"`
	Description sql.NullString `db:"description"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Well-known configuration keys.
const (
	KeyRegistrationBonus = "user_registration_bonus"
	KeyRechargeRates     = "recharge_rates"
)

// PostCostKey returns the config key holding the publish fee for a post type.
func PostCostKey(postType string) string {
	return "post_costs." + postType
}

// PremiumCostKey returns the config key holding the price of a premium tier.
// Top placement is priced per duration; highlight and urgent have flat prices.
func PremiumCostKey(premiumType string, durationHours int) string {
	if premiumType == "top" {
		switch durationHours {
		case 24:
			return "premium_costs.top_24h"
		case 72:
			return "premium_costs.top_72h"
		case 168:
			return "premium_costs.top_168h"
		}
	}
	return "premium_costs." + premiumType
}
