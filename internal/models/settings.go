package models

// DefaultClosingDate applies when the user never set one.
const DefaultClosingDate = 1

// UserSettings are the per-user preferences tied to the session.
type UserSettings struct {
	ClosingDate       FlexInt `json:"closing_date"`
	Currency          string  `json:"currency,omitempty"`
	Timezone          string  `json:"timezone,omitempty"`
	DefaultAssetID    ID      `json:"default_asset_id,omitempty"`
	DefaultCategoryID ID      `json:"default_category_id,omitempty"`
}

// EffectiveClosingDate returns the closing date, defaulting to 1 when unset.
func (s UserSettings) EffectiveClosingDate() int {
	if s.ClosingDate <= 0 {
		return DefaultClosingDate
	}
	return int(s.ClosingDate)
}

// SettingsInput is the PUT /api/user/settings payload.
type SettingsInput struct {
	ClosingDate       int    `json:"closing_date" binding:"omitempty,closing_date"`
	Currency          string `json:"currency,omitempty" binding:"omitempty,iso4217"`
	Timezone          string `json:"timezone,omitempty"`
	DefaultAssetID    ID     `json:"default_asset_id,omitempty"`
	DefaultCategoryID ID     `json:"default_category_id,omitempty"`
}
