package models

import "kaskita/internal/money"

// AssetCategory classifies assets (cash, bank, e-wallet).
type AssetCategory struct {
	Base
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// Asset is an account holding value. Balance is maintained by the backend.
type Asset struct {
	Base
	Name       string        `json:"name"`
	CategoryID ID            `json:"category_id"`
	Desc       string        `json:"desc,omitempty"`
	Target     string        `json:"target,omitempty"`
	Balance    money.Amount  `json:"balance"`
	Category   AssetCategory `json:"category"`
}

// AssetInput is the create/update payload for an asset.
type AssetInput struct {
	ID         ID           `json:"id,omitempty"`
	Name       string       `json:"name" binding:"required,min=1,max=100"`
	CategoryID ID           `json:"category_id" binding:"required"`
	Balance    money.Amount `json:"balance"`
}
