// Package finance defines the request-scoped snapshots the projection engine
// consumes: assets, debts and historical transactions.
package finance

import (
	"math"
	"strings"
	"time"

	"github.com/iwvelando/finance-projection/pkg/series"
)

// AssetCategory selects the projection strategy applied to an asset.
type AssetCategory string

const (
	CategoryCash       AssetCategory = "cash"
	CategoryMarket     AssetCategory = "market"
	CategoryRealEstate AssetCategory = "real_estate"
	CategoryOther      AssetCategory = "other"
)

// CategoryForType maps a recorded asset type onto a projection category.
// Unknown types fall back to CategoryOther.
func CategoryForType(assetType string) AssetCategory {
	switch strings.ToLower(strings.TrimSpace(assetType)) {
	case "cash", "bank_account", "savings", "checking":
		return CategoryCash
	case "market", "investment", "stock", "etf", "mutual_fund", "bond", "cryptocurrency", "retirement":
		return CategoryMarket
	case "real_estate", "property":
		return CategoryRealEstate
	default:
		return CategoryOther
	}
}

// Asset is a point-in-time snapshot of something the user owns.
type Asset struct {
	ID               string
	Name             string
	Type             string
	Category         AssetCategory
	CurrentValue     float64
	AnnualReturn     float64 // percent
	InterestRate     float64 // percent
	AcquisitionValue float64
	AcquisitionDate  time.Time
	History          series.Series // prior valuations, oldest first
}

// Validate checks the asset invariants.
func (a Asset) Validate() error {
	if a.ID == "" {
		return InvalidInput("asset without identifier")
	}
	if math.IsNaN(a.CurrentValue) || math.IsInf(a.CurrentValue, 0) {
		return InvalidInput("asset %s has a non-finite value", a.ID)
	}
	if a.CurrentValue < 0 {
		return InvalidInput("asset %s has negative value %.2f", a.ID, a.CurrentValue)
	}
	if a.InterestRate < 0 {
		return InvalidInput("asset %s has negative interest rate %.2f", a.ID, a.InterestRate)
	}
	return nil
}

// ResolvedCategory returns the explicit category or the one implied by Type.
func (a Asset) ResolvedCategory() AssetCategory {
	if a.Category != "" {
		return a.Category
	}
	return CategoryForType(a.Type)
}
