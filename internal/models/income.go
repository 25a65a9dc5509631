package models

// Platform identifies the gig platform a block was worked on.
type Platform string

const (
	PlatformAmazonFlex Platform = "amazon_flex"
	PlatformDoorDash   Platform = "doordash"
	PlatformUberEats   Platform = "uber_eats"
	PlatformGrubhub    Platform = "grubhub"
	PlatformInstacart  Platform = "instacart"
	PlatformShipt      Platform = "shipt"
	PlatformUber       Platform = "uber"
	PlatformLyft       Platform = "lyft"
	PlatformOther      Platform = "other"
)

// Platforms lists every accepted platform value.
var Platforms = []Platform{
	PlatformAmazonFlex,
	PlatformDoorDash,
	PlatformUberEats,
	PlatformGrubhub,
	PlatformInstacart,
	PlatformShipt,
	PlatformUber,
	PlatformLyft,
	PlatformOther,
}

// IsValid reports whether p is one of the enumerated platforms.
func (p Platform) IsValid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// IncomeEntry is one worked block.
type IncomeEntry struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"` // YYYY-MM-DD format
	Platform       Platform `json:"platform"`
	CustomPlatform string   `json:"custom_platform_name,omitempty"`
	BlockStart     string   `json:"block_start,omitempty"`  // HH:MM format
	BlockEnd       string   `json:"block_end,omitempty"`    // HH:MM format
	BlockLength    int      `json:"block_length,omitempty"` // minutes
	Amount         float64  `json:"amount"`
	Notes          string   `json:"notes,omitempty"`
}

// PlatformLabel returns the display name, preferring the custom name for Other.
func (e IncomeEntry) PlatformLabel() string {
	if e.Platform == PlatformOther && e.CustomPlatform != "" {
		return e.CustomPlatform
	}
	return string(e.Platform)
}

// DailyData holds the per-date driving figures. Date is the natural key.
type DailyData struct {
	Date    string   `json:"date"`              // YYYY-MM-DD format
	Mileage *float64 `json:"mileage,omitempty"` // distance driven
	GasCost *float64 `json:"gas_expense,omitempty"`
}
