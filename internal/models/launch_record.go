package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// TransactionRecord is one confirmed on-chain submission made during a launch.
type TransactionRecord struct {
	Type string `json:"type"`
	TxID string `json:"txId"`
}

// TransactionList is stored as a JSONB column. The list is written once at
// creation time and never appended to afterwards.
type TransactionList []TransactionRecord

// Value implements the driver.Valuer interface
func (t TransactionList) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]TransactionRecord{})
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface
func (t *TransactionList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// LaunchRecord represents one launched token. It is created by the persist
// stage of the launch flow and mutated only by the price/fee sync job.
type LaunchRecord struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	BaseMint    string `gorm:"size:64;uniqueIndex;not null" json:"baseMint"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Symbol      string `gorm:"size:64;not null" json:"symbol"`
	Description string `gorm:"size:512" json:"description"`
	Creator     string `gorm:"size:64;index;not null" json:"creator"`
	ImageURL    string `gorm:"size:255" json:"imageUrl"`
	MetadataURL string `gorm:"size:255" json:"metadataUrl"`

	ConfigAddress string `gorm:"size:64;default:''" json:"configAddress"`
	Status        string `gorm:"size:16;default:created" json:"status"`

	// Price data, refreshed by the sync job.
	UsdPrice        float64    `gorm:"default:0" json:"usdPrice"`
	MarketCap       float64    `gorm:"default:0" json:"marketCap"`
	BondingCurve    float64    `gorm:"default:0" json:"bondingCurve"`
	PriceChange24h  float64    `gorm:"default:0" json:"priceChange24h"`
	Volume24h       float64    `gorm:"default:0" json:"volume24h"`
	LastPriceUpdate *time.Time `json:"lastPriceUpdate"`

	// Fee data, refreshed by the sync job. Amounts are in SOL.
	CreatorFees      float64    `gorm:"default:0" json:"creatorFees"`
	PartnerFees      float64    `gorm:"default:0" json:"partnerFees"`
	TotalTradingFees float64    `gorm:"default:0" json:"totalTradingFees"`
	LastFeeUpdate    *time.Time `json:"lastFeeUpdate"`

	// Share of locked-liquidity trading fees routed to the creator, 0-90.
	// The platform holds the remaining 100 - share.
	CreatorFeePct int `gorm:"default:0" json:"creatorFeePercentage"`

	Website  string `gorm:"size:255" json:"website"`
	Telegram string `gorm:"size:128" json:"telegram"`
	Twitter  string `gorm:"size:128" json:"twitter"`

	Transactions TransactionList `gorm:"type:jsonb" json:"transactions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (LaunchRecord) TableName() string {
	return "launch_records"
}
