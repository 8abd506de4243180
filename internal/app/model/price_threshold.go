package model

import "time"

// ThresholdKeySuffix marks a merchandising config row as a category price threshold.
const ThresholdKeySuffix = "_price_threshold"

// PriceThreshold is a merchandising config row such as
// {key: "protein_price_threshold", value: "2.50"}.
type PriceThreshold struct {
	Key       string    `gorm:"column:config_key;primaryKey;size:100" json:"key"`
	Value     string    `gorm:"column:config_value;size:32;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PriceThreshold) TableName() string {
	return "price_thresholds"
}
