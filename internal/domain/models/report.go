package models

import "time"

// StockAlert is one low-stock or expiring catalog item flagged by the daily sweep.
type StockAlert struct {
	StockItemID  string `bson:"stock_item_id" json:"stock_item_id"`
	Name         string `bson:"name" json:"name"`
	Stock        int    `bson:"stock" json:"stock"`
	ReorderLevel int    `bson:"reorder_level" json:"reorder_level"`
	Expiry       string `bson:"expiry,omitempty" json:"expiry,omitempty"`
}

// DailyStockReport represents the aggregated daily snapshot stored in MongoDB
// and exported to the report spreadsheet.
type DailyStockReport struct {
	Date          time.Time    `bson:"date" json:"date"`
	Stats         DerivedStats `bson:"stats" json:"stats"`
	LowStock      []StockAlert `bson:"low_stock" json:"low_stock"`
	Expiring      []StockAlert `bson:"expiring" json:"expiring"`
	ExpiryHorizon int          `bson:"expiry_horizon_days" json:"expiry_horizon_days"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at"`
}
