/**
 * @description
 * Historical IPO database model and its derived classifications.
 * Maps to the 'historical_ipos' table in PostgreSQL.
 *
 * A record is written once by the population pipeline and only re-derived
 * fields (market-cap category, growth stage, data completeness) change on update.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import (
	"time"
)

// Market-cap category buckets, in USD
const (
	CapCategoryMicro = "micro" // < $0.3B
	CapCategorySmall = "small" // < $2B
	CapCategoryMid   = "mid"   // < $10B
	CapCategoryLarge = "large" // < $200B
	CapCategoryMega  = "mega"  // >= $200B
)

// Growth stage buckets, by trailing revenue
const (
	GrowthStageEarly  = "early"  // < $10M revenue
	GrowthStageGrowth = "growth" // < $100M revenue
	GrowthStageMature = "mature" // >= $100M revenue
)

// HistoricalIPO represents one realized IPO with offering terms, trailing
// financials and realized returns at fixed horizons.
type HistoricalIPO struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CIK      string `gorm:"column:cik" json:"cik"`
	Name     string `gorm:"column:name" json:"name"`
	Ticker   string `gorm:"column:ticker;uniqueIndex:idx_historical_ipos_ticker_date" json:"ticker"`
	Sector   string `gorm:"column:sector;index" json:"sector"`
	Industry string `gorm:"column:industry" json:"industry"`

	IPODate           time.Time `gorm:"column:ipo_date;uniqueIndex:idx_historical_ipos_ticker_date" json:"ipo_date"`
	IPOPrice          float64   `gorm:"column:ipo_price" json:"ipo_price"`
	ProposedPriceLow  *float64  `gorm:"column:proposed_price_low" json:"proposed_price_low"`
	ProposedPriceHigh *float64  `gorm:"column:proposed_price_high" json:"proposed_price_high"`
	SharesOffered     *int64    `gorm:"column:shares_offered" json:"shares_offered"`
	RaisedAmount      *float64  `gorm:"column:raised_amount" json:"raised_amount"`

	Revenue          *float64 `gorm:"column:revenue" json:"revenue"`
	NetIncome        *float64 `gorm:"column:net_income" json:"net_income"`
	RevenueGrowthYoY *float64 `gorm:"column:revenue_growth_yoy" json:"revenue_growth_yoy"`
	GrossMargin      *float64 `gorm:"column:gross_margin" json:"gross_margin"`
	OperatingMargin  *float64 `gorm:"column:operating_margin" json:"operating_margin"`
	FreeCashFlow     *float64 `gorm:"column:free_cash_flow" json:"free_cash_flow"`
	CashBurn         *float64 `gorm:"column:cash_burn" json:"cash_burn"`
	EnterpriseValue  *float64 `gorm:"column:enterprise_value" json:"enterprise_value"`
	MarketCapAtIPO   *float64 `gorm:"column:market_cap_at_ipo" json:"market_cap_at_ipo"`

	FirstDayReturn     *float64 `gorm:"column:first_day_return" json:"first_day_return"`
	FirstWeekReturn    *float64 `gorm:"column:first_week_return" json:"first_week_return"`
	FirstMonthReturn   *float64 `gorm:"column:first_month_return" json:"first_month_return"`
	FirstQuarterReturn *float64 `gorm:"column:first_quarter_return" json:"first_quarter_return"`
	FirstYearReturn    *float64 `gorm:"column:first_year_return" json:"first_year_return"`

	MarketCapCategory string  `gorm:"column:market_cap_category;index" json:"market_cap_category"`
	GrowthStage       string  `gorm:"column:growth_stage" json:"growth_stage"`
	DataCompleteness  float64 `gorm:"column:data_completeness" json:"data_completeness"`

	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastUpdated time.Time `gorm:"column:last_updated;autoUpdateTime" json:"last_updated"`
}

// TableName overrides the table name used by HistoricalIPO to `historical_ipos`
func (HistoricalIPO) TableName() string {
	return "historical_ipos"
}

// MarketCapCategory buckets a market cap (USD) into micro/small/mid/large/mega.
// Returns "" when the cap is unknown or non-positive.
func MarketCapCategory(marketCap float64) string {
	if marketCap <= 0 {
		return ""
	}
	billions := marketCap / 1_000_000_000
	switch {
	case billions < 0.3:
		return CapCategoryMicro
	case billions < 2:
		return CapCategorySmall
	case billions < 10:
		return CapCategoryMid
	case billions < 200:
		return CapCategoryLarge
	default:
		return CapCategoryMega
	}
}

// GrowthStage buckets trailing revenue (USD) into early/growth/mature.
// Returns "" when revenue is unknown or non-positive.
func GrowthStage(revenue float64) string {
	if revenue <= 0 {
		return ""
	}
	millions := revenue / 1_000_000
	switch {
	case millions < 10:
		return GrowthStageEarly
	case millions < 100:
		return GrowthStageGrowth
	default:
		return GrowthStageMature
	}
}

// Rederive recomputes the classification fields from the record's raw fields.
// Deterministic: calling it twice on the same record is a no-op the second time.
func (r *HistoricalIPO) Rederive() {
	if r.MarketCapAtIPO != nil {
		r.MarketCapCategory = MarketCapCategory(*r.MarketCapAtIPO)
	} else {
		r.MarketCapCategory = ""
	}
	if r.Revenue != nil {
		r.GrowthStage = GrowthStage(*r.Revenue)
	} else {
		r.GrowthStage = ""
	}
	r.DataCompleteness = r.computeCompleteness()
}

// computeCompleteness scores how much of the record is populated, in [0,1].
// Required identity/offering fields count fully; optional financial and
// return fields contribute up to half a point.
func (r *HistoricalIPO) computeCompleteness() float64 {
	required := []bool{
		r.Name != "",
		r.Ticker != "",
		!r.IPODate.IsZero(),
		r.IPOPrice > 0,
	}
	optional := []bool{
		r.Revenue != nil,
		r.NetIncome != nil,
		r.RevenueGrowthYoY != nil,
		r.GrossMargin != nil,
		r.OperatingMargin != nil,
		r.FreeCashFlow != nil,
		r.MarketCapAtIPO != nil,
		r.FirstDayReturn != nil,
		r.FirstWeekReturn != nil,
		r.FirstMonthReturn != nil,
	}

	requiredCount := 0
	for _, ok := range required {
		if ok {
			requiredCount++
		}
	}
	optionalCount := 0
	for _, ok := range optional {
		if ok {
			optionalCount++
		}
	}

	score := float64(requiredCount)/float64(len(required)) +
		float64(optionalCount)/float64(len(optional))*0.5
	if score > 1.0 {
		score = 1.0
	}
	return score
}
