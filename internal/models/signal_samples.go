/**
 * @description
 * Daily signal sample models for search trends and news sentiment.
 * Map to the append-only 'historical_search_trends' and
 * 'historical_news_sentiment' tables; one row per ticker per nightly run.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import (
	"time"
)

// SearchTrendSample represents one nightly observation of search interest for a ticker
type SearchTrendSample struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CIK          string    `gorm:"column:cik" json:"cik"`
	Ticker       string    `gorm:"column:ticker;index:idx_search_trends_ticker_date" json:"ticker"`
	Date         time.Time `gorm:"column:date;index:idx_search_trends_ticker_date" json:"date"`
	TrendScore   float64   `gorm:"column:trend_score" json:"trend_score"`
	AverageScore float64   `gorm:"column:average_score" json:"average_score"`
	RecentScore  float64   `gorm:"column:recent_score" json:"recent_score"`
	SearchVolume *int64    `gorm:"column:search_volume" json:"search_volume"`
	RunID        string    `gorm:"column:run_id" json:"run_id"`
}

// TableName overrides the table name used by SearchTrendSample
func (SearchTrendSample) TableName() string {
	return "historical_search_trends"
}

// NewsSentimentSample represents one nightly observation of news sentiment for a ticker
type NewsSentimentSample struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CIK              string    `gorm:"column:cik" json:"cik"`
	Ticker           string    `gorm:"column:ticker;index:idx_news_sentiment_ticker_date" json:"ticker"`
	Date             time.Time `gorm:"column:date;index:idx_news_sentiment_ticker_date" json:"date"`
	SentimentScore   float64   `gorm:"column:sentiment_score" json:"sentiment_score"`
	TotalArticles    int       `gorm:"column:total_articles" json:"total_articles"`
	PositiveArticles int       `gorm:"column:positive_articles" json:"positive_articles"`
	NegativeArticles int       `gorm:"column:negative_articles" json:"negative_articles"`
	NeutralArticles  int       `gorm:"column:neutral_articles" json:"neutral_articles"`
	RunID            string    `gorm:"column:run_id" json:"run_id"`
}

// TableName overrides the table name used by NewsSentimentSample
func (NewsSentimentSample) TableName() string {
	return "historical_news_sentiment"
}
