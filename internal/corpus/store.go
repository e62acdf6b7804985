/**
 * @description
 * Historical corpus store.
 * Read side: metric pools, candidate peer rows and daily signal-sample pools
 * for the analysis engine, each restricted to a lookback window and capped to
 * bound memory. Write side: upserts for the population pipeline and
 * append-only inserts for the nightly precompute job.
 *
 * The *gorm.DB handle is injected; the connection pool lifecycle (create
 * once, reuse, close on shutdown) belongs to the application entrypoints.
 *
 * @dependencies
 * - backend/internal/models
 * - gorm.io/gorm (clause.OnConflict upserts)
 * - github.com/jackc/pgconn (retryable Postgres error codes)
 */

package corpus

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hypetrack/backend/internal/models"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// IPO-level financial and performance metrics look back five years
	ipoLookbackYears = 5
	// Daily trend/sentiment samples look back eighteen months
	sampleLookbackMonths = 18
	// Cap on time-series pool size to bound memory
	sampleRowCap = 5000
	// Candidate peer rows fetched before similarity scoring
	candidateLimit = 50

	queryTimeout     = 30 * time.Second
	maxUpsertRetries = 5
)

// metricColumns whitelists the historical_ipos columns MetricPool may read.
var metricColumns = map[string]bool{
	"revenue_growth_yoy": true,
	"gross_margin":       true,
	"market_cap_at_ipo":  true,
}

// Store reads and writes the historical IPO corpus.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps an injected GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// MetricPool returns all non-null values of one whitelisted metric column
// for IPOs within the lookback window.
func (s *Store) MetricPool(ctx context.Context, column string) ([]float64, error) {
	if !metricColumns[column] {
		return nil, fmt.Errorf("unknown metric column %q", column)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var values []float64
	err := s.DB.WithContext(ctx).
		Model(&models.HistoricalIPO{}).
		Where(column+" IS NOT NULL").
		Where("ipo_date >= ?", ipoCutoff()).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("metric pool query for %s failed: %w", column, err)
	}
	return values, nil
}

// CandidatePeers returns recent historical IPOs loosely matching the given
// cap category and sector. Records with an unknown category or sector still
// match, so incomplete rows are never excluded outright.
func (s *Store) CandidatePeers(ctx context.Context, capCategory, sector string) ([]models.HistoricalIPO, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	query := s.DB.WithContext(ctx).
		Where("ipo_date < ?", now).
		Where("ipo_date >= ?", ipoCutoff())

	if capCategory != "" {
		query = query.Where("market_cap_category = ? OR market_cap_category IS NULL OR market_cap_category = ''", capCategory)
	}
	if sector != "" {
		query = query.Where("sector = ? OR sector IS NULL OR sector = ''", sector)
	}

	var candidates []models.HistoricalIPO
	err := query.Order("ipo_date DESC").Limit(candidateLimit).Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("candidate peer query failed: %w", err)
	}
	return candidates, nil
}

// TrendScores returns trend-score samples within the rolling window.
// With no tickers the full pool is returned, capped at sampleRowCap rows;
// with tickers the pool is restricted to those tickers.
func (s *Store) TrendScores(ctx context.Context, tickers []string) ([]float64, error) {
	return s.samplePool(ctx, &models.SearchTrendSample{}, "trend_score", tickers)
}

// SentimentScores returns sentiment-score samples within the rolling window.
func (s *Store) SentimentScores(ctx context.Context, tickers []string) ([]float64, error) {
	return s.samplePool(ctx, &models.NewsSentimentSample{}, "sentiment_score", tickers)
}

func (s *Store) samplePool(ctx context.Context, model interface{}, column string, tickers []string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := s.DB.WithContext(ctx).
		Model(model).
		Where("date >= ?", sampleCutoff())
	if len(tickers) > 0 {
		query = query.Where("ticker IN ?", tickers)
	} else {
		query = query.Limit(sampleRowCap)
	}

	var values []float64
	if err := query.Pluck(column, &values).Error; err != nil {
		return nil, fmt.Errorf("%s pool query failed: %w", column, err)
	}
	return values, nil
}

// ReturnPools returns the realized first day/week/month return pools for
// IPOs within the lookback window that have at least a first-day return.
func (s *Store) ReturnPools(ctx context.Context) (day, week, month []float64, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rows []models.HistoricalIPO
	err = s.DB.WithContext(ctx).
		Select("first_day_return", "first_week_return", "first_month_return").
		Where("first_day_return IS NOT NULL").
		Where("ipo_date >= ?", ipoCutoff()).
		Find(&rows).Error
	if err != nil {
		return nil, nil, nil, fmt.Errorf("return pool query failed: %w", err)
	}

	for _, row := range rows {
		if row.FirstDayReturn != nil {
			day = append(day, *row.FirstDayReturn)
		}
		if row.FirstWeekReturn != nil {
			week = append(week, *row.FirstWeekReturn)
		}
		if row.FirstMonthReturn != nil {
			month = append(month, *row.FirstMonthReturn)
		}
	}
	return day, week, month, nil
}

// RecentIPOs returns the most recently listed IPOs, newest first. The
// nightly precompute job uses this as its tracked-company universe.
func (s *Store) RecentIPOs(ctx context.Context, limit int) ([]models.HistoricalIPO, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = candidateLimit
	}
	var rows []models.HistoricalIPO
	err := s.DB.WithContext(ctx).
		Order("ipo_date DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent ipos query failed: %w", err)
	}
	return rows, nil
}

// UpsertIPO writes one historical IPO record. Conflicts on (ticker,
// ipo_date) update the mutable columns in place, so re-running the
// population pipeline never duplicates rows. Derived classification fields
// are recomputed before every write.
func (s *Store) UpsertIPO(ctx context.Context, record *models.HistoricalIPO) error {
	record.Rederive()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= maxUpsertRetries; attempt++ {
		err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ticker"}, {Name: "ipo_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cik",
				"name",
				"sector",
				"industry",
				"ipo_price",
				"proposed_price_low",
				"proposed_price_high",
				"shares_offered",
				"raised_amount",
				"revenue",
				"net_income",
				"revenue_growth_yoy",
				"gross_margin",
				"operating_margin",
				"free_cash_flow",
				"cash_burn",
				"enterprise_value",
				"market_cap_at_ipo",
				"first_day_return",
				"first_week_return",
				"first_month_return",
				"first_quarter_return",
				"first_year_return",
				"market_cap_category",
				"growth_stage",
				"data_completeness",
				"last_updated",
			}),
		}).Create(record).Error
		if err == nil {
			return nil
		}
		if !isRetryablePgError(err) {
			break
		}
		backoff := time.Duration(attempt*100+rand.Intn(100)) * time.Millisecond
		time.Sleep(backoff)
	}
	return fmt.Errorf("historical ipo upsert failed: %w", err)
}

// AppendTrendSample inserts one nightly search-trend observation.
func (s *Store) AppendTrendSample(ctx context.Context, sample *models.SearchTrendSample) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := s.DB.WithContext(ctx).Create(sample).Error; err != nil {
		return fmt.Errorf("trend sample insert failed: %w", err)
	}
	return nil
}

// AppendSentimentSample inserts one nightly news-sentiment observation.
func (s *Store) AppendSentimentSample(ctx context.Context, sample *models.NewsSentimentSample) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if err := s.DB.WithContext(ctx).Create(sample).Error; err != nil {
		return fmt.Errorf("sentiment sample insert failed: %w", err)
	}
	return nil
}

// isRetryablePgError reports deadlock and serialization failures, which are
// safe to retry with backoff.
func isRetryablePgError(err error) bool {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code == "40P01" || pgErr.Code == "40001"
	}
	return false
}

func ipoCutoff() time.Time {
	return time.Now().AddDate(-ipoLookbackYears, 0, 0)
}

func sampleCutoff() time.Time {
	return time.Now().AddDate(0, -sampleLookbackMonths, 0)
}
