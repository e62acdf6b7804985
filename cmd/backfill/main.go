/**
 * @description
 * Backfill Entry Point.
 * One-shot CLI that loads historical IPO calendar rows (from the configured
 * calendar endpoint or a local JSON file), derives the classification
 * fields, and upserts them into the historical corpus. Safe to re-run: the
 * upsert conflicts on (ticker, ipo_date) and updates in place.
 *
 * Usage:
 *   backfill [-file ipos.json] [-start 0] [-limit 0]
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/corpus
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hypetrack/backend/internal/config"
	"github.com/hypetrack/backend/internal/corpus"
	"github.com/hypetrack/backend/internal/db"
	"github.com/hypetrack/backend/internal/logger"
	"github.com/hypetrack/backend/internal/models"
)

// calendarRow is the raw calendar record shape. Numeric fields are pointers
// so absent values survive as NULLs instead of zeroes.
type calendarRow struct {
	CIK      string `json:"cik"`
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	IPODate           string   `json:"ipo_date"`
	IPOPrice          float64  `json:"ipo_price"`
	ProposedPriceLow  *float64 `json:"proposed_price_low"`
	ProposedPriceHigh *float64 `json:"proposed_price_high"`
	SharesOffered     *int64   `json:"shares_offered"`
	RaisedAmount      *float64 `json:"raised_amount"`

	Revenue          *float64 `json:"revenue"`
	NetIncome        *float64 `json:"net_income"`
	RevenueGrowthYoY *float64 `json:"revenue_growth_yoy"`
	GrossMargin      *float64 `json:"gross_margin"`
	OperatingMargin  *float64 `json:"operating_margin"`
	FreeCashFlow     *float64 `json:"free_cash_flow"`
	CashBurn         *float64 `json:"cash_burn"`
	EnterpriseValue  *float64 `json:"enterprise_value"`
	MarketCapAtIPO   *float64 `json:"market_cap_at_ipo"`

	FirstDayReturn     *float64 `json:"first_day_return"`
	FirstWeekReturn    *float64 `json:"first_week_return"`
	FirstMonthReturn   *float64 `json:"first_month_return"`
	FirstQuarterReturn *float64 `json:"first_quarter_return"`
	FirstYearReturn    *float64 `json:"first_year_return"`
}

func main() {
	filePath := flag.String("file", "", "local JSON file of calendar rows (overrides the configured endpoint)")
	start := flag.Int("start", 0, "skip the first N rows")
	limit := flag.Int("limit", 0, "process at most N rows (0 = all)")
	flag.Parse()

	logger.Info("📦 Starting historical IPO backfill...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 2. Connect Postgres
	pgDB, err := db.ConnectPostgres(cfg)
	if err != nil {
		logger.Fatal("Postgres connection failed: %v", err)
	}
	store := corpus.NewStore(pgDB)

	// 3. Load Calendar Rows
	rows, err := loadRows(*filePath, cfg.Sources.IPOCalendarURL)
	if err != nil {
		logger.Fatal("Failed to load calendar rows: %v", err)
	}
	logger.Info("Loaded %d calendar rows", len(rows))

	if *start > 0 {
		if *start >= len(rows) {
			logger.Fatal("-start %d is past the end of the %d loaded rows", *start, len(rows))
		}
		rows = rows[*start:]
	}
	if *limit > 0 && *limit < len(rows) {
		rows = rows[:*limit]
	}

	// 4. Upsert
	ctx := context.Background()
	upserted, skipped := 0, 0
	for i, row := range rows {
		record, err := row.toModel()
		if err != nil {
			logger.Error("Skipping row %d (%s): %v", *start+i, row.Ticker, err)
			skipped++
			continue
		}
		if err := store.UpsertIPO(ctx, record); err != nil {
			logger.Error("Upsert failed for %s: %v", record.Ticker, err)
			skipped++
			continue
		}
		upserted++
	}

	logger.Info("✅ Backfill complete: %d upserted, %d skipped", upserted, skipped)
	if skipped > 0 && upserted == 0 {
		os.Exit(1)
	}
}

func loadRows(filePath, calendarURL string) ([]calendarRow, error) {
	var data []byte
	var err error

	switch {
	case filePath != "":
		data, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
	case calendarURL != "":
		data, err = fetchCalendar(calendarURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no -file given and IPO_CALENDAR_URL is not configured")
	}

	var rows []calendarRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode calendar rows: %w", err)
	}
	return rows, nil
}

func fetchCalendar(calendarURL string) ([]byte, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(calendarURL)
	if err != nil {
		return nil, fmt.Errorf("calendar fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar endpoint returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// toModel validates the row and maps it onto the GORM model. Derived
// fields are left for the store's upsert to compute.
func (r calendarRow) toModel() (*models.HistoricalIPO, error) {
	if r.Ticker == "" {
		return nil, fmt.Errorf("missing ticker")
	}
	ipoDate, err := time.Parse("2006-01-02", r.IPODate)
	if err != nil {
		return nil, fmt.Errorf("bad ipo_date %q: %w", r.IPODate, err)
	}

	return &models.HistoricalIPO{
		CIK:      r.CIK,
		Name:     r.Name,
		Ticker:   r.Ticker,
		Sector:   r.Sector,
		Industry: r.Industry,

		IPODate:           ipoDate,
		IPOPrice:          r.IPOPrice,
		ProposedPriceLow:  r.ProposedPriceLow,
		ProposedPriceHigh: r.ProposedPriceHigh,
		SharesOffered:     r.SharesOffered,
		RaisedAmount:      r.RaisedAmount,

		Revenue:          r.Revenue,
		NetIncome:        r.NetIncome,
		RevenueGrowthYoY: r.RevenueGrowthYoY,
		GrossMargin:      r.GrossMargin,
		OperatingMargin:  r.OperatingMargin,
		FreeCashFlow:     r.FreeCashFlow,
		CashBurn:         r.CashBurn,
		EnterpriseValue:  r.EnterpriseValue,
		MarketCapAtIPO:   r.MarketCapAtIPO,

		FirstDayReturn:     r.FirstDayReturn,
		FirstWeekReturn:    r.FirstWeekReturn,
		FirstMonthReturn:   r.FirstMonthReturn,
		FirstQuarterReturn: r.FirstQuarterReturn,
		FirstYearReturn:    r.FirstYearReturn,
	}, nil
}
