package corpus

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hypetrack/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlRecorder captures the SQL GORM generates so dry-run tests can assert
// on the statements the store would send to Postgres.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	if len(r.statements) == 0 {
		t.Fatal("no SQL statement was generated")
	}
	return r.statements[len(r.statements)-1]
}

// newDryRunStore opens a GORM handle that builds statements without touching
// a database, so the store's query construction is testable offline.
func newDryRunStore(t *testing.T) (*Store, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=hype dbname=hype_test sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		// Create would otherwise BEGIN a real transaction even in dry-run mode
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	if err != nil {
		t.Fatalf("Failed to open dry-run DB: %v", err)
	}
	return NewStore(db), rec
}

func f64(v float64) *float64 { return &v }

func TestUpsertIPOConflictsOnTickerAndDate(t *testing.T) {
	store, rec := newDryRunStore(t)

	record := &models.HistoricalIPO{
		Ticker:         "STRM",
		Name:           "StreamWorks",
		IPODate:        time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		IPOPrice:       24,
		MarketCapAtIPO: f64(5_000_000_000),
		Revenue:        f64(250_000_000),
	}
	if err := store.UpsertIPO(context.Background(), record); err != nil {
		t.Fatalf("UpsertIPO failed: %v", err)
	}

	sql := rec.last(t)
	if !strings.Contains(sql, `INSERT INTO "historical_ipos"`) {
		t.Fatalf("expected an insert into historical_ipos, got: %s", sql)
	}
	if !strings.Contains(sql, `ON CONFLICT ("ticker","ipo_date") DO UPDATE SET`) {
		t.Fatalf("expected a (ticker, ipo_date) conflict update, got: %s", sql)
	}
	for _, column := range []string{"market_cap_category", "growth_stage", "data_completeness", "last_updated"} {
		assignment := `"` + column + `"="excluded"."` + column + `"`
		if !strings.Contains(sql, assignment) {
			t.Errorf("conflict update is missing assignment %s", assignment)
		}
	}
}

func TestUpsertIPORederivesBeforeWrite(t *testing.T) {
	store, _ := newDryRunStore(t)

	record := &models.HistoricalIPO{
		Ticker:         "STRM",
		Name:           "StreamWorks",
		IPODate:        time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		IPOPrice:       24,
		MarketCapAtIPO: f64(5_000_000_000),
		Revenue:        f64(250_000_000),
	}
	if err := store.UpsertIPO(context.Background(), record); err != nil {
		t.Fatalf("UpsertIPO failed: %v", err)
	}

	if record.MarketCapCategory != models.CapCategoryMid {
		t.Errorf("market cap category = %q, want %q", record.MarketCapCategory, models.CapCategoryMid)
	}
	if record.GrowthStage != models.GrowthStageMature {
		t.Errorf("growth stage = %q, want %q", record.GrowthStage, models.GrowthStageMature)
	}
	if record.DataCompleteness <= 0 {
		t.Errorf("data completeness = %v, want > 0", record.DataCompleteness)
	}
}

func TestMetricPoolRejectsUnknownColumn(t *testing.T) {
	store, rec := newDryRunStore(t)

	_, err := store.MetricPool(context.Background(), "ipo_price; DROP TABLE historical_ipos")
	if err == nil {
		t.Fatal("expected an error for a column outside the whitelist")
	}
	if len(rec.statements) != 0 {
		t.Fatalf("no SQL should be generated for a rejected column, got: %v", rec.statements)
	}
}

func TestMetricPoolQueriesNonNullWithinLookback(t *testing.T) {
	store, rec := newDryRunStore(t)

	if _, err := store.MetricPool(context.Background(), "gross_margin"); err != nil {
		t.Fatalf("MetricPool failed: %v", err)
	}

	sql := rec.last(t)
	if !strings.Contains(sql, "gross_margin IS NOT NULL") {
		t.Errorf("expected a non-null filter on gross_margin, got: %s", sql)
	}
	if !strings.Contains(sql, "ipo_date >=") {
		t.Errorf("expected a lookback cutoff on ipo_date, got: %s", sql)
	}
}

func TestCandidatePeersMatchIncompleteRows(t *testing.T) {
	store, rec := newDryRunStore(t)

	if _, err := store.CandidatePeers(context.Background(), "mid", "Technology"); err != nil {
		t.Fatalf("CandidatePeers failed: %v", err)
	}

	sql := rec.last(t)
	if !strings.Contains(sql, "market_cap_category IS NULL") {
		t.Errorf("expected null cap categories to match, got: %s", sql)
	}
	if !strings.Contains(sql, "sector IS NULL") {
		t.Errorf("expected null sectors to match, got: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY ipo_date DESC") {
		t.Errorf("expected newest-first ordering, got: %s", sql)
	}
	if !strings.Contains(sql, "LIMIT 50") {
		t.Errorf("expected the candidate cap, got: %s", sql)
	}
}

func TestTrendScoresFullPoolIsCapped(t *testing.T) {
	store, rec := newDryRunStore(t)

	if _, err := store.TrendScores(context.Background(), nil); err != nil {
		t.Fatalf("TrendScores failed: %v", err)
	}
	if sql := rec.last(t); !strings.Contains(sql, "LIMIT 5000") {
		t.Errorf("full pool should carry the row cap, got: %s", sql)
	}

	if _, err := store.TrendScores(context.Background(), []string{"STRM", "PEER"}); err != nil {
		t.Fatalf("TrendScores with tickers failed: %v", err)
	}
	sql := rec.last(t)
	if !strings.Contains(sql, "ticker IN") {
		t.Errorf("ticker-scoped pool should filter by ticker, got: %s", sql)
	}
	if strings.Contains(sql, "LIMIT 5000") {
		t.Errorf("ticker-scoped pool should not carry the row cap, got: %s", sql)
	}
}
