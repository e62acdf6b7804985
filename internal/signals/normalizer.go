/**
 * @description
 * Signal Normalizer.
 * Collapses the three heterogeneous upstream payloads (search trends, news
 * sentiment, stock/financial data) into one flat CompanySignals record.
 *
 * Upstream providers vary key names and types between runs, so everything is
 * read defensively: a missing or malformed field defaults to zero/empty and
 * flips an availability flag instead of raising an error. Nothing past this
 * boundary deals with optional-field absence.
 *
 * @dependencies
 * - standard library only: the payloads are already-decoded JSON maps and the
 *   whole point of this package is tolerant field extraction, which no codec
 *   library covers.
 */

package signals

import (
	"strconv"
	"strings"
)

// CompanySignals is the flat feature record the scoring core consumes.
type CompanySignals struct {
	CompanyName string `json:"company_name"`
	Ticker      string `json:"ticker"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`

	ImpliedMarketCap float64 `json:"implied_market_cap"`
	RevenueGrowthYoY float64 `json:"revenue_growth_yoy"`
	GrossMargin      float64 `json:"gross_margin"`
	Revenue          float64 `json:"revenue"`
	NetIncome        float64 `json:"net_income"`
	OperatingMargin  float64 `json:"operating_margin"`
	FreeCashFlow     float64 `json:"free_cash_flow"`
	CashBurn         float64 `json:"cash_burn"`
	EnterpriseValue  float64 `json:"enterprise_value"`

	TrendScore           float64 `json:"trend_score"`
	TrendAverageInterest float64 `json:"trend_average_interest"`
	TrendRecentInterest  float64 `json:"trend_recent_interest"`
	TrendDataAvailable   bool    `json:"trend_data_available"`
	TrendError           string  `json:"trend_error,omitempty"`

	SentimentScore    float64 `json:"sentiment_score"`
	NewsTotalArticles int     `json:"news_total_articles"`
	NewsPositiveCount int     `json:"news_positive_count"`
	NewsNegativeCount int     `json:"news_negative_count"`
	NewsNeutralCount  int     `json:"news_neutral_count"`
	NewsDataAvailable bool    `json:"news_data_available"`
	NewsError         string  `json:"news_error,omitempty"`
}

// Normalize builds a CompanySignals record from raw provider payloads.
// Each payload may be nil. Key names are probed in provider-preference order.
func Normalize(companyName string, searchData, newsData, stockData map[string]any) CompanySignals {
	sig := CompanySignals{CompanyName: strings.TrimSpace(companyName)}

	// Stock / financial payload
	sig.Ticker = str(stockData, "symbol", "ticker")
	if sig.Ticker == "" {
		sig.Ticker = str(newsData, "symbol", "ticker")
	}
	sig.Ticker = strings.ToUpper(strings.TrimSpace(sig.Ticker))
	sig.Sector = str(stockData, "sector")
	sig.Industry = str(stockData, "industry")
	sig.ImpliedMarketCap = num(stockData, "market_cap", "implied_market_cap", "marketCap")
	sig.RevenueGrowthYoY = num(stockData, "revenue_growth_yoy", "revenueGrowth")
	sig.GrossMargin = num(stockData, "gross_margin", "grossMargins")
	sig.Revenue = num(stockData, "revenue", "totalRevenue")
	sig.NetIncome = num(stockData, "net_income", "netIncome")
	sig.OperatingMargin = num(stockData, "operating_margin", "operatingMargins")
	sig.FreeCashFlow = num(stockData, "free_cash_flow", "freeCashflow")
	sig.CashBurn = num(stockData, "cash_burn")
	sig.EnterpriseValue = num(stockData, "enterprise_value", "enterpriseValue")

	// Search-trend payload
	sig.TrendScore = num(searchData, "trend_score")
	sig.TrendAverageInterest = num(searchData, "average_interest", "trend_average_interest")
	sig.TrendRecentInterest = num(searchData, "recent_interest", "trend_recent_interest")
	sig.TrendError = str(searchData, "error", "trend_error")
	sig.TrendDataAvailable = sig.TrendError == "" &&
		(sig.TrendScore > 0 || sig.TrendAverageInterest+sig.TrendRecentInterest > 0)

	// News-sentiment payload
	sig.SentimentScore = num(newsData, "sentiment_score", "sentimentScore")
	sig.NewsTotalArticles = int(num(newsData, "total_articles", "totalArticles", "news_total_articles"))
	sig.NewsPositiveCount = int(num(newsData, "positive_count"))
	sig.NewsNegativeCount = int(num(newsData, "negative_count"))
	sig.NewsNeutralCount = int(num(newsData, "neutral_count"))
	sig.NewsError = str(newsData, "error", "news_error")
	sig.NewsDataAvailable = sig.NewsError == "" && sig.NewsTotalArticles > 0

	return sig
}

// num probes the payload for the first present key and coerces it to float64.
// JSON numbers decode as float64, but providers have been seen sending ints,
// numeric strings and null, so all of those are tolerated.
func num(payload map[string]any, keys ...string) float64 {
	if payload == nil {
		return 0
	}
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// str probes the payload for the first present non-empty string value.
func str(payload map[string]any, keys ...string) string {
	if payload == nil {
		return ""
	}
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok || raw == nil {
			continue
		}
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
