/**
 * @description
 * Performance prediction from historical post-IPO returns.
 * Combines the full historical return pools with the matched peers' realized
 * returns, then projects first day/week/month performance as pool medians.
 * First-day volatility doubles as the risk proxy.
 *
 * @dependencies
 * - none beyond the package's stats helpers
 */

package analysis

// predictPerformance builds a forecast from the historical return pools plus
// the peers' copied returns. Returns ok=false when no first-day evidence
// exists at all; that is the "historical pipeline is empty" signal that
// forces the fixed fallback result upstream.
func predictPerformance(dayPool, weekPool, monthPool []float64, peers []SimilarityMatch) (PerformanceForecast, bool) {
	day := append([]float64(nil), dayPool...)
	week := append([]float64(nil), weekPool...)
	month := append([]float64(nil), monthPool...)

	for _, p := range peers {
		if p.FirstDayReturn != nil {
			day = append(day, *p.FirstDayReturn)
		}
		if p.FirstWeekReturn != nil {
			week = append(week, *p.FirstWeekReturn)
		}
		if p.FirstMonthReturn != nil {
			month = append(month, *p.FirstMonthReturn)
		}
	}

	if len(day) == 0 {
		return PerformanceForecast{}, false
	}

	volatility := stdDev(day)

	return PerformanceForecast{
		PredictedFirstDayReturn:   median(day),
		PredictedFirstWeekReturn:  median(week),
		PredictedFirstMonthReturn: median(month),
		Volatility:                volatility,
		SampleSize:                len(day),
		RiskLevel:                 forecastRiskLevel(volatility),
	}, true
}

// forecastRiskLevel labels first-day volatility for the forecast payload.
// The final result's risk label uses wider bands, see composer.go.
func forecastRiskLevel(volatility float64) string {
	switch {
	case volatility > 0.3:
		return "High"
	case volatility > 0.15:
		return "Medium"
	default:
		return "Low"
	}
}
