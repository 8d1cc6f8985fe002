// Package stats computes descriptive churn statistics over customer
// batches: KPIs, churn cross-tabulations, histograms and correlations.
// All functions are pure and tolerate empty input.
package stats

import (
	"sort"

	"github.com/siherrmann/churner/model"
)

// Summary computes the high-level KPIs of a customer batch
func Summary(customers []*model.Customer) *model.SummaryReport {
	report := &model.SummaryReport{
		TotalCustomers: len(customers),
	}
	if len(customers) == 0 {
		return report
	}

	var tenureSum, monthlySum float64
	totals := make([]float64, 0, len(customers))
	for _, customer := range customers {
		if customer.Churn {
			report.Churned++
		}
		tenureSum += float64(customer.Tenure)
		monthlySum += customer.MonthlyCharges
		totals = append(totals, customer.TotalCharges)
	}

	report.Retained = report.TotalCustomers - report.Churned
	report.ChurnRate = float64(report.Churned) / float64(report.TotalCustomers)
	report.AvgTenure = tenureSum / float64(report.TotalCustomers)
	report.AvgMonthlyCharges = monthlySum / float64(report.TotalCustomers)
	report.MedianTotalCharges = median(totals)

	return report
}

// median returns the median of values, averaging the two middle values
// for an even count. Returns 0 for empty input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// quantile returns the q-quantile (0 <= q <= 1) of sorted values using
// linear interpolation between closest ranks
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)

	return sorted[lower]*(1-frac) + sorted[lower+1]*frac
}
