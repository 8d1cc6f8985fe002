package stats

import (
	"math"

	"github.com/siherrmann/churner/model"
)

// correlationColumns defines the numeric columns of the correlation matrix
var correlationColumns = []struct {
	name  string
	value func(*model.Customer) float64
}{
	{"tenure", func(c *model.Customer) float64 { return float64(c.Tenure) }},
	{"monthly_charges", func(c *model.Customer) float64 { return c.MonthlyCharges }},
	{"total_charges", func(c *model.Customer) float64 { return c.TotalCharges }},
	{"churn", func(c *model.Customer) float64 { return c.ChurnFlag() }},
}

// Correlation computes the pairwise Pearson correlation matrix of the
// numeric columns tenure, monthly charges, total charges and the churn
// flag. Zero-variance columns correlate 0 with everything, 1 with
// themselves.
func Correlation(customers []*model.Customer) *model.CorrelationMatrix {
	fields := make([]string, len(correlationColumns))
	columns := make([][]float64, len(correlationColumns))
	for i, col := range correlationColumns {
		fields[i] = col.name
		values := make([]float64, len(customers))
		for j, customer := range customers {
			values[j] = col.value(customer)
		}
		columns[i] = values
	}

	values := make([][]float64, len(columns))
	for i := range columns {
		values[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				values[i][j] = 1
				continue
			}
			values[i][j] = pearson(columns[i], columns[j])
		}
	}

	return &model.CorrelationMatrix{
		Fields: fields,
		Values: values,
	}
}

// pearson computes the Pearson correlation coefficient of two columns
// of equal length. Returns 0 if either column has zero variance.
func pearson(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}

	return cov / math.Sqrt(varA*varB)
}
