// Package stats implements the two-sample distributional equality tests
// used by drift detection: Kolmogorov–Smirnov for numeric features and a
// chi-square homogeneity test for categorical features.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KolmogorovSmirnov runs the two-sample KS test between x and y and
// returns the test statistic and its asymptotic p-value. A p-value below
// the significance level rejects the null hypothesis of equal
// distributions. Returns NaNs when either sample is empty.
func KolmogorovSmirnov(x, y []float64) (statistic, pValue float64) {
	if len(x) == 0 || len(y) == 0 {
		return math.NaN(), math.NaN()
	}

	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)

	d := stat.KolmogorovSmirnov(xs, nil, ys, nil)

	n1 := float64(len(xs))
	n2 := float64(len(ys))
	en := math.Sqrt(n1 * n2 / (n1 + n2))
	// Stephens' small-sample correction before evaluating the asymptotic
	// Kolmogorov distribution, matching scipy's asymptotic ks_2samp mode.
	lambda := (en + 0.12 + 0.11/en) * d

	return d, ksSurvival(lambda)
}

// ksSurvival evaluates Q(lambda) = 2*sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2),
// the survival function of the Kolmogorov distribution.
func ksSurvival(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}

	var sum float64
	sign := 1.0
	l2 := lambda * lambda
	for j := 1; j <= 100; j++ {
		term := sign * 2 * math.Exp(-2*float64(j*j)*l2)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}

	return math.Min(1, math.Max(0, sum))
}

// ChiSquare runs a chi-square homogeneity test between two categorical
// samples and returns the statistic and p-value. Degrees of freedom are
// k-1 over the union of observed categories. Returns NaNs when a
// meaningful test cannot be computed (empty sample or a single category).
func ChiSquare(ref, cur []string) (statistic, pValue float64) {
	if len(ref) == 0 || len(cur) == 0 {
		return math.NaN(), math.NaN()
	}

	refCounts := make(map[string]int)
	curCounts := make(map[string]int)
	for _, v := range ref {
		refCounts[v]++
	}
	for _, v := range cur {
		curCounts[v]++
	}

	categories := make(map[string]struct{}, len(refCounts))
	for c := range refCounts {
		categories[c] = struct{}{}
	}
	for c := range curCounts {
		categories[c] = struct{}{}
	}

	df := len(categories) - 1
	if df <= 0 {
		return math.NaN(), math.NaN()
	}

	nRef := float64(len(ref))
	nCur := float64(len(cur))
	total := nRef + nCur

	var chi2 float64
	for c := range categories {
		colTotal := float64(refCounts[c] + curCounts[c])
		expRef := colTotal * nRef / total
		expCur := colTotal * nCur / total
		if expRef > 0 {
			chi2 += math.Pow(float64(refCounts[c])-expRef, 2) / expRef
		}
		if expCur > 0 {
			chi2 += math.Pow(float64(curCounts[c])-expCur, 2) / expCur
		}
	}

	p := 1 - distuv.ChiSquared{K: float64(df)}.CDF(chi2)
	return chi2, math.Min(1, math.Max(0, p))
}
