package core

// TransactionMetrics summarizes a sequence of denormalized transactions.
// Averages and the negative extrema are pointers omitted when the
// population they describe is empty; they are never reported as zero,
// which would be indistinguishable from real data.
type TransactionMetrics struct {
	TransactionCount         int      `json:"transactionCount"`
	PositiveTransactionCount int      `json:"positiveTransactionCount"`
	NegativeTransactionCount int      `json:"negativeTransactionCount"`
	MerchantCount            int      `json:"merchantCount"`
	CategoryCount            int      `json:"categoryCount"`
	DayCount                 int      `json:"dayCount"`
	Balance                  float64  `json:"balance"`
	NetPositive              float64  `json:"netPositive"`
	NetNegative              float64  `json:"netNegative"`
	AveragePositive          *float64 `json:"averagePositive,omitempty"`
	AverageNegative          *float64 `json:"averageNegative,omitempty"`
	MaximumNegative          *float64 `json:"maximumNegative,omitempty"`
	MinimumNegative          *float64 `json:"minimumNegative,omitempty"`
	PositivePerDay           float64  `json:"positivePerDay"`
	NegativePerDay           float64  `json:"negativePerDay"`
}

// ComputeMetrics aggregates a date-ordered sequence of denormalized
// transactions in a single pass. The input is never sorted here: dayCount
// spans the first and last elements as given, so callers must supply
// ascending date order. An empty input yields nil, distinguishing "no
// data" from sums that happen to be zero.
//
// Multipliers other than -1/+1 are not expected, but any positive value
// counts as positive and any negative value as negative; zero is excluded
// from both sides.
func ComputeMetrics(txs []TransactionView) *TransactionMetrics {
	if len(txs) == 0 {
		return nil
	}

	var (
		positives, negatives int
		balanceCents         int64
		netPositiveCents     int64
		netNegativeCents     int64
		maxNegativeCents     int64
		minNegativeCents     int64
	)
	merchants := make(map[string]struct{})
	categories := make(map[string]struct{})

	for _, t := range txs {
		merchants[t.MerchantName] = struct{}{}
		categories[t.CategoryName] = struct{}{}
		balanceCents += t.Amount.Cents * int64(t.CategoryMultiplier)

		switch {
		case t.CategoryMultiplier > 0:
			positives++
			netPositiveCents += t.Amount.Cents
		case t.CategoryMultiplier < 0:
			// The extrema compare stored magnitudes; amounts carry no sign.
			if negatives == 0 || t.Amount.Cents > maxNegativeCents {
				maxNegativeCents = t.Amount.Cents
			}
			if negatives == 0 || t.Amount.Cents < minNegativeCents {
				minNegativeCents = t.Amount.Cents
			}
			negatives++
			netNegativeCents += t.Amount.Cents
		}
	}

	dayCount := txs[0].Date.DaysUntil(txs[len(txs)-1].Date) + 1

	m := &TransactionMetrics{
		TransactionCount:         len(txs),
		PositiveTransactionCount: positives,
		NegativeTransactionCount: negatives,
		MerchantCount:            len(merchants),
		CategoryCount:            len(categories),
		DayCount:                 dayCount,
		Balance:                  centsToFloat(balanceCents),
		NetPositive:              centsToFloat(netPositiveCents),
		NetNegative:              centsToFloat(netNegativeCents),
		PositivePerDay:           centsToFloat(netPositiveCents) / float64(dayCount),
		NegativePerDay:           centsToFloat(netNegativeCents) / float64(dayCount),
	}

	if positives > 0 {
		avg := centsToFloat(netPositiveCents) / float64(positives)
		m.AveragePositive = &avg
	}
	if negatives > 0 {
		avg := centsToFloat(netNegativeCents) / float64(negatives)
		maxNeg := centsToFloat(maxNegativeCents)
		minNeg := centsToFloat(minNegativeCents)
		m.AverageNegative = &avg
		m.MaximumNegative = &maxNeg
		m.MinimumNegative = &minNeg
	}

	return m
}

func centsToFloat(cents int64) float64 {
	return float64(cents) / 100.0
}
