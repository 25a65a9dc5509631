package simulator

import (
	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/hours"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
)

// RateSource records where a bucket's payout figure came from.
type RateSource string

const (
	SourceHistorical RateSource = "historical"
	SourceAcceptable RateSource = "acceptable"
)

// BlockRate is the expected payout for one block length.
type BlockRate struct {
	Minutes        int        `json:"minutes"`
	Count          int        `json:"count"` // historical samples
	AveragePayout  float64    `json:"average_payout"`
	AveragePerHour float64    `json:"average_per_hour"`
	MinimumPayout  float64    `json:"minimum_payout"`
	Source         RateSource `json:"source"`
}

// Usable reports whether the block can be scheduled: it needs a known payout
// that meets the configured minimum.
func (r BlockRate) Usable() bool {
	return r.AveragePayout > 0 && r.AveragePayout >= r.MinimumPayout
}

// NearestBucket maps a block length onto the closest offered length. Ties go
// to the shorter bucket.
func NearestBucket(minutes int) int {
	best := constants.BlockLengths[0]
	for _, b := range constants.BlockLengths[1:] {
		if abs(minutes-b) < abs(minutes-best) {
			best = b
		}
	}
	return best
}

// HistoricalRates averages past payouts per bucket. Entries are expected to
// be blocks on the scheduled platforms; lengths more than
// constants.BucketToleranceMinutes from every offered length are skipped.
// Buckets without history fall back to the configured minimum acceptable
// payout.
func HistoricalRates(entries []models.IncomeEntry, cfg models.SimulatorConfig) []BlockRate {
	sums := make(map[int][]float64)
	for _, e := range entries {
		m := hours.BlockMinutes(e)
		if m <= 0 {
			continue
		}
		b := NearestBucket(m)
		if abs(m-b) > constants.BucketToleranceMinutes {
			continue
		}
		sums[b] = append(sums[b], e.Amount)
	}

	rates := make([]BlockRate, 0, len(constants.BlockLengths))
	for _, b := range constants.BlockLengths {
		rate := BlockRate{
			Minutes:       b,
			MinimumPayout: money.NonNegative(cfg.MinRates[b]),
		}
		if samples := sums[b]; len(samples) > 0 {
			rate.Count = len(samples)
			rate.AveragePayout = money.Round(money.Sum(samples...) / float64(len(samples)))
			rate.Source = SourceHistorical
		} else {
			rate.AveragePayout = rate.MinimumPayout
			rate.Source = SourceAcceptable
		}
		rate.AveragePerHour = money.Round(rate.AveragePayout / (float64(b) / 60))
		rates = append(rates, rate)
	}
	return rates
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
