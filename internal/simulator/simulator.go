// Package simulator projects the best weekly block schedule under the daily
// and weekly hour ceilings, net of fuel.
package simulator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
)

// DayPlan is one simulated day.
type DayPlan struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Blocks   []int   `json:"blocks"` // block lengths in minutes
	Hours    float64 `json:"hours"`
	Earnings float64 `json:"earnings"`
}

// Results is a simulated week.
type Results struct {
	GrossEarnings float64     `json:"gross_earnings"`
	TotalGasCost  float64     `json:"total_gas_cost"`
	NetEarnings   float64     `json:"net_earnings"`
	TotalHours    float64     `json:"total_hours"`
	TotalBlocks   int         `json:"total_blocks"`
	FillUpsNeeded int         `json:"fill_ups_needed"`
	Days          []DayPlan   `json:"days"`
	Rates         []BlockRate `json:"rates"`
	Reasoning     string      `json:"reasoning"`
}

// NoScheduleError is returned when no block length meets its minimum rate.
type NoScheduleError struct {
	Reasoning string
}

func (e *NoScheduleError) Error() string {
	return e.Reasoning
}

type Simulator struct {
	cfg models.SimulatorConfig
}

func New(cfg models.SimulatorConfig) *Simulator {
	return &Simulator{cfg: cfg}
}

// Run simulates a week from historical entries.
func (s *Simulator) Run(entries []models.IncomeEntry) (*Results, error) {
	// Step 1: Expected payout per block length
	rates := HistoricalRates(entries, s.cfg)
	payout := make(map[int]float64)
	var usable []int
	for _, r := range rates {
		if r.Usable() {
			payout[r.Minutes] = r.AveragePayout
			usable = append(usable, r.Minutes)
		}
	}
	if len(usable) == 0 {
		return nil, &NoScheduleError{Reasoning: noScheduleReason(rates)}
	}

	// Step 2: Best combination for a single day
	dailyMax := int(constants.SimulatorDailyHours * 60)
	best := bestCombination(usable, payout, dailyMax)
	if len(best) == 0 {
		return nil, &NoScheduleError{Reasoning: fmt.Sprintf(
			"No block fits within %.0fh per day; lower your minimum acceptable rates.", constants.SimulatorDailyHours)}
	}

	days := make([][]int, constants.SimulatorDays)
	for i := range days {
		days[i] = append([]int(nil), best...)
	}

	// Step 3: Enforce the weekly ceiling
	weeklyMax := int(constants.SimulatorWeeklyHours * 60)
	trimmed := trimToWeekly(days, payout, weeklyMax)

	// Step 4: Fuel
	results := &Results{Rates: rates}
	var gross []float64
	for i, blocks := range days {
		plan := DayPlan{Index: i, Name: constants.DayNames[i], Blocks: append([]int{}, blocks...)}
		var minutes int
		var earnings []float64
		for _, b := range blocks {
			minutes += b
			earnings = append(earnings, payout[b])
		}
		plan.Hours = money.Round(float64(minutes) / 60)
		plan.Earnings = money.Sum(earnings...)
		gross = append(gross, plan.Earnings)

		results.TotalBlocks += len(blocks)
		results.TotalHours += plan.Hours
		results.Days = append(results.Days, plan)
	}
	results.TotalHours = money.Round(results.TotalHours)
	results.GrossEarnings = money.Sum(gross...)
	results.FillUpsNeeded = FillUps(results.TotalBlocks, s.cfg.BlocksBeforeGas)
	results.TotalGasCost = money.Round(float64(results.FillUpsNeeded) * money.NonNegative(s.cfg.TankSize) * money.NonNegative(s.cfg.GasPrice))
	results.NetEarnings = money.Round(results.GrossEarnings - results.TotalGasCost)

	// Step 5: Explain the mix
	results.Reasoning = reasoning(best, rates, trimmed, results)
	return results, nil
}

// FillUps is the number of refuels needed for blocks, one per blocksBeforeGas.
func FillUps(blocks, blocksBeforeGas int) int {
	if blocks <= 0 {
		return 0
	}
	if blocksBeforeGas < 1 {
		blocksBeforeGas = 1
	}
	return int(math.Ceil(float64(blocks) / float64(blocksBeforeGas)))
}

// bestCombination enumerates every multiset of lengths fitting in maxMinutes
// and keeps the highest-earning one. Ties prefer fewer minutes, then fewer blocks.
func bestCombination(lengths []int, payout map[int]float64, maxMinutes int) []int {
	sorted := append([]int(nil), lengths...)
	sort.Ints(sorted)

	var best []int
	bestEarnings, bestMinutes := 0.0, 0

	var walk func(start, minutes int, earnings float64, combo []int)
	walk = func(start, minutes int, earnings float64, combo []int) {
		if len(combo) > 0 && better(earnings, minutes, len(combo), bestEarnings, bestMinutes, len(best)) {
			best = append([]int(nil), combo...)
			bestEarnings, bestMinutes = earnings, minutes
		}
		for i := start; i < len(sorted); i++ {
			if minutes+sorted[i] > maxMinutes {
				break
			}
			walk(i, minutes+sorted[i], money.Round(earnings+payout[sorted[i]]), append(combo, sorted[i]))
		}
	}
	walk(0, 0, 0, nil)

	// Longest blocks first reads naturally in the breakdown.
	sort.Sort(sort.Reverse(sort.IntSlice(best)))
	return best
}

func better(earnings float64, minutes, blocks int, bestEarnings float64, bestMinutes, bestBlocks int) bool {
	if bestBlocks == 0 {
		return true
	}
	if earnings != bestEarnings {
		return earnings > bestEarnings
	}
	if minutes != bestMinutes {
		return minutes < bestMinutes
	}
	return blocks < bestBlocks
}

// trimToWeekly drops blocks until the week fits in maxMinutes, lowest payout
// per hour first. Among equals the longer block and then the later day goes.
// It returns the number of blocks removed.
func trimToWeekly(days [][]int, payout map[int]float64, maxMinutes int) int {
	total := 0
	for _, blocks := range days {
		for _, b := range blocks {
			total += b
		}
	}

	removed := 0
	for total > maxMinutes {
		day, idx := -1, -1
		var worst float64
		for d, blocks := range days {
			for i, b := range blocks {
				perHour := payout[b] / (float64(b) / 60)
				if day == -1 || perHour < worst ||
					(perHour == worst && (b > days[day][idx] || (b == days[day][idx] && d > day))) {
					day, idx, worst = d, i, perHour
				}
			}
		}
		if day == -1 {
			break
		}
		total -= days[day][idx]
		days[day] = append(days[day][:idx], days[day][idx+1:]...)
		removed++
	}
	return removed
}

func noScheduleReason(rates []BlockRate) string {
	var parts []string
	for _, r := range rates {
		switch {
		case r.Source == SourceHistorical:
			parts = append(parts, fmt.Sprintf("%s blocks average $%.2f, below your $%.2f minimum",
				formatMinutes(r.Minutes), r.AveragePayout, r.MinimumPayout))
		default:
			parts = append(parts, fmt.Sprintf("%s blocks have no history and no minimum rate", formatMinutes(r.Minutes)))
		}
	}
	return "No block length meets your minimum acceptable rate (" + strings.Join(parts, "; ") +
		"). Lower your minimum acceptable rates or log more blocks."
}

func reasoning(best []int, rates []BlockRate, trimmed int, r *Results) string {
	source := make(map[int]BlockRate)
	for _, rate := range rates {
		source[rate.Minutes] = rate
	}

	var mix []string
	for _, b := range best {
		rate := source[b]
		mix = append(mix, fmt.Sprintf("%s at $%.2f (%s, $%.2f/h)", formatMinutes(b), rate.AveragePayout, rate.Source, rate.AveragePerHour))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Best daily mix within %.0fh: %s.", constants.SimulatorDailyHours, strings.Join(mix, " + "))
	if trimmed > 0 {
		fmt.Fprintf(&sb, " Dropped %d lowest $/hour block(s) to stay within %.0fh per week.", trimmed, constants.SimulatorWeeklyHours)
	}
	fmt.Fprintf(&sb, " %d blocks over %.2fh need %d fill-up(s) costing $%.2f, leaving $%.2f net of $%.2f gross.",
		r.TotalBlocks, r.TotalHours, r.FillUpsNeeded, r.TotalGasCost, r.NetEarnings, r.GrossEarnings)
	return sb.String()
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%.1fh", float64(m)/60)
}
