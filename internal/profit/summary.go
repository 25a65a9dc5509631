package profit

import (
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/money"
	"github.com/julianstephens/shiftledger/internal/utils"
)

// MonthSummary combines every day of a month with the month-level net.
type MonthSummary struct {
	Month           string        `json:"month"` // YYYY-MM
	Days            []DailyProfit `json:"days"`
	TotalIncome     float64       `json:"total_income"`
	TotalMileage    float64       `json:"total_mileage"`
	EarningsPerMile *float64      `json:"earnings_per_mile"`
	MonthlyNet
}

// ForMonth builds the summary for a YYYY-MM month. Only entries and daily
// records inside the month are used.
func ForMonth(month string, entries []models.IncomeEntry, daily []models.DailyData, fixed []models.FixedExpense, plans []models.PaymentPlan) (MonthSummary, error) {
	first, last, err := utils.MonthRange(month)
	if err != nil {
		return MonthSummary{}, err
	}
	start, end := utils.FormatDate(first), utils.FormatDate(last)

	byDate := make(map[string][]models.IncomeEntry)
	var monthEntries []models.IncomeEntry
	for _, e := range entries {
		if !utils.InRange(e.Date, start, end) {
			continue
		}
		key := e.Date[:len(start)]
		byDate[key] = append(byDate[key], e)
		monthEntries = append(monthEntries, e)
	}

	dailyByDate := make(map[string]models.DailyData)
	var monthDaily []models.DailyData
	var miles []float64
	for _, d := range daily {
		if !utils.InRange(d.Date, start, end) {
			continue
		}
		dailyByDate[d.Date[:len(start)]] = d
		monthDaily = append(monthDaily, d)
		miles = append(miles, money.SafePtr(d.Mileage))
	}

	summary := MonthSummary{Month: month}
	for _, date := range utils.DatesInRange(first, last) {
		matched := byDate[date]
		d, ok := dailyByDate[date]
		if len(matched) == 0 && !ok {
			continue
		}
		var dp *models.DailyData
		if ok {
			dp = &d
		}
		summary.Days = append(summary.Days, ForDateMatched(date, matched, dp))
	}

	summary.TotalIncome = TotalIncome(monthEntries)
	summary.TotalMileage = money.Sum(miles...)
	summary.EarningsPerMile = money.Ratio(summary.TotalIncome, summary.TotalMileage)
	summary.MonthlyNet = Monthly(summary.TotalIncome, fixed, plans, monthDaily)
	return summary, nil
}
