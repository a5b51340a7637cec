package service

import (
	"context"
	"fmt"

	"github.com/ANIKETSHETTY47/solar-analyst/internal/domain"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/narrative"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/query"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/report"
	"github.com/ANIKETSHETTY47/solar-analyst/internal/stats"
)

// FinancialSavings converts the energy produced between startDate and
// endDate into money saved and CO2 avoided. endDate defaults to the anchor
// date and a non-positive rate to the configured default.
func (e *Engine) FinancialSavings(ctx context.Context, loggerID, startDate string, endDate *string, rate float64) (*report.FinancialReport, error) {
	end := ""
	if endDate != nil {
		end = *endDate
	} else {
		anchor, err := e.anchor(ctx)
		if err != nil {
			return nil, err
		}
		end = formatDate(anchor)
	}
	if rate <= 0 {
		rate = e.cfg.DefaultElectricityRate
	}

	// The energy counter is cumulative within a day, so each row is that
	// day's maximum.
	var rows []domain.DailyEnergy
	if err := e.store.Select(ctx, &rows, query.Financial(loggerID, startDate, end)); err != nil {
		return nil, err
	}

	out := &report.FinancialReport{
		Type:     report.TypeFinancialReport,
		LoggerID: loggerID,
		Period:   report.FinancialPeriod{Start: startDate, End: end},
	}
	if len(rows) == 0 {
		rec, err := e.recoverRange(ctx, query.LoggerRange(loggerID))
		if err != nil {
			return nil, err
		}
		out.Status, out.AvailableRange = rec.status, rec.rng
		out.Message = recoveryMessage(rec, msgUnknownLogger, "No energy data found for the specified period.")
		narrative.Attach(out)
		return out, nil
	}

	daily := make([]float64, len(rows))
	for i, r := range rows {
		daily[i] = r.DailyKWh
	}
	total := stats.Sum(daily)
	savings := total * rate
	co2 := total * e.cfg.CO2PerKWh
	trees := co2 / e.cfg.KgCO2PerTreeYear

	out.Status = report.StatusOK
	out.DaysWithData = ptr(len(rows))
	out.TotalEnergyKWh = ptr(stats.Round(total, 2))
	out.ElectricityRateUSD = ptr(rate)
	out.SavingsUSD = ptr(stats.Round(savings, 2))
	out.CO2OffsetKg = ptr(stats.Round(co2, 2))
	out.TreesEquivalent = ptr(stats.Round(trees, 1))
	out.Summary = fmt.Sprintf("Generated %.1f kWh, saving $%.2f and offsetting %.1f kg of CO2", total, savings, co2)
	narrative.Attach(out)
	return out, nil
}
