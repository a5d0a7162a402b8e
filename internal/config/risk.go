package config

import (
	"fmt"
	"time"

	"github.com/hollis-dev/paydown/internal/risk"
	"github.com/hollis-dev/paydown/internal/service"
	"github.com/spf13/viper"
)

// LoadRiskSettings reads the risk detection inputs from Viper. Values come
// from the config file or PAYDOWN_ environment variables; all of them are
// optional.
func LoadRiskSettings() service.RiskSettings {
	return service.RiskSettings{
		PaycheckDates:       viper.GetStringSlice("risk.paycheck_dates"),
		Holidays:            viper.GetStringSlice("risk.holidays"),
		PaycheckAmount:      viper.GetFloat64("risk.paycheck_amount"),
		MinimumBuffer:       viper.GetFloat64("risk.minimum_buffer"),
		CollisionWindowDays: viper.GetInt("risk.collision_window_days"),
	}
}

// BuildRiskContext parses the configured settings into a risk.Context.
// Dates must be in YYYY-MM-DD form. Invalid entries never abort risk
// detection: they degrade the affected rule and come back as warnings.
// A bad paycheck date drops the whole paycheck schedule, so cash crunch
// detection is skipped rather than run against a partial timeline; a bad
// holiday is dropped individually.
func BuildRiskContext(settings service.RiskSettings) (risk.Context, []string) {
	ctx := risk.Context{
		PaycheckAmount:      settings.PaycheckAmount,
		MinimumBuffer:       settings.MinimumBuffer,
		CollisionWindowDays: settings.CollisionWindowDays,
	}
	var warnings []string

	if settings.CollisionWindowDays < 0 {
		warnings = append(warnings,
			fmt.Sprintf("collision window cannot be negative (%d); using same-day collisions", settings.CollisionWindowDays))
		ctx.CollisionWindowDays = 0
	}

	for _, raw := range settings.PaycheckDates {
		d, err := parseConfigDate(raw)
		if err != nil {
			warnings = append(warnings,
				fmt.Sprintf("ignoring paycheck schedule (%v); cash crunch detection will be skipped", err))
			ctx.PaycheckDates = nil
			ctx.PaycheckAmount = 0
			break
		}
		ctx.PaycheckDates = append(ctx.PaycheckDates, d)
	}

	for _, raw := range settings.Holidays {
		d, err := parseConfigDate(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring holiday: %v", err))
			continue
		}
		ctx.Rule.Holidays = append(ctx.Rule.Holidays, d)
	}

	return ctx, warnings
}

func parseConfigDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD date", raw)
	}
	return d, nil
}
