package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftledger/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{Simulator: SimulatorConfig{MinRates: map[int]float64{}}}

	for key, value := range data {
		switch {
		case key == constants.SettingDailyLimitHours:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing daily_limit_hours: %w", err)
			}
			settings.DailyLimitHours = v
		case key == constants.SettingWeeklyLimitHours:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing weekly_limit_hours: %w", err)
			}
			settings.WeeklyLimitHours = v
		case key == constants.SettingTimezone:
			settings.Timezone = value
		case key == constants.SettingCappedPlatforms:
			settings.CappedPlatforms = parsePlatformList(value)
		case key == constants.SettingPasswordHash:
			settings.PasswordHash = value
		case key == constants.SettingReminderEmail:
			settings.ReminderEmail = value
		case key == constants.SettingReminderDaysAhead:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReminderDaysAhead); err != nil {
				return Settings{}, fmt.Errorf("parsing reminder_days_ahead: %w", err)
			}
		case key == constants.SettingSimBlocksBeforeGas:
			if _, err := fmt.Sscanf(value, "%d", &settings.Simulator.BlocksBeforeGas); err != nil {
				return Settings{}, fmt.Errorf("parsing sim_blocks_before_gas: %w", err)
			}
		case key == constants.SettingSimGasPrice:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing sim_gas_price: %w", err)
			}
			settings.Simulator.GasPrice = v
		case key == constants.SettingSimTankSize:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing sim_tank_size: %w", err)
			}
			settings.Simulator.TankSize = v
		case strings.HasPrefix(key, constants.SettingSimMinRatePrefix):
			minutes, err := strconv.Atoi(strings.TrimPrefix(key, constants.SettingSimMinRatePrefix))
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.Simulator.MinRates[minutes] = rate
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	data := map[string]string{
		constants.SettingDailyLimitHours:    strconv.FormatFloat(settings.DailyLimitHours, 'f', -1, 64),
		constants.SettingWeeklyLimitHours:   strconv.FormatFloat(settings.WeeklyLimitHours, 'f', -1, 64),
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingCappedPlatforms:    formatPlatformList(settings.CappedPlatforms),
		constants.SettingReminderEmail:      settings.ReminderEmail,
		constants.SettingReminderDaysAhead:  fmt.Sprintf("%d", settings.ReminderDaysAhead),
		constants.SettingSimBlocksBeforeGas: fmt.Sprintf("%d", settings.Simulator.BlocksBeforeGas),
		constants.SettingSimGasPrice:        strconv.FormatFloat(settings.Simulator.GasPrice, 'f', -1, 64),
		constants.SettingSimTankSize:        strconv.FormatFloat(settings.Simulator.TankSize, 'f', -1, 64),
	}
	if settings.PasswordHash != "" {
		data[constants.SettingPasswordHash] = settings.PasswordHash
	}
	for minutes, rate := range settings.Simulator.MinRates {
		data[fmt.Sprintf("%s%d", constants.SettingSimMinRatePrefix, minutes)] = strconv.FormatFloat(rate, 'f', -1, 64)
	}
	return data
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DailyLimitHours <= 0 {
		settings.DailyLimitHours = constants.DefaultDailyLimitHours
	}
	if settings.WeeklyLimitHours <= 0 {
		settings.WeeklyLimitHours = constants.DefaultWeeklyLimitHours
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if len(settings.CappedPlatforms) == 0 {
		settings.CappedPlatforms = parsePlatformList(constants.DefaultCappedPlatforms)
	}
	if settings.ReminderDaysAhead == 0 {
		settings.ReminderDaysAhead = constants.DefaultReminderDaysAhead
	}
	ApplyDefaultSimulatorConfig(&settings.Simulator)
}

// ApplyDefaultSimulatorConfig fills unset simulator parameters.
func ApplyDefaultSimulatorConfig(cfg *SimulatorConfig) {
	if cfg.BlocksBeforeGas <= 0 {
		cfg.BlocksBeforeGas = constants.DefaultBlocksBeforeGas
	}
	if cfg.GasPrice <= 0 {
		cfg.GasPrice = constants.DefaultGasPrice
	}
	if cfg.TankSize <= 0 {
		cfg.TankSize = constants.DefaultTankSize
	}
	if cfg.MinRates == nil {
		cfg.MinRates = map[int]float64{}
	}
	for _, minutes := range constants.BlockLengths {
		if _, ok := cfg.MinRates[minutes]; !ok {
			cfg.MinRates[minutes] = constants.DefaultMinRates[minutes]
		}
	}
}

func parsePlatformList(value string) []Platform {
	var platforms []Platform
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		platforms = append(platforms, Platform(part))
	}
	return platforms
}

func formatPlatformList(platforms []Platform) string {
	parts := make([]string, 0, len(platforms))
	for _, p := range platforms {
		parts = append(parts, string(p))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
