package leveling

import "time"

// Config holds every tunable of the progression economy.
type Config struct {
	// CurveFactor is the C in level = floor(C * sqrt(xp)).
	CurveFactor float64

	XPPerMessage     int64
	XPPerVoiceMinute int64

	// Coins granted on level-up: newLevel * LevelUpCoinFactor.
	LevelUpCoinFactor int64

	// Daily reward curve
	DailyBase int64
	DailyCap  int64

	// Work command
	WorkRewardMin int64
	WorkRewardMax int64
	WorkCooldown  time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		CurveFactor:       0.1,
		XPPerMessage:      10,
		XPPerVoiceMinute:  5,
		LevelUpCoinFactor: 10,
		DailyBase:         100,
		DailyCap:          300,
		WorkRewardMin:     50,
		WorkRewardMax:     200,
		WorkCooldown:      8 * time.Hour,
	}
}
