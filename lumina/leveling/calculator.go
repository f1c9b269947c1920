// Package leveling implements the progression curves: XP to level, level to
// XP threshold, and the streak-based daily reward. Pure math, no state.
package leveling

import (
	"math"
	"math/rand"
	"time"
)

type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Calculator{config: config}
}

// LevelForXP maps experience to a level via floor(C * sqrt(xp)). Monotonic
// non-decreasing; level 0 covers xp in [0, 100) at the default curve.
func (c *Calculator) LevelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Floor(c.config.CurveFactor * math.Sqrt(float64(xp))))
}

// XPForLevel is the inverse threshold: the XP at which a level is reached.
// Used for display only; level itself is always derived from XP.
func (c *Calculator) XPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	return int64(math.Pow(float64(level)/c.config.CurveFactor, 2))
}

// DailyReward returns the coin reward for a claim at the given streak
// length. The curve is piecewise: +10%/day through a week, +5%/day through a
// month, then flat at the cap. The discontinuity at day 30 is intentional.
func (c *Calculator) DailyReward(streak int) int64 {
	base := float64(c.config.DailyBase)
	switch {
	case streak <= 1:
		return c.config.DailyBase
	case streak <= 7:
		return int64(math.Round(base * (1 + float64(streak-1)*0.1)))
	case streak <= 30:
		return int64(math.Round(base * (1.7 + float64(streak-7)*0.05)))
	default:
		return c.config.DailyCap
	}
}

func (c *Calculator) LevelUpReward(newLevel int) int64 {
	return int64(newLevel) * c.config.LevelUpCoinFactor
}

// WorkReward rolls a uniform reward in [WorkRewardMin, WorkRewardMax].
func (c *Calculator) WorkReward() int64 {
	span := c.config.WorkRewardMax - c.config.WorkRewardMin + 1
	return c.config.WorkRewardMin + rand.Int63n(span)
}

func (c *Calculator) MessageXP() int64            { return c.config.XPPerMessage }
func (c *Calculator) VoiceMinuteXP() int64        { return c.config.XPPerVoiceMinute }
func (c *Calculator) WorkCooldown() time.Duration { return c.config.WorkCooldown }
