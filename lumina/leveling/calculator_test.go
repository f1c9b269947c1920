package leveling

import "testing"

func TestLevelForXP(t *testing.T) {
	c := NewCalculator(nil)

	tests := []struct {
		name string
		xp   int64
		want int
	}{
		{"zero", 0, 0},
		{"below first threshold", 99, 0},
		{"first level boundary", 100, 1},
		{"mid level 1", 250, 1},
		{"level 2 boundary", 400, 2},
		{"level 5 boundary", 2500, 5},
		{"level 10 boundary", 10000, 10},
		{"negative clamps to zero", -50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LevelForXP(tt.xp); got != tt.want {
				t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
			}
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	c := NewCalculator(nil)

	prev := 0
	for xp := int64(0); xp <= 50000; xp += 7 {
		level := c.LevelForXP(xp)
		if level < prev {
			t.Fatalf("LevelForXP not monotonic: xp=%d level=%d previous=%d", xp, level, prev)
		}
		prev = level
	}
}

func TestXPForLevel_RoundTrip(t *testing.T) {
	c := NewCalculator(nil)

	for level := 0; level <= 50; level++ {
		xp := c.XPForLevel(level)
		if got := c.LevelForXP(xp); got != level {
			t.Errorf("LevelForXP(XPForLevel(%d)) = %d, want %d (xp=%d)", level, got, level, xp)
		}
	}
}

func TestDailyReward(t *testing.T) {
	c := NewCalculator(nil)

	tests := []struct {
		streak int
		want   int64
	}{
		{0, 100},
		{1, 100},
		{2, 110},
		{7, 160},
		{8, 175},
		{30, 285},
		{31, 300},
		{365, 300},
	}

	for _, tt := range tests {
		if got := c.DailyReward(tt.streak); got != tt.want {
			t.Errorf("DailyReward(%d) = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestDailyReward_MonotonicUntilCap(t *testing.T) {
	c := NewCalculator(nil)

	prev := int64(0)
	for streak := 1; streak <= 30; streak++ {
		reward := c.DailyReward(streak)
		if reward < prev {
			t.Fatalf("DailyReward decreased at streak %d: %d < %d", streak, reward, prev)
		}
		prev = reward
	}
}

func TestWorkReward_InRange(t *testing.T) {
	c := NewCalculator(nil)

	for i := 0; i < 1000; i++ {
		reward := c.WorkReward()
		if reward < 50 || reward > 200 {
			t.Fatalf("WorkReward() = %d, want within [50, 200]", reward)
		}
	}
}

func TestLevelUpReward(t *testing.T) {
	c := NewCalculator(nil)

	if got := c.LevelUpReward(5); got != 50 {
		t.Errorf("LevelUpReward(5) = %d, want 50", got)
	}
}
