package achievements

import (
	"reflect"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		value int64
		want  []string
	}{
		{
			name:  "no messages",
			kind:  KindMessages,
			value: 0,
			want:  nil,
		},
		{
			name:  "first message",
			kind:  KindMessages,
			value: 1,
			want:  []string{"first_message"},
		},
		{
			name:  "skipping values still qualifies all lower thresholds",
			kind:  KindMessages,
			value: 150,
			want:  []string{"first_message", "10_messages", "100_messages"},
		},
		{
			name:  "all message badges",
			kind:  KindMessages,
			value: 1000,
			want:  []string{"first_message", "10_messages", "100_messages", "1000_messages"},
		},
		{
			name:  "one voice minute",
			kind:  KindVoiceMinutes,
			value: 1,
			want:  []string{"first_voice"},
		},
		{
			name:  "ten voice hours",
			kind:  KindVoiceMinutes,
			value: 600,
			want:  []string{"first_voice", "1_hour_voice", "10_hours_voice"},
		},
		{
			name:  "level below threshold",
			kind:  KindLevel,
			value: 4,
			want:  nil,
		},
		{
			name:  "level 10",
			kind:  KindLevel,
			value: 10,
			want:  []string{"level_5", "level_10"},
		},
		{
			name:  "week streak",
			kind:  KindStreak,
			value: 7,
			want:  []string{"streak_7"},
		},
		{
			name:  "month streak",
			kind:  KindStreak,
			value: 30,
			want:  []string{"streak_7", "streak_30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.kind, tt.value); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate(%s, %d) = %v, want %v", tt.kind, tt.value, got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	badge, ok := Get("first_message")
	if !ok || badge.Name != "First Steps" {
		t.Errorf("Get(first_message) = %+v, %v", badge, ok)
	}

	if _, ok := Get("no_such_badge"); ok {
		t.Error("Get(no_such_badge) reported an unknown badge as known")
	}
}
