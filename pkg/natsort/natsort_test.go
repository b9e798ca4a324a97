package natsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "DC2330", "DC2330", 0},
		{"numeric beats lexicographic", "DC2", "DC10", -1},
		{"plain text", "abc", "abd", -1},
		{"prefix is smaller", "L1", "L1A", -1},
		{"digit run vs letter", "2330", "A1", -1},
		{"leading zeros equal value", "007", "7", 0},
		{"mixed segments", "LOT-9-B", "LOT-10-A", -1},
		{"year-week date codes", "2330", "2401", -1},
		{"longer number wins", "2401", "230000", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a))
		})
	}
}

func TestStrings(t *testing.T) {
	ss := []string{"L10", "L2", "L1", "L2A"}
	Strings(ss)
	assert.Equal(t, []string{"L1", "L2", "L2A", "L10"}, ss)
}
