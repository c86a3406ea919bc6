package reporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_roundDuration(t *testing.T) {
	tests := []struct {
		name string
		dur  time.Duration
		want time.Duration
	}{
		{
			name: "minutes keep ten second steps",
			dur:  2*time.Minute + 34*time.Second + 567*time.Millisecond,
			want: 2*time.Minute + 30*time.Second,
		},
		{
			name: "seconds keep ten millisecond steps",
			dur:  1*time.Second + 234*time.Millisecond + 567*time.Microsecond,
			want: 1*time.Second + 230*time.Millisecond,
		},
		{
			name: "milliseconds keep ten microsecond steps",
			dur:  7*time.Millisecond + 896*time.Microsecond,
			want: 7*time.Millisecond + 900*time.Microsecond,
		},
		{
			name: "microseconds keep ten nanosecond steps",
			dur:  42*time.Microsecond + 344*time.Nanosecond,
			want: 42*time.Microsecond + 340*time.Nanosecond,
		},
		{
			name: "sub microsecond values are untouched",
			dur:  987 * time.Nanosecond,
			want: 987 * time.Nanosecond,
		},
		{
			name: "exactly one microsecond is untouched",
			dur:  time.Microsecond,
			want: time.Microsecond,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundDuration(tt.dur))
		})
	}
}
