package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CourtConfig
		want    int
		wantErr bool
	}{
		{
			name: "even split",
			cfg:  CourtConfig{OpenMin: 8 * 60, CloseMin: 22 * 60, SlotMinutes: 60},
			want: 14,
		},
		{
			name: "trailing partial slot dropped",
			// open 08:00, close 09:30, 60 min -> exactly one slot
			cfg:  CourtConfig{OpenMin: 8 * 60, CloseMin: 9*60 + 30, SlotMinutes: 60},
			want: 1,
		},
		{
			name: "90 minute padel slots",
			cfg:  CourtConfig{OpenMin: 9 * 60, CloseMin: 23 * 60, SlotMinutes: 90},
			want: 9,
		},
		{
			name:    "zero duration",
			cfg:     CourtConfig{OpenMin: 8 * 60, CloseMin: 22 * 60, SlotMinutes: 0},
			wantErr: true,
		},
		{
			name:    "negative duration",
			cfg:     CourtConfig{OpenMin: 8 * 60, CloseMin: 22 * 60, SlotMinutes: -30},
			wantErr: true,
		},
		{
			name:    "open after close",
			cfg:     CourtConfig{OpenMin: 22 * 60, CloseMin: 8 * 60, SlotMinutes: 60},
			wantErr: true,
		},
		{
			name:    "open equals close",
			cfg:     CourtConfig{OpenMin: 8 * 60, CloseMin: 8 * 60, SlotMinutes: 60},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Grid(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCourtMisconfigured)
				return
			}
			require.NoError(t, err)
			require.Len(t, slots, tt.want)
			for i, s := range slots {
				assert.Equal(t, tt.cfg.SlotMinutes, s.End-s.Start)
				assert.LessOrEqual(t, s.End, tt.cfg.CloseMin)
				if i > 0 {
					assert.Equal(t, slots[i-1].End, s.Start)
				}
			}
		})
	}
}

func TestGridBoundary(t *testing.T) {
	// open=08:00 close=09:30 duration=60: one slot [08:00,09:00),
	// no slot starting at 09:00 since it would end past closing.
	slots, err := Grid(CourtConfig{OpenMin: 8 * 60, CloseMin: 9*60 + 30, SlotMinutes: 60})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "08:00", FormatClock(slots[0].Start))
	assert.Equal(t, "09:00", FormatClock(slots[0].End))
}

func TestGridDeterminism(t *testing.T) {
	cfg := CourtConfig{OpenMin: 7*60 + 30, CloseMin: 21 * 60, SlotMinutes: 45}
	first, err := Grid(cfg)
	require.NoError(t, err)
	second, err := Grid(cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
