package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2024-03-01T10:00:00Z",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "datetime-local with seconds",
			input: "2024-03-01T10:00:30",
			want:  time.Date(2024, 3, 1, 10, 0, 30, 0, time.Local),
		},
		{
			name:  "datetime-local",
			input: "2024-03-01T10:00",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		},
		{
			name:  "space separated",
			input: "2024-03-01 10:00",
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestClamp(t *testing.T) {
	offset, limit := Clamp(-1, 0, 10, 50)
	require.Equal(t, 0, offset)
	require.Equal(t, 10, limit)

	offset, limit = Clamp(5, 500, 10, 50)
	require.Equal(t, 5, offset)
	require.Equal(t, 50, limit)
}
