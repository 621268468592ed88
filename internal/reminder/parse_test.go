package reminder

import (
	"testing"
	"time"
)

func TestParseDue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "datetime-local format from the web form",
			input: "2024-01-01T10:05",
			want:  time.Date(2024, 1, 1, 10, 5, 0, 0, time.Local),
		},
		{
			name:  "with seconds",
			input: "2024-01-01T10:05:30",
			want:  time.Date(2024, 1, 1, 10, 5, 30, 0, time.Local),
		},
		{
			name:  "RFC3339 with explicit zone",
			input: "2024-01-01T10:05:00Z",
			want:  time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			input: "2024-01-01 10:05",
			want:  time.Date(2024, 1, 1, 10, 5, 0, 0, time.Local),
		},
		{
			name:  "surrounding whitespace is tolerated",
			input: "  2024-01-01T10:05  ",
			want:  time.Date(2024, 1, 1, 10, 5, 0, 0, time.Local),
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "free text",
			input:   "next tuesday",
			wantErr: true,
		},
		{
			name:    "date fragments",
			input:   "01/01/2024 10:05",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDue(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDue(%q) should fail", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDue(%q) returned unexpected error: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDue(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
