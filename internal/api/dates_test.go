package api

import (
	"errors"
	"testing"
)

// TestEstablishmentYear verifies the parsed year is shifted by one
func TestEstablishmentYear(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "1850", want: 1851},
		{raw: "1849[3]", want: 1850},
		{raw: "December 13, 1849", want: 1850},
		{raw: "Dec. 13, 1849", want: 1850},
		{raw: "13 December 1849", want: 1850},
		{raw: "1849-12-13", want: 1850},
		{raw: "March 1821", want: 1822},
		{raw: "3/1/1821", want: 1822},
		{raw: "1821 ", want: 1822},
		{raw: "  1700. ", want: 1701},
		{raw: "1 Mar 1850", want: 1851},
		{raw: "Sept. 4, 1850", want: 1851},
		{raw: "Apr. 1850", want: 1851},
		{raw: "March 1, 1850 (as Smith County)", want: 1851},
		{raw: "1850 (as Baz County)", want: 1851},
		{raw: "1850 (as Baz", want: 1851},
		{raw: "c. 1850", want: 1851},
		{raw: "ca. 1850", want: 1851},
		{raw: "", wantErr: true},
		{raw: "unknown", wantErr: true},
		{raw: "(none)", wantErr: true},
		{raw: "12,345", wantErr: true},
		{raw: "c. 1700s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := EstablishmentYear(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseableDate) {
					t.Fatalf("EstablishmentYear(%q) error = %v, want ErrUnparseableDate", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EstablishmentYear(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("EstablishmentYear(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sept. 4, 1850[2]", "Sep 4, 1850"},
		{"Dec. 1849", "Dec 1849"},
		{"March 1, 1850 (as Smith County)", "March 1, 1850"},
		{"circa 1790", "1790"},
		{"1850", "1850"},
	}
	for _, tt := range tests {
		if got := normalizeDate(tt.in); got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1850[1][note 2]", "1850"},
		{"January 1,  1850", "January 1, 1850"},
		{"1850;", "1850"},
	}
	for _, tt := range tests {
		if got := cleanDate(tt.in); got != tt.want {
			t.Errorf("cleanDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
