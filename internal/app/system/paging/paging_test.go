package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/communa-dev/communa/internal/app/system/paging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
		wantSkip  int64
	}{
		{"defaults", "/", 1, 10, 0},
		{"explicit", "/?page=3&limit=25", 3, 25, 50},
		{"limit capped", "/?limit=9999", 1, 100, 0},
		{"zero page ignored", "/?page=0", 1, 10, 0},
		{"negative ignored", "/?page=-2&limit=-5", 1, 10, 0},
		{"garbage ignored", "/?page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paging.Parse(httptest.NewRequest("GET", tt.url, nil))
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Skip() != tt.wantSkip {
				t.Errorf("Skip() = %d, want %d", p.Skip(), tt.wantSkip)
			}
		})
	}
}
