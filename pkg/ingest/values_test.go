package ingest

import "testing"

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"R$ 1.234,56", "1234.56", false},
		{"R$1.234,56", "1234.56", false},
		{"1.234,56", "1234.56", false},
		{"500,00", "500.00", false},
		{"1500", "1500.00", false},
		{"R$ 0,00", "0.00", false},
		{"", "", true},
		{"R$", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCurrency(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCurrency(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCurrency(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got.StringFixed(2) != tt.want {
			t.Errorf("ParseCurrency(%q) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"15/06/2014", "2014-06-15"} {
		d, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", in, err)
			continue
		}
		if d.Format("2006-01-02") != "2014-06-15" {
			t.Errorf("ParseDate(%q) = %s", in, d)
		}
	}
	if _, err := ParseDate("junho de 2014"); err == nil {
		t.Error("expected error for unrecognized date")
	}
}
