package sensor

import "testing"

func TestPrecision(t *testing.T) {
	tests := []struct {
		param string
		want  int
	}{
		{"Temperature", 1},
		{"temperature (°C)", 1},
		{"Humidity", 0},
		{"VOC Index", 1},
		{"CO2 (ppm)", 0},
		{"PM2.5", 0},
		{"Mass Concentration PM1.0", 1},
		{"Pressure", DefaultPrecision},
	}
	for _, tt := range tests {
		if got := Precision(tt.param); got != tt.want {
			t.Errorf("Precision(%q) = %d, want %d", tt.param, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		param string
		v     float64
		want  string
	}{
		{"Temperature", 21.26, "21.3"},
		{"Humidity", 41.6, "42"},
		{"Pressure", 1013.123456, "1013.1235"},
		{"CO2", Missing(), ""},
	}
	for _, tt := range tests {
		if got := Format(tt.param, tt.v); got != tt.want {
			t.Errorf("Format(%q, %v) = %q, want %q", tt.param, tt.v, got, tt.want)
		}
	}
}
