package sensor

import (
	"math"
	"strconv"

	"github.com/i474232898/sensor-dashboard/internal/common"
)

// DefaultPrecision is used for parameters without a known prefix.
const DefaultPrecision = 4

// precisions maps a lower-case parameter name prefix to display decimals.
var precisions = []struct {
	prefix   string
	decimals int
}{
	{"temperature", 1},
	{"humidity", 0},
	{"voc", 1},
	{"co2", 0},
	{"pm", 0},
	{"mass concentration", 1},
}

// Precision returns the number of decimals used to display param.
func Precision(param string) int {
	for _, p := range precisions {
		if common.HasPrefixFold(param, p.prefix) {
			return p.decimals
		}
	}
	return DefaultPrecision
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	if IsMissing(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// Format renders v for display with param's precision.
func Format(param string, v float64) string {
	if IsMissing(v) {
		return ""
	}
	d := Precision(param)
	return strconv.FormatFloat(Round(v, d), 'f', d, 64)
}

