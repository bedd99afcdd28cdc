package indicator

import (
	"math"
	"testing"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) {
		t.Fatalf("%s: got NaN, want %.4f", label, want)
	}
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.4f, want %.4f (tol=%.4f)", label, got, want, tol)
	}
}

// Wilder's textbook 15-point series. The seed-only RSI(14) over these
// closes is ~70.53, within the published ~70.46 figure.
var wilderCloses = []float64{
	44.3389, 44.0902, 44.1497, 43.6124, 44.3278,
	44.8264, 45.0955, 45.4245, 45.8433, 46.0826,
	45.8931, 46.0328, 45.6140, 46.2820, 46.2820,
}

func TestRSI_Wilder_Textbook(t *testing.T) {
	got := RSI(wilderCloses, 14, MethodWilder)
	assertClose(t, "RSI(14) wilder", got, 70.46, 0.1)
}

func TestRSI_InsufficientData(t *testing.T) {
	for _, m := range []Method{MethodWilder, MethodEMA, MethodSimple} {
		// len == period is not enough: RSI needs period deltas.
		if got := RSI(wilderCloses[:14], 14, m); !math.IsNaN(got) {
			t.Errorf("method %s: expected NaN for 14 closes, got %.4f", m, got)
		}
		if got := RSI(nil, 14, m); !math.IsNaN(got) {
			t.Errorf("method %s: expected NaN for empty input, got %.4f", m, got)
		}
	}
	if got := RSI(wilderCloses, 0, MethodWilder); !math.IsNaN(got) {
		t.Errorf("expected NaN for zero period, got %.4f", got)
	}
}

func TestRSI_AllGains(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}
	for _, m := range []Method{MethodWilder, MethodEMA, MethodSimple} {
		if got := RSI(closes, 3, m); got != 100.0 {
			t.Errorf("method %s: expected 100 for monotone gains, got %.4f", m, got)
		}
	}
}

func TestRSI_Simple_TrailingWindowOnly(t *testing.T) {
	// Deltas: +1, +1, -1, +1. Trailing 2 deltas are -1, +1:
	// avgGain = 0.5, avgLoss = 0.5, RS = 1 → RSI = 50.
	closes := []float64{1, 2, 3, 2, 3}
	assertClose(t, "RSI(2) simple", RSI(closes, 2, MethodSimple), 50.0, 0.0001)
}

func TestRSI_EMA_HandComputed(t *testing.T) {
	// Period 3, alpha = 0.5. Deltas: +1, -1, +2, +1.
	// Seed: avgGain = (1+0+2)/3 = 1, avgLoss = (0+1+0)/3 = 1/3.
	// After +1: avgGain = 1.0, avgLoss = 1/6 → RS = 6 → RSI = 85.7143.
	closes := []float64{10, 11, 10, 12, 13}
	assertClose(t, "RSI(3) ema", RSI(closes, 3, MethodEMA), 85.7143, 0.001)
}

func TestRSISeries_MatchesScalar(t *testing.T) {
	for _, m := range []Method{MethodWilder, MethodEMA, MethodSimple} {
		series := RSISeries(wilderCloses, 14, m)
		if len(series) != len(wilderCloses)-14 {
			t.Fatalf("method %s: series length %d, want %d", m, len(series), len(wilderCloses)-14)
		}
		for i, got := range series {
			want := RSI(wilderCloses[:14+i+1], 14, m)
			assertClose(t, "series value", got, want, 0.0001)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
		ok   bool
	}{
		{"wilder", MethodWilder, true},
		{"", MethodWilder, true},
		{"EMA", MethodEMA, true},
		{"Simple", MethodSimple, true},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseMethod(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseMethod(%q): expected error", tt.in)
		}
	}
}
