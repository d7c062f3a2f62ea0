package advisor

import (
	"math"
	"reflect"
	"testing"

	"stock-advisor-bot/internal/types"
)

// trendBars builds n daily bars with an accelerating drift of roughly
// step per bar and a small deterministic wobble, volume rising into the
// latest bar. The acceleration keeps MACD strictly on the trend side of
// its signal line instead of converging onto it.
func trendBars(n int, start, step float64) []types.PriceBar {
	bars := make([]types.PriceBar, n)
	for i := 0; i < n; i++ {
		c := start + float64(i)*step*(1+float64(i)/300) + 0.2*math.Sin(float64(i)/3)
		bars[i] = types.PriceBar{
			Ts:    int64(1700000000 + i*86400),
			Open:  c - 0.3,
			High:  c + 1.2,
			Low:   c - 1.2,
			Close: c,
			Vol:   1000 + float64(i)*10,
		}
	}
	return bars
}

func TestSwingScoreInsufficientHistory(t *testing.T) {
	bars := trendBars(199, 100, 0.5)
	for _, side := range []types.Side{types.SideLong, types.SideShort} {
		check := SwingScore(bars, side)
		if check.Score != 0 {
			t.Errorf("%s on 199 bars: score = %d, want 0", side, check.Score)
		}
		if len(check.Conditions) != 0 {
			t.Errorf("%s on 199 bars: conditions = %v, want empty", side, check.Conditions)
		}
	}
}

func TestSwingScoreBoundsAndLength(t *testing.T) {
	series := [][]types.PriceBar{
		trendBars(250, 100, 0.5),
		trendBars(250, 300, -0.5),
		trendBars(250, 100, 0),
		trendBars(400, 50, 0.2),
	}
	for i, bars := range series {
		for _, side := range []types.Side{types.SideLong, types.SideShort} {
			check := SwingScore(bars, side)
			if check.Score < 0 || check.Score > 8 {
				t.Errorf("series %d %s: score %d out of [0,8]", i, side, check.Score)
			}
			if len(check.Conditions) != check.Score {
				t.Errorf("series %d %s: %d conditions for score %d", i, side, len(check.Conditions), check.Score)
			}
			if check.Side != side {
				t.Errorf("series %d: side = %s, want %s", i, check.Side, side)
			}
		}
	}
}

func TestSwingScoreUptrendFavorsLong(t *testing.T) {
	bars := trendBars(250, 100, 0.6)
	long := SwingScore(bars, types.SideLong)
	short := SwingScore(bars, types.SideShort)

	if long.Score <= short.Score {
		t.Errorf("uptrend: long %d should beat short %d", long.Score, short.Score)
	}
	wantTrend := "trend: price > EMA50 > EMA200"
	if !contains(long.Conditions, wantTrend) {
		t.Errorf("uptrend long missing %q, got %v", wantTrend, long.Conditions)
	}
	if contains(short.Conditions, "trend: price < EMA50 < EMA200") {
		t.Error("uptrend short should not satisfy the downtrend condition")
	}
	if !contains(long.Conditions, "MACD above signal") {
		t.Errorf("uptrend long missing MACD condition, got %v", long.Conditions)
	}
	if !contains(long.Conditions, "volume above 20-bar average") {
		t.Errorf("rising volume should satisfy the volume condition, got %v", long.Conditions)
	}
}

func TestSwingScoreDowntrendFavorsShort(t *testing.T) {
	bars := trendBars(250, 300, -0.6)
	long := SwingScore(bars, types.SideLong)
	short := SwingScore(bars, types.SideShort)

	if short.Score <= long.Score {
		t.Errorf("downtrend: short %d should beat long %d", short.Score, long.Score)
	}
	if !contains(short.Conditions, "trend: price < EMA50 < EMA200") {
		t.Errorf("downtrend short missing trend condition, got %v", short.Conditions)
	}
	if !contains(short.Conditions, "MACD below signal") {
		t.Errorf("downtrend short missing MACD condition, got %v", short.Conditions)
	}
}

func TestSwingScoreDeterministic(t *testing.T) {
	bars := trendBars(260, 120, 0.4)
	first := SwingScore(bars, types.SideLong)
	for i := 0; i < 10; i++ {
		if got := SwingScore(bars, types.SideLong); !reflect.DeepEqual(got, first) {
			t.Fatalf("result changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestSwingScoreConditionOrder(t *testing.T) {
	// Condition labels must appear in evaluation order: trend, band, ADX,
	// volume, RSI, MACD, extremum, EMA proximity.
	order := map[string]int{
		"trend":  0,
		"price":  1,
		"ADX":    2,
		"volume": 3,
		"RSI":    4,
		"MACD":   5,
		"near 2": 6, // near 20-bar high/low
		"near E": 7, // near EMA50
	}
	bars := trendBars(250, 100, 0.6)
	check := SwingScore(bars, types.SideLong)
	last := -1
	for _, cond := range check.Conditions {
		rank := -1
		for prefix, r := range order {
			if len(cond) >= len(prefix) && cond[:len(prefix)] == prefix {
				rank = r
				break
			}
		}
		if rank == -1 {
			t.Fatalf("unrecognized condition label %q", cond)
		}
		if rank <= last {
			t.Fatalf("conditions out of order: %v", check.Conditions)
		}
		last = rank
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
