package types

// PriceBar is a single OHLCV bar. Series passed around the engine are
// chronological and treated as read-only.
type PriceBar struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// IndicatorSet is the derived scalar snapshot at the latest bar. It is
// recomputed fresh on every call; nothing in the engine caches it.
type IndicatorSet struct {
	RSI14                float64
	EMA20, EMA50, EMA200 float64
	SMA20, SMA50, SMA200 float64
	BB                   struct{ Middle, Upper, Lower float64 }
	ADX14                float64
	PlusDI, MinusDI      float64
	MACDLine, MACDSignal float64
	Volatility20         float64
	VolumeAvg20          float64
}

// Fundamentals holds optional per-company scalars. Zero values mean
// "unknown" and score as neutral, never as a negative signal.
type Fundamentals struct {
	Name           string
	Sector         string
	PERatio        float64
	PriceToBook    float64
	ReturnOnEquity float64 // percent
	MarketCap      float64
	DividendYield  float64
}

// PivotLevels are classic floor-trader pivots from the prior session.
type PivotLevels struct {
	PP, R1, S1, R2, S2, R3, S3 float64
}

type Verdict string

const (
	VerdictStrongBuy Verdict = "STRONG_BUY"
	VerdictBuyHold   Verdict = "BUY_HOLD"
	VerdictWait      Verdict = "WAIT"
	VerdictAvoid     Verdict = "AVOID"
)

type Confidence string

const (
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceModerate Confidence = "MODERATE"
	ConfidenceLow      Confidence = "LOW"
)

// ScoreResult is the composite confidence score with its derived labels.
type ScoreResult struct {
	Score      int        `json:"score"`
	Verdict    Verdict    `json:"verdict"`
	Confidence Confidence `json:"confidence"`
}

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// SwingCheck is the result of the 8-point swing checklist for one side.
// Conditions preserves evaluation order; len(Conditions) == Score.
type SwingCheck struct {
	Side       Side     `json:"side"`
	Score      int      `json:"score"`
	Conditions []string `json:"conditions"`
}

// Report is the full structured advisory for one symbol. All message
// formatting happens in the telegram layer, never here.
type Report struct {
	Symbol       string       `json:"symbol"`
	LTP          float64      `json:"ltp"`
	PrevClose    float64      `json:"prev_close"`
	Trend        string       `json:"trend"`
	UpsidePct    float64      `json:"upside_pct"`
	Indicators   IndicatorSet `json:"indicators"`
	Fundamentals Fundamentals `json:"fundamentals"`
	Pivots       PivotLevels  `json:"pivots"`
	Result       ScoreResult  `json:"result"`
	GeneratedAt  int64        `json:"generated_at"`
}

// Quote is a point-in-time last traded price.
type Quote struct {
	Symbol string
	Price  float64
	Ts     int64
}

// ScanHit is one watchlist symbol that cleared a scan threshold.
type ScanHit struct {
	Symbol string
	Score  int
}

// NewsArticle is a scraped headline used only as LLM prompt context.
type NewsArticle struct {
	Source      string
	Title       string
	URL         string
	Summary     string
	PublishedAt string
}
