package entity

import "strings"

// Action is the trading bucket assigned to a ticker.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionWatch Action = "WATCH"
)

// ParseAction uppercases s and maps anything unknown to WATCH.
func ParseAction(s string) Action {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionBuy, ActionSell, ActionWatch:
		return a
	default:
		return ActionWatch
	}
}

const (
	SourceTechnical   = "Technical"
	SourceFundamental = "Fundamental"
	SourceNews        = "News"
	SourceMixed       = "Mixed"
	SourceHeuristic   = "heuristic"
)

// ParseSource matches s case-insensitively against the model sources; anything else is Mixed.
func ParseSource(s string) string {
	for _, known := range []string{SourceTechnical, SourceFundamental, SourceNews, SourceMixed} {
		if strings.EqualFold(strings.TrimSpace(s), known) {
			return known
		}
	}
	return SourceMixed
}

// Signal is the normalized classification returned for one ticker.
type Signal struct {
	Ticker     string  `json:"ticker"`
	Action     Action  `json:"action"`
	Reason     string  `json:"reason"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}
