package dto

import "encoding/json"

// YahooChartResponse is the response of the Yahoo Finance chart API.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

// YahooQuoteSummaryResponse is the response of the Yahoo Finance quoteSummary API.
// Each module is kept raw and flattened by the repository.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *YahooError                  `json:"error"`
	} `json:"quoteSummary"`
}

// YahooError is the error object embedded in Yahoo responses.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
