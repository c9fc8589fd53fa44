package repository

import (
	"encoding/json"
	"fmt"

	"wealth-signals/internal/signals/dto"
)

// StrictSchemaReminder is appended to the first prompt on the retry attempt.
const StrictSchemaReminder = "\n\nIMPORTANT: Respond ONLY with a single JSON object and no additional commentary. " +
	`Follow this schema exactly: {"action": "BUY|SELL|WATCH", "reason": "<1-2 sentences>", "source": "Technical|Fundamental|News|Mixed", "confidence": <0-1 float> }`

// BuildSignalPrompt asks the model to classify ticker into BUY, SELL or WATCH
// from its indicators and the recent news digest, answering with JSON only.
func BuildSignalPrompt(ticker, exchange string, indicators dto.IndicatorSet, newsText string) string {
	metricsJSON, err := json.MarshalIndent(indicators.Metrics(), "", "  ")
	if err != nil {
		metricsJSON = []byte(fmt.Sprintf("%v", indicators.Metrics()))
	}

	promptTemplate := `
You are an expert equities analyst and quantitative researcher (quant + fundamental + news). For the stock %s (%s), analyze the provided structured metrics and recent news. Decide exactly ONE of the following actions: BUY, SELL, WATCH.

Output requirement (IMPORTANT): Respond ONLY with a single JSON object matching this schema:
{
  "action": "BUY|SELL|WATCH",
  "reason": "A 1-2 sentence concise explanation (mention the dominant driver among Technical/Fundamental/News).",
  "source": "Technical|Fundamental|News|Mixed",
  "confidence": 0.0
}

Use the Metrics JSON and Recent News Text below. Keep the reason very concise and factual. If you are uncertain or the signals contradict strongly, choose WATCH and set confidence <= 0.5. Metrics that are null are unavailable, not zero.

Metrics JSON:
%s

Recent News Text:
%s

Example valid output:
{"action":"BUY","reason":"RSI below 30 and price at lower 10%% of 52-week range, technically oversold; fundamentals neutral.","source":"Technical","confidence":0.72}

Now provide the JSON only.
`

	return fmt.Sprintf(promptTemplate, ticker, exchange, string(metricsJSON), newsText)
}

// BuildStrictSignalPrompt appends the schema reminder used for the retry attempt.
func BuildStrictSignalPrompt(prompt string) string {
	return prompt + StrictSchemaReminder
}
