package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"buy":        ActionBuy,
		" SELL ":     ActionSell,
		"Watch":      ActionWatch,
		"HOLD":       ActionWatch,
		"":           ActionWatch,
		"strong buy": ActionWatch,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseAction(in), "input %q", in)
	}
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, SourceTechnical, ParseSource("technical"))
	assert.Equal(t, SourceNews, ParseSource(" NEWS "))
	assert.Equal(t, SourceMixed, ParseSource("Sentiment"))
	assert.Equal(t, SourceMixed, ParseSource(""))
}
