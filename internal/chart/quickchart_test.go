package chart

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklyEarningsURL(t *testing.T) {
	b := NewBuilder()

	raw := b.WeeklyEarningsURL(
		[]string{"seg", "ter", "qua"},
		[]float64{300, 400, 250},
		[]float64{200, 250, 150},
	)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "quickchart.io", parsed.Host)
	assert.Equal(t, "/chart", parsed.Path)

	config := parsed.Query().Get("c")
	require.NotEmpty(t, config)
	assert.True(t, strings.Contains(config, "\"bar\""))
	assert.Contains(t, config, "Ganhos (R$)")
	assert.Contains(t, config, "Lucro (R$)")
	assert.Contains(t, config, "seg")

	assert.Equal(t, "600", parsed.Query().Get("w"))
	assert.Equal(t, "400", parsed.Query().Get("h"))
}
