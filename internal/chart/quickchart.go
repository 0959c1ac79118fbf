// Package chart monta URLs de gráficos renderizados pelo QuickChart.
package chart

import (
	"encoding/json"
	"net/url"
	"strconv"
)

const quickChartBase = "https://quickchart.io/chart"

// Builder monta configurações Chart.js e as serializa na URL do
// QuickChart. A imagem é renderizada pelo serviço, sem estado local.
type Builder struct {
	width  int
	height int
}

func NewBuilder() *Builder {
	return &Builder{width: 600, height: 400}
}

// WeeklyEarningsURL devolve a URL de um gráfico de barras (ganhos) com a
// linha de lucro sobreposta, um ponto por dia.
func (b *Builder) WeeklyEarningsURL(labels []string, earnings, profits []float64) string {
	config := map[string]any{
		"type": "bar",
		"data": map[string]any{
			"labels": labels,
			"datasets": []map[string]any{
				{
					"label":           "Ganhos (R$)",
					"data":            earnings,
					"backgroundColor": "rgba(54, 162, 235, 0.7)",
				},
				{
					"label":       "Lucro (R$)",
					"data":        profits,
					"type":        "line",
					"borderColor": "rgba(75, 192, 112, 1)",
					"fill":        false,
				},
			},
		},
		"options": map[string]any{
			"plugins": map[string]any{
				"title": map[string]any{
					"display": true,
					"text":    "Últimos 7 dias",
				},
			},
		},
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return quickChartBase
	}

	q := url.Values{}
	q.Set("c", string(raw))
	q.Set("w", strconv.Itoa(b.width))
	q.Set("h", strconv.Itoa(b.height))
	q.Set("backgroundColor", "white")
	return quickChartBase + "?" + q.Encode()
}
