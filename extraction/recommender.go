package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"quoteserver/comparison"
)

// recommendationSystemPrompt системный промпт генерации рекомендации
const recommendationSystemPrompt = "You are a senior procurement analyst with 15+ years of experience. " +
	"Provide data-driven supplier recommendations with specific quantitative comparisons. " +
	"Respond with ONLY a JSON object (no markdown) with fields: recommended_supplier (string), " +
	"total_score (number), reasoning (string), key_advantages (array of strings), " +
	"considerations (array of strings), missing_data_impact (string or null)."

// RecommendationEngine формирует текстовую рекомендацию по итогам
// сравнения через LLM. Реализует comparison.RecommendationGenerator.
type RecommendationEngine struct {
	client *Client
	logger *slog.Logger
}

// NewRecommendationEngine создает движок рекомендаций поверх LLM-клиента
func NewRecommendationEngine(client *Client) *RecommendationEngine {
	return &RecommendationEngine{
		client: client,
		logger: slog.Default().With("component", "recommendation_engine"),
	}
}

// Generate формирует рекомендацию по отранжированной когорте.
// Пустая когорта дает фиксированную рекомендацию без обращения к модели.
// Пропущенные моделью поля подставляются из лидера рейтинга.
func (r *RecommendationEngine) Generate(ctx context.Context, items []comparison.ComparisonItem) (*comparison.Recommendation, error) {
	if len(items) == 0 {
		return &comparison.Recommendation{
			Reasoning:      "No suppliers available.",
			KeyAdvantages:  []string{},
			Considerations: []string{},
		}, nil
	}

	messages := []Message{
		{Role: "system", Content: recommendationSystemPrompt},
		{Role: "user", Content: buildRecommendationRequest(items)},
	}

	response, err := r.client.ChatCompletion(ctx, messages, 0.4)
	if err != nil {
		return nil, fmt.Errorf("recommendation request failed: %w", err)
	}

	var recommendation comparison.Recommendation
	if err := json.Unmarshal([]byte(cleanJSONResponse(response)), &recommendation); err != nil {
		return nil, fmt.Errorf("failed to parse recommendation response: %w", err)
	}

	top := items[0]
	if recommendation.RecommendedSupplier == "" {
		recommendation.RecommendedSupplier = top.Supplier
	}
	if recommendation.TotalScore == 0 {
		recommendation.TotalScore = top.TotalScore
	}
	if recommendation.KeyAdvantages == nil {
		recommendation.KeyAdvantages = []string{}
	}
	if recommendation.Considerations == nil {
		recommendation.Considerations = []string{}
	}

	r.logger.Info("recommendation generated",
		"supplier", recommendation.RecommendedSupplier,
		"score", recommendation.TotalScore,
		"suppliers_compared", len(items),
	)

	return &recommendation, nil
}

// buildRecommendationRequest собирает пользовательский промпт с данными
// сравнения для модели
func buildRecommendationRequest(items []comparison.ComparisonItem) string {
	return fmt.Sprintf(`Analyze the supplier comparison data and recommend the supplier with the highest total score.

%s

Provide:
1. Detailed reasoning (400-600 words) comparing the recommended supplier against each competitor with specific metrics (cost differences in EUR, delivery times, payment terms, tooling costs, score differences)
2. 4-6 key advantages with specific metrics
3. 3-5 considerations or trade-offs
4. Note any missing data impact if applicable

Be specific with numbers, percentages, EUR amounts, and timeframes. Use professional procurement terminology.`,
		buildComparisonContext(items))
}

// buildComparisonContext компактное текстовое представление когорты
// для контекста модели
func buildComparisonContext(items []comparison.ComparisonItem) string {
	var sb strings.Builder
	sb.WriteString("SUPPLIER COMPARISON DATA:\n\n")
	sb.WriteString(strings.Repeat("=", 80))

	for idx, item := range items {
		scores := item.Scores
		if scores == nil {
			scores = &comparison.CriteriaScores{}
		}
		ranking := item.Ranking
		if ranking == 0 {
			ranking = idx + 1
		}

		sb.WriteString(fmt.Sprintf("\n\nSupplier %d: %s (Rank: %d, Score: %.1f/100)\n",
			idx+1, item.Supplier, ranking, item.TotalScore))
		sb.WriteString(fmt.Sprintf("  TCO: €%.2f | Tooling: €%.2f | Avg Unit: €%.2f\n",
			item.TotalCostEUR, item.ToolingCostEUR, item.UnitCostAvgEUR))
		sb.WriteString(fmt.Sprintf("  Scores: TCO %.1f | Delivery %.1f | Payment %.1f | Tooling %.1f | MOQ %.1f\n",
			scores.TCOScore, scores.DeliveryScore, scores.PaymentScore, scores.ToolingScore, scores.MOQScore))
		sb.WriteString(fmt.Sprintf("  Lead Time: %s (%s weeks) | Payment: %s (%s days) | MOQ: %s",
			item.LeadTime, floatValueOrNA(item.LeadTimeWeeks),
			item.PaymentTerms, intValueOrNA(item.PaymentDays),
			intValueOrNA(item.MOQ)))
	}

	return sb.String()
}

func floatValueOrNA(v *float64) string {
	if v == nil {
		return comparison.NotAvailable
	}
	return fmt.Sprintf("%.1f", *v)
}

func intValueOrNA(v *int) string {
	if v == nil {
		return comparison.NotAvailable
	}
	return fmt.Sprintf("%d", *v)
}
