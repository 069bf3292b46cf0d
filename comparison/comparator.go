package comparison

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Comparator оркестратор сравнения котировок: строит таблицу сравнения,
// запускает скорер, расставляет ранги и запрашивает рекомендацию у
// внешнего коллаборатора.
type Comparator struct {
	converter   *Converter
	scorer      *Scorer
	recommender RecommendationGenerator
}

// NewComparator создает компаратор. recommender может быть nil —
// тогда рекомендация не запрашивается (офлайн-режим и тесты).
func NewComparator(converter *Converter, scorer *Scorer, recommender RecommendationGenerator) *Comparator {
	if converter == nil {
		converter = DefaultConverter()
	}
	if scorer == nil {
		scorer = DefaultScorer()
	}
	return &Comparator{
		converter:   converter,
		scorer:      scorer,
		recommender: recommender,
	}
}

// Compare выполняет полный цикл сравнения когорты котировок.
// Пустая когорта дает пустой Result без ошибки.
//
// Порядок шагов: построение строк таблицы (порядок входа сохраняется) →
// ранжирование по стоимости на исходном порядке → оценка когорты скорером
// (возвращает новый отсортированный список) → сводка → рекомендация.
func (c *Comparator) Compare(ctx context.Context, quotations []Quotation) (*Result, error) {
	if len(quotations) == 0 {
		return &Result{}, nil
	}

	items := make([]ComparisonItem, len(quotations))
	for i, quote := range quotations {
		items[i] = BuildComparisonItem(quote, c.converter)
	}

	// Ранжирование по стоимости считается на исходном списке до оценки,
	// чтобы скорер унес ранги в отсортированные копии
	assignCostRanking(items)

	scored := c.scorer.ScoreAll(items)

	for i := range scored {
		if scored[i].FinalRanking > 0 {
			scored[i].Ranking = scored[i].FinalRanking
		} else {
			scored[i].Ranking = scored[i].CostRanking
		}
	}

	result := &Result{
		ComparisonTable: scored,
		Summary:         buildSummary(scored),
		GeneratedAt:     time.Now().Format(time.RFC3339),
	}

	if c.recommender != nil {
		recommendation, err := c.recommender.Generate(ctx, scored)
		if err != nil {
			return nil, fmt.Errorf("failed to generate recommendation: %w", err)
		}
		result.Recommendation = recommendation
	}

	return result, nil
}

// assignCostRanking проставляет ранги по возрастанию стоимости владения
// в EUR. Сортировка стабильная по индексам, сами элементы не переставляются.
func assignCostRanking(items []ComparisonItem) {
	indexes := make([]int, len(items))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return items[indexes[a]].TotalCostEUR < items[indexes[b]].TotalCostEUR
	})
	for rank, idx := range indexes {
		items[idx].CostRanking = rank + 1
	}
}

// buildSummary сводка по отсортированной когорте
func buildSummary(scored []ComparisonItem) *Summary {
	if len(scored) == 0 {
		return nil
	}

	lowest, highest := scored[0].TotalCostEUR, scored[0].TotalCostEUR
	for _, item := range scored {
		if item.TotalCostEUR < lowest {
			lowest = item.TotalCostEUR
		}
		if item.TotalCostEUR > highest {
			highest = item.TotalCostEUR
		}
	}

	return &Summary{
		TotalSuppliers: len(scored),
		LowestCost:     lowest,
		HighestCost:    highest,
		CostRange:      highest - lowest,
		BestSupplier:   scored[0].Supplier,
		BestScore:      scored[0].TotalScore,
	}
}
