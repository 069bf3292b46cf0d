package comparison

import "sort"

// Weights веса критериев взвешенной оценки. Сумма весов равна 1.0.
type Weights struct {
	TCO      float64
	Delivery float64
	Payment  float64
	Tooling  float64
	MOQ      float64
}

// DefaultWeights веса по умолчанию: TCO 35%, поставка 25%, оплата 20%,
// оснастка 10%, MOQ 10%
var DefaultWeights = Weights{
	TCO:      0.35,
	Delivery: 0.25,
	Payment:  0.20,
	Tooling:  0.10,
	MOQ:      0.10,
}

// fallbackScore оценка для критериев без пригодных данных.
// Поставщик с нераспарсенным сроком поставки не исключается из рейтинга
// и не получает ноль — он получает фиксированную низкую оценку.
const fallbackScore = 20.0

// penaltyPerField штраф за каждое отсутствующее поле данных
const penaltyPerField = 10.0

// maxPenalty максимальный суммарный штраф
const maxPenalty = 100.0

// Scorer вычисляет нормализованные оценки поставщиков относительно когорты.
// Все методы чистые: скорер не хранит состояние между запусками.
type Scorer struct {
	weights Weights
}

// NewScorer создает скорер с заданными весами
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// DefaultScorer скорер с весами по умолчанию
func DefaultScorer() *Scorer {
	return NewScorer(DefaultWeights)
}

// ScoreAll вычисляет оценки всех поставщиков относительно когорты и
// возвращает НОВЫЙ список, отсортированный по убыванию итоговой оценки.
// Сортировка стабильная: при равных оценках сохраняется исходный порядок.
// Входной список не модифицируется.
func (s *Scorer) ScoreAll(items []ComparisonItem) []ComparisonItem {
	if len(items) == 0 {
		return nil
	}

	scored := make([]ComparisonItem, len(items))
	for i, item := range items {
		scores := CriteriaScores{
			TCOScore:           s.scoreTCO(item, items),
			DeliveryScore:      s.scoreDelivery(item, items),
			PaymentScore:       s.scorePayment(item, items),
			ToolingScore:       s.scoreTooling(item, items),
			MOQScore:           s.scoreMOQ(item, items),
			MissingDataPenalty: s.missingDataPenalty(item),
		}
		item.Scores = &scores
		item.TotalScore = s.weightedTotal(scores)
		scored[i] = item
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})

	for i := range scored {
		scored[i].FinalRanking = i + 1
	}

	return scored
}

// scoreTCO min-max нормализация совокупной стоимости владения в EUR:
// 100 у минимальной стоимости, 0 у максимальной. Когорта с одинаковыми
// значениями получает 100 у всех — явная ветка вместо деления на ноль.
func (s *Scorer) scoreTCO(item ComparisonItem, all []ComparisonItem) float64 {
	minTCO, maxTCO := all[0].TotalCostEUR, all[0].TotalCostEUR
	for _, it := range all {
		if it.TotalCostEUR < minTCO {
			minTCO = it.TotalCostEUR
		}
		if it.TotalCostEUR > maxTCO {
			maxTCO = it.TotalCostEUR
		}
	}
	return minMaxScore(item.TotalCostEUR, minTCO, maxTCO)
}

// scoreDelivery оценка срока поставки по распарсенным неделям.
// Поставщики без пригодного значения, как и когорта целиком без значений,
// получают fallbackScore.
func (s *Scorer) scoreDelivery(item ComparisonItem, all []ComparisonItem) float64 {
	values := make([]float64, 0, len(all))
	for _, it := range all {
		if it.LeadTimeWeeks != nil {
			values = append(values, *it.LeadTimeWeeks)
		}
	}
	if len(values) == 0 || item.LeadTimeWeeks == nil {
		return fallbackScore
	}
	min, max := minMax(values)
	return minMaxScore(*item.LeadTimeWeeks, min, max)
}

// scorePayment оценка условий оплаты по распарсенным дням отсрочки
func (s *Scorer) scorePayment(item ComparisonItem, all []ComparisonItem) float64 {
	values := make([]float64, 0, len(all))
	for _, it := range all {
		if it.PaymentDays != nil {
			values = append(values, float64(*it.PaymentDays))
		}
	}
	if len(values) == 0 || item.PaymentDays == nil {
		return fallbackScore
	}
	min, max := minMax(values)
	return minMaxScore(float64(*item.PaymentDays), min, max)
}

// scoreTooling оценка стоимости оснастки в EUR. Fallback не нужен:
// отсутствующая оснастка дает 0, а ноль — валидное сравнимое значение.
func (s *Scorer) scoreTooling(item ComparisonItem, all []ComparisonItem) float64 {
	values := make([]float64, 0, len(all))
	for _, it := range all {
		values = append(values, it.ToolingCostEUR)
	}
	min, max := minMax(values)
	return minMaxScore(item.ToolingCostEUR, min, max)
}

// scoreMOQ оценка минимального объема заказа. В нормализации участвуют
// только положительные значения; поставщики без валидного MOQ получают
// fallbackScore.
func (s *Scorer) scoreMOQ(item ComparisonItem, all []ComparisonItem) float64 {
	values := make([]float64, 0, len(all))
	for _, it := range all {
		if it.MOQ != nil && *it.MOQ > 0 {
			values = append(values, float64(*it.MOQ))
		}
	}
	if len(values) == 0 || item.MOQ == nil || *item.MOQ <= 0 {
		return fallbackScore
	}
	min, max := minMax(values)
	return minMaxScore(float64(*item.MOQ), min, max)
}

// missingDataPenalty штраф за неполноту данных: по 10 баллов за каждое
// из шести именованных условий, максимум 100
func (s *Scorer) missingDataPenalty(item ComparisonItem) float64 {
	conditions := []bool{
		missingText(item.LeadTime),
		missingText(item.PaymentTerms),
		missingText(item.DeliveryTerms),
		missingText(item.QuotationDate),
		missingMOQ(item),
		missingTooling(item),
	}

	penalty := 0.0
	for _, missing := range conditions {
		if missing {
			penalty += penaltyPerField
		}
	}
	if penalty > maxPenalty {
		penalty = maxPenalty
	}
	return penalty
}

// weightedTotal итоговая взвешенная оценка с учетом штрафа,
// ограниченная снизу нулем и округленная до двух знаков
func (s *Scorer) weightedTotal(scores CriteriaScores) float64 {
	base := scores.TCOScore*s.weights.TCO +
		scores.DeliveryScore*s.weights.Delivery +
		scores.PaymentScore*s.weights.Payment +
		scores.ToolingScore*s.weights.Tooling +
		scores.MOQScore*s.weights.MOQ

	penaltyFactor := 1 - scores.MissingDataPenalty/100
	total := base * penaltyFactor
	if total < 0 {
		total = 0
	}
	return round2(total)
}

// missingText текстовое поле считается отсутствующим, если оно пустое
// или равно сентинелу "N/A"
func missingText(text string) bool {
	return text == "" || text == NotAvailable
}

// missingMOQ MOQ считается отсутствующим при nil или нуле
func missingMOQ(item ComparisonItem) bool {
	return item.MOQ == nil || *item.MOQ == 0
}

// missingTooling нулевая стоимость оснастки в обеих валютах считается
// отсутствующими данными. Это сознательно сохраняет неразличимость
// "оснастка бесплатна" и "оснастка не извлечена" — по данным их
// разделить невозможно.
func missingTooling(item ComparisonItem) bool {
	return item.ToolingCostEUR == 0 && item.ToolingCostOriginal == 0
}

// minMaxScore 100*(1-(v-min)/(max-min)), пол 0, округление до двух знаков.
// Вырожденная когорта (max == min) дает 100 всем участникам.
func minMaxScore(value, min, max float64) float64 {
	if max == min {
		return 100.0
	}
	score := 100 * (1 - (value-min)/(max-min))
	if score < 0 {
		score = 0
	}
	return round2(score)
}

func minMax(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
