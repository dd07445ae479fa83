package ai

import (
	"context"
	"strings"
)

// Метки тональности
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Источники классификации
const (
	SourceHeuristic = "heuristic"
	SourceExternal  = "external"
)

// Result представляет результат классификации тональности.
// Source не сериализуется: откат на эвристику невидим для вызывающего.
type Result struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Source    string  `json:"-"`
}

// Classifier интерфейс классификатора тональности
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Фиксированные наборы ключевых слов эвристики
var positiveWords = []string{
	"good", "great", "happy", "love", "excellent", "positive", "satisfied", "thanks", "thank you",
}

var negativeWords = []string{
	"bad", "angry", "hate", "terrible", "awful", "negative", "unhappy", "frustrated", "complaint",
}

// heuristicClassifier классификатор по ключевым словам
type heuristicClassifier struct{}

// NewHeuristicClassifier создает эвристический классификатор
func NewHeuristicClassifier() Classifier {
	return heuristicClassifier{}
}

// Classify считает вхождения позитивных и негативных ключевых слов
// как подстрок текста в нижнем регистре
func (heuristicClassifier) Classify(ctx context.Context, text string) (Result, error) {
	return heuristicSentiment(text), nil
}

func heuristicSentiment(text string) Result {
	t := strings.ToLower(text)

	var posHits, negHits int
	for _, w := range positiveWords {
		if strings.Contains(t, w) {
			posHits++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(t, w) {
			negHits++
		}
	}

	switch {
	case posHits > negHits:
		return Result{Sentiment: SentimentPositive, Score: 0.9, Source: SourceHeuristic}
	case negHits > posHits:
		return Result{Sentiment: SentimentNegative, Score: 0.9, Source: SourceHeuristic}
	default:
		return Result{Sentiment: SentimentNeutral, Score: 0.5, Source: SourceHeuristic}
	}
}

// normalizeLabel приводит метку внешнего классификатора к нашему словарю.
// Сопоставление по префиксу без учета регистра, score передается как есть.
func normalizeLabel(label string, score float64) (string, float64) {
	lab := strings.ToLower(strings.TrimSpace(label))
	if strings.HasPrefix(lab, "pos") {
		return SentimentPositive, score
	}
	if strings.HasPrefix(lab, "neg") {
		return SentimentNegative, score
	}
	return SentimentNeutral, score
}
