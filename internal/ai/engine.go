package ai

import (
	"context"
	"sync"

	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// Engine предоставляет операции текстовой аналитики. Классификатор
// выбирается конфигурацией при старте процесса и инициализируется
// лениво ровно один раз на процесс.
type Engine struct {
	cfg  Config
	log  *logger.Logger
	once sync.Once
	clf  Classifier
}

// NewEngine создает движок текстовой аналитики
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: log,
	}
}

// classifier возвращает мемоизированный классификатор
func (e *Engine) classifier() Classifier {
	e.once.Do(func() {
		if e.cfg.UseExternal && e.cfg.ExternalURL != "" {
			e.log.Info("Using external sentiment classifier: %s", e.cfg.ExternalURL)
			e.clf = NewExternalClassifier(NewInferenceClient(e.cfg, e.log), e.log)
			return
		}

		if e.cfg.UseExternal {
			e.log.Warn("External sentiment classifier enabled but no URL configured, using heuristic")
		}
		e.clf = NewHeuristicClassifier()
	})

	return e.clf
}

// ClassifySentiment классифицирует тональность текста. Отказ внешнего
// классификатора поглощается откатом на эвристику и никогда не виден
// вызывающему.
func (e *Engine) ClassifySentiment(ctx context.Context, text string) Result {
	result, err := e.classifier().Classify(ctx, text)
	if err != nil {
		e.log.Warnw("External sentiment classifier unavailable, falling back to heuristic", "error", err)
		return heuristicSentiment(text)
	}

	return result
}

// SuggestSubject предлагает тему письма по его телу
func (e *Engine) SuggestSubject(body string) string {
	return CompressToSubject(body)
}
