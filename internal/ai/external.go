package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Dhoini/Customer-microservice/internal/domain"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
)

// Config конфигурация движка текстовой аналитики
type Config struct {
	UseExternal    bool
	ExternalURL    string
	APIKey         string
	TimeoutSeconds int
}

// InferenceClient представляет клиент внешнего sentiment-inference API
type InferenceClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewInferenceClient создает новый клиент внешнего классификатора
func NewInferenceClient(cfg Config, log *logger.Logger) *InferenceClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &InferenceClient{
		baseURL:    cfg.ExternalURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// inferenceRequest тело запроса к inference API
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// inferenceCandidate один вариант ответа классификатора
type inferenceCandidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify отправляет текст внешнему классификатору и возвращает сырые
// метку и score первого кандидата
func (c *InferenceClient) Classify(ctx context.Context, text string) (string, float64, error) {
	c.log.Debug("Calling external sentiment classifier")

	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build inference request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, domain.NewExternalServiceError("sentiment-inference", "request_failed", "request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, domain.NewExternalServiceError(
			"sentiment-inference",
			strconv.Itoa(resp.StatusCode),
			"unexpected response status",
			resp.StatusCode,
			nil,
		)
	}

	candidate, err := decodeCandidates(resp.Body)
	if err != nil {
		return "", 0, domain.NewExternalServiceError("sentiment-inference", "bad_response", "failed to decode response", resp.StatusCode, err)
	}

	return candidate.Label, candidate.Score, nil
}

// decodeCandidates разбирает ответ inference API: либо плоский список
// кандидатов, либо список списков (формат HF pipeline)
func decodeCandidates(body io.Reader) (inferenceCandidate, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return inferenceCandidate{}, err
	}

	var flat []inferenceCandidate
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat[0], nil
	}

	var nested [][]inferenceCandidate
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0][0], nil
	}

	return inferenceCandidate{}, fmt.Errorf("no classification candidates in response")
}

// externalClassifier делегирует классификацию inference API
type externalClassifier struct {
	client *InferenceClient
	log    *logger.Logger
}

// NewExternalClassifier создает классификатор с внешним делегатом
func NewExternalClassifier(client *InferenceClient, log *logger.Logger) Classifier {
	return &externalClassifier{
		client: client,
		log:    log,
	}
}

// Classify возвращает нормализованный результат внешнего классификатора
func (c *externalClassifier) Classify(ctx context.Context, text string) (Result, error) {
	label, score, err := c.client.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}

	sentiment, normalized := normalizeLabel(label, score)
	return Result{Sentiment: sentiment, Score: normalized, Source: SourceExternal}, nil
}
