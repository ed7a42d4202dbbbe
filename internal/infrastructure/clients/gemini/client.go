package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/pkg/config"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const responsePreviewLimit = 200

// jsonFencePattern locates the fenced ```json block the prompts mandate.
// The model API offers no structured-output guarantee, so extraction stays
// an explicit parsing step with its own error kind.
var jsonFencePattern = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// Client implements the analysis provider on top of the Gemini
// generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new Gemini client.
func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func imagePart(imageB64 string) part {
	return part{InlineData: &inlineData{MimeType: "image/png", Data: imageB64}}
}

// generateContent invokes the model and returns the raw response text.
func (c *Client) generateContent(ctx context.Context, operation string, parts []part) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordGeminiMetric(ctx, c.model, operation, 0, 0, err)
			return "", err
		}
		recordGeminiRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordGeminiMetric(ctx, c.model, operation, 0, time.Since(start), err)
		return "", apperrors.NewExternalError("gemini request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		recordGeminiMetric(ctx, c.model, operation, resp.StatusCode, time.Since(start), err)
		return "", apperrors.NewExternalError(fmt.Sprintf("gemini request failed with status %d", resp.StatusCode), nil)
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordGeminiMetric(ctx, c.model, operation, resp.StatusCode, time.Since(start), err)
		return "", apperrors.NewExternalError("failed to decode gemini response", err)
	}

	var text string
	for _, cand := range envelope.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				text = p.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		err := errors.New("missing response text")
		recordGeminiMetric(ctx, c.model, operation, resp.StatusCode, time.Since(start), err)
		return "", apperrors.NewExternalError("gemini response missing text", nil)
	}

	recordGeminiMetric(ctx, c.model, operation, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

// decodeFenced extracts the fenced JSON block from the response text and
// unmarshals it into v.
func decodeFenced(text string, v any) error {
	match := jsonFencePattern.FindStringSubmatch(text)
	if match == nil {
		return apperrors.NewParseError("could not find JSON content in response", preview(text), nil)
	}
	if err := json.Unmarshal([]byte(match[1]), v); err != nil {
		return apperrors.NewParseError("invalid JSON in model response", preview(text), err)
	}
	return nil
}

func preview(s string) string {
	if len(s) > responsePreviewLimit {
		return s[:responsePreviewLimit]
	}
	return s
}

// AnalyzeMealImage extracts a full nutritional report from a meal photo.
func (c *Client) AnalyzeMealImage(ctx context.Context, imageB64 string) (*entities.NutritionalReport, error) {
	text, err := c.generateContent(ctx, "analyze_meal_image", []part{
		{Text: mealAnalysisPrompt()},
		imagePart(imageB64),
	})
	if err != nil {
		return nil, err
	}

	var report entities.NutritionalReport
	if err := decodeFenced(text, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// AnalyzeDigestionImage classifies a stool photo.
func (c *Client) AnalyzeDigestionImage(ctx context.Context, imageB64 string) (*entities.DigestionAssessment, error) {
	text, err := c.generateContent(ctx, "analyze_digestion_image", []part{
		{Text: digestionImagePrompt()},
		imagePart(imageB64),
	})
	if err != nil {
		return nil, err
	}

	var assessment entities.DigestionAssessment
	if err := decodeFenced(text, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// AnalyzeDigestionData assesses manually entered stool characteristics.
func (c *Client) AnalyzeDigestionData(ctx context.Context, analysis entities.DigestionAnalysis) (*entities.DigestionAssessment, error) {
	text, err := c.generateContent(ctx, "analyze_digestion_data", []part{
		{Text: digestionDataPrompt(analysis)},
	})
	if err != nil {
		return nil, err
	}

	var assessment entities.DigestionAssessment
	if err := decodeFenced(text, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// GenerateCorrelations asks the model for cross-domain observations over a
// week of records. Any failure, parse failures included, degrades to the
// fixed fallback pair instead of propagating: this runs inside the weekly
// batch, where losing the whole summary is worse than a degraded one.
func (c *Client) GenerateCorrelations(
	ctx context.Context,
	water []entities.WaterIntakeRecord,
	meals []entities.MealRecord,
	digestions []entities.DigestionRecord,
) *entities.Correlations {
	prompt, err := correlationPrompt(water, meals, digestions)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build correlation prompt")
		return fallbackCorrelations()
	}

	text, err := c.generateContent(ctx, "generate_correlations", []part{{Text: prompt}})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to generate correlations")
		return fallbackCorrelations()
	}

	var correlations entities.Correlations
	if err := decodeFenced(text, &correlations); err != nil {
		log.Warn().Err(err).Msg("Failed to parse correlation response")
		return fallbackCorrelations()
	}
	return &correlations
}

const correlationFallbackMessage = "Unable to generate correlations due to analysis error"

func fallbackCorrelations() *entities.Correlations {
	return &entities.Correlations{
		WaterAndDigestion: []string{correlationFallbackMessage},
		DietAndDigestion:  []string{correlationFallbackMessage},
	}
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

type tokenBucket struct {
	tokens chan struct{}
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type geminiMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var geminiMetricsInit = false
var geminiMetricsState geminiMetrics

func ensureGeminiMetrics() {
	if geminiMetricsInit {
		return
	}
	meter := otel.Meter("github.com/nutrisnap/backend/gemini")

	requestCount, err := meter.Int64Counter(
		"ai.gemini.request.count",
		metric.WithDescription("Number of Gemini requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.gemini.request.duration",
		metric.WithDescription("Gemini request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.gemini.request.errors",
		metric.WithDescription("Number of Gemini request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"ai.gemini.rate_limit.wait",
		metric.WithDescription("Time spent waiting for the Gemini rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	geminiMetricsState = geminiMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	geminiMetricsInit = true
}

func recordGeminiMetric(ctx context.Context, model, operation string, statusCode int, duration time.Duration, err error) {
	ensureGeminiMetrics()
	if !geminiMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", model),
		attribute.String("ai.operation", operation),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	geminiMetricsState.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	geminiMetricsState.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		geminiMetricsState.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordGeminiRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	ensureGeminiMetrics()
	if !geminiMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", model),
	}
	geminiMetricsState.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attrs...))
}
