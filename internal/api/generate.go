package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// GenerateOptions contains options for content generation
type GenerateOptions struct {
	Model             models.Model
	Temperature       float64
	MaxOutputTokens   int
	SystemInstruction string
}

type requestPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []requestPart `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []requestContent  `json:"contents"`
	SystemInstruction *requestContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// GenerateContent sends a single prompt to Gemini and returns the reply.
// Each call is independent: no earlier turns are sent.
func (c *GeminiClient) GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	model := c.GetModel()
	if opts != nil && opts.Model.Name != "" {
		model = opts.Model
	}

	payload, err := buildPayload(prompt, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := models.GenerateURL(c.baseURL, model)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set(models.HeaderAPIKey, c.apiKey)

	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID, "model", model.Name)
	log.Info("generate content", "prompt_len", len(prompt))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err, "duration", time.Since(start))
		if isTimeout(err) {
			return nil, apierrors.NewTimeoutError(err.Error())
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := errorFromBody(resp.StatusCode, endpoint, errorBody)
		log.Warn("request rejected", "status", resp.StatusCode, "error", apiErr, "duration", time.Since(start))
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("failed to read response", "error", err)
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, err)
	}

	output, err := parseResponse(body)
	if err != nil {
		log.Warn("unusable response", "error", err, "duration", time.Since(start))
		return nil, err
	}

	log.Info("generate content done",
		"duration", time.Since(start),
		"finish_reason", output.FinishReason(),
		"total_tokens", output.Usage.TotalTokens,
	)
	return output, nil
}

// buildPayload creates the JSON body for the generateContent request
func buildPayload(prompt string, opts *GenerateOptions) ([]byte, error) {
	req := generateRequest{
		Contents: []requestContent{
			{Role: "user", Parts: []requestPart{{Text: prompt}}},
		},
	}

	if opts != nil {
		if opts.SystemInstruction != "" {
			req.SystemInstruction = &requestContent{
				Parts: []requestPart{{Text: opts.SystemInstruction}},
			}
		}
		if opts.Temperature != 0 || opts.MaxOutputTokens != 0 {
			cfg := &generationConfig{MaxOutputTokens: opts.MaxOutputTokens}
			if opts.Temperature != 0 {
				temp := opts.Temperature
				cfg.Temperature = &temp
			}
			req.GenerationConfig = cfg
		}
	}

	return json.Marshal(req)
}

// errorFromBody maps a non-200 response onto a typed error using the error envelope
func errorFromBody(statusCode int, endpoint string, body []byte) error {
	message := ""
	apiStatus := ""
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Get(PathError).Exists() {
			message = parsed.Get(PathErrorMessage).String()
			apiStatus = parsed.Get(PathErrorStatus).String()
		}
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return apierrors.FromStatus(statusCode, endpoint, apiStatus, message, string(body))
}

// parseResponse parses a generateContent response body
func parseResponse(body []byte) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	if parsed.Get(PathError).Exists() {
		code := int(parsed.Get(PathErrorCode).Int())
		return nil, apierrors.FromStatus(code, "", parsed.Get(PathErrorStatus).String(),
			parsed.Get(PathErrorMessage).String(), string(body))
	}

	if reason := parsed.Get(PathBlockReason).String(); reason != "" {
		return nil, apierrors.NewBlockedError(reason)
	}

	candidateList := parsed.Get(PathCandidates)
	if !candidateList.IsArray() || len(candidateList.Array()) == 0 {
		return nil, apierrors.NewNoContentError("no candidates found", PathCandidates)
	}

	var candidates []models.Candidate
	candidateList.ForEach(func(key, value gjson.Result) bool {
		var text strings.Builder
		value.Get(PathCandPartsText).ForEach(func(_, part gjson.Result) bool {
			text.WriteString(part.String())
			return true
		})

		index := int(key.Int())
		if idx := value.Get(PathCandIndex); idx.Exists() {
			index = int(idx.Int())
		}

		candidates = append(candidates, models.Candidate{
			Index:        index,
			Text:         text.String(),
			FinishReason: value.Get(PathCandFinish).String(),
		})
		return true
	})

	output := &models.ModelOutput{
		Candidates:   candidates,
		ModelVersion: parsed.Get(PathModelVersion).String(),
		Usage: models.Usage{
			PromptTokens:    int(parsed.Get(PathUsagePrompt).Int()),
			CandidateTokens: int(parsed.Get(PathUsageCandidate).Int()),
			TotalTokens:     int(parsed.Get(PathUsageTotal).Int()),
		},
	}

	if output.Text() == "" {
		switch reason := output.FinishReason(); reason {
		case models.FinishReasonSafety, "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
			return nil, apierrors.NewBlockedError(reason)
		default:
			return nil, apierrors.NewNoContentError("candidate has no text", PathCandPartsText)
		}
	}

	return output, nil
}

// isTimeout reports whether a transport error was a timeout
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
