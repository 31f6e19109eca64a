// internal/analysis/service/handler.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"provider-visibility/internal/analysis/normalize"
	"provider-visibility/internal/analysis/stats"
	"provider-visibility/internal/analysis/transport"
	apperrors "provider-visibility/internal/common/errors"
	"provider-visibility/internal/common/logger"
	"provider-visibility/internal/common/metrics"
	"provider-visibility/internal/common/validation"
)

const TaskType = "analyze-transcript"

// Analyzer performs the single upstream round trip. *transport.Client
// implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req *transport.Request) (interface{}, error)
}

type Handler struct {
	config    *Config
	client    Analyzer
	logger    logger.Logger
	validator *validation.Validator
}

func NewHandler(config *Config, client Analyzer, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		client:    client,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
		validator: validation.MustValidator(inputSchema),
	}
}

// Execute runs one analysis: validate, submit, reconcile, adapt. Every error
// it returns is a *errors.StandardError whose Message is safe to show users.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	metrics.AnalysisActive.Inc()
	defer metrics.AnalysisActive.Dec()

	output, err := h.execute(ctx, input)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusFailure
		metrics.AnalysisFailures.WithLabelValues(string(apperrors.AsStandardError(err).Code)).Inc()
	}
	metrics.AnalysisRequests.WithLabelValues(status).Inc()
	metrics.AnalysisDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	return output, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidRequestError("request body is required")
	}
	if err := h.validateInput(input); err != nil {
		return nil, err
	}

	req, err := h.buildRequest(input)
	if err != nil {
		return nil, err
	}

	log := h.logger.With(map[string]interface{}{
		"providerName": req.ProviderName,
		"aliasCount":   len(req.ProviderAliases),
	})
	log.Info("submitting transcript for analysis", map[string]interface{}{
		"transcriptLength": len(req.Text),
	})

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	raw, err := h.client.Analyze(ctx, req)
	if err != nil {
		stdErr := mapTransportError(err)
		log.WithError(err).Error("analysis request failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
		})
		return nil, stdErr
	}

	analysis, err := normalize.Reconcile(raw)
	if err != nil {
		return nil, h.malformed(log, err)
	}

	result := normalize.Adapt(analysis)
	comparison := stats.Compute(result)

	log.Info("analysis completed", map[string]interface{}{
		"storyId": result.StoryID,
		"pillars": len(result.Pillars),
		"models":  len(result.Models),
		"mode":    string(result.Metadata.Mode),
	})

	return &Output{
		Result:     result,
		Comparison: comparison,
	}, nil
}

func (h *Handler) validateInput(input *Input) error {
	result, err := h.validator.Validate(input)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *Handler) buildRequest(input *Input) (*transport.Request, error) {
	providerName := strings.TrimSpace(input.ProviderName)
	if providerName == "" {
		providerName = h.config.DefaultProviderName
	}

	aliases := input.ProviderAliases
	if len(aliases) == 0 {
		aliases = h.config.DefaultProviderAliases
	}

	req, err := transport.NewRequest(input.Text, providerName, aliases)
	if err != nil {
		if errors.Is(err, transport.ErrEmptyTranscript) {
			return nil, apperrors.NewEmptyTranscriptError()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return req, nil
}

// malformed logs the reconciler's diagnostic in full and returns the generic
// user-facing error.
func (h *Handler) malformed(log logger.Logger, err error) error {
	diagnostic := map[string]interface{}{"reason": err.Error()}

	var payloadErr *normalize.PayloadError
	if errors.As(err, &payloadErr) {
		diagnostic = payloadErr.Diagnostic()
		metrics.NormalizationFailures.WithLabelValues(payloadErr.FieldPath()).Inc()
	}

	log.Error("response payload could not be normalized", diagnostic)
	return apperrors.NewMalformedPayloadError(err, diagnostic)
}

func mapTransportError(err error) *apperrors.StandardError {
	var statusErr *transport.StatusError
	switch {
	case errors.Is(err, transport.ErrNotConfigured):
		return apperrors.NewAPINotConfiguredError()
	case errors.Is(err, transport.ErrAnalysisTimeout):
		return apperrors.NewAnalysisTimeoutError(err)
	case errors.As(err, &statusErr):
		return apperrors.NewAnalysisFailedError(statusErr.Error(), err)
	case errors.Is(err, transport.ErrInvalidResponseBody):
		return apperrors.NewMalformedPayloadError(err, map[string]interface{}{
			"kind":   "InvalidResponseBody",
			"reason": err.Error(),
		})
	case errors.Is(err, transport.ErrAnalysisFailed):
		return apperrors.NewAnalysisFailedError("Analysis failed: the analysis service could not be reached", err)
	default:
		return apperrors.NewInternalError(err)
	}
}
