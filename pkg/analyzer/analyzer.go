package analyzer

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/cache"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/httpx"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/prometheus"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

// Analyzer turns page content into verdicts via one remote classifier call.
// It never returns an error for analysis paths: every failure resolves to a
// deterministic fallback verdict.
type Analyzer struct {
	logger      *logrus.Logger
	client      providers.Client
	providerCfg *providers.Config
	breaker     httpx.CircuitBreaker
	cache       *cache.VerdictCache
	timeout     time.Duration
}

func NewAnalyzer(
	logger *logrus.Logger,
	client providers.Client,
	providerCfg *providers.Config,
	breaker httpx.CircuitBreaker,
	verdictCache *cache.VerdictCache,
	timeout time.Duration,
) *Analyzer {
	return &Analyzer{
		logger:      logger,
		client:      client,
		providerCfg: providerCfg,
		breaker:     breaker,
		cache:       verdictCache,
		timeout:     timeout,
	}
}

// Analyze classifies one content item. Stateless: persisting flagged results
// is the caller's decision.
func (a *Analyzer) Analyze(ctx context.Context, content string) *verdict.Verdict {
	if v, ok := a.cache.Get(ctx, content); ok {
		return v
	}

	resp, err := a.ask(ctx, buildContentPrompt(content))
	if err != nil {
		return a.fallback(err, "", "content")
	}

	v, err := Normalize(resp.Response)
	if err != nil {
		a.logger.WithField("response", resp.Response).Warn("classifier returned malformed verdict")
		prometheus.ClassifierFallbacksTotal.WithLabelValues(MalformedResponse.String()).Inc()
		return Fallback(MalformedResponse, "")
	}

	a.cache.Set(ctx, content, v)
	countVerdict(v, "content")
	return v
}

// AnalyzeImage classifies one image via the remote vision path. No caching:
// image payloads are too large and too unique to be worth hashing.
func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType, pageContext string) *verdict.Verdict {
	var resp *providers.CompletionResponse
	callErr := a.breaker.Execute(func() error {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		r, err := a.client.AskImage(callCtx, a.providerCfg, buildImagePrompt(pageContext), image, mimeType)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if callErr != nil {
		return a.fallback(callErr, "explicit_content", "image")
	}

	v, err := Normalize(resp.Response)
	if err != nil {
		prometheus.ClassifierFallbacksTotal.WithLabelValues(MalformedResponse.String()).Inc()
		return Fallback(MalformedResponse, "explicit_content")
	}
	countVerdict(v, "image")
	return v
}

func (a *Analyzer) ask(ctx context.Context, prompt string) (*providers.CompletionResponse, error) {
	var resp *providers.CompletionResponse
	err := a.breaker.Execute(func() error {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		r, err := a.client.Ask(callCtx, a.providerCfg, prompt)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *Analyzer) fallback(err error, categoryHint, source string) *verdict.Verdict {
	class := TransportError
	if errors.Is(err, providers.ErrRefused) {
		class = Refused
	}
	a.logger.WithError(err).WithField("failure_class", class.String()).
		Warn("classification failed, returning fallback verdict")
	prometheus.ClassifierFallbacksTotal.WithLabelValues(class.String()).Inc()

	v := Fallback(class, categoryHint)
	countVerdict(v, source)
	return v
}

func countVerdict(v *verdict.Verdict, source string) {
	prometheus.VerdictsTotal.WithLabelValues(v.Category, strconv.FormatBool(v.Safe), source).Inc()
}
