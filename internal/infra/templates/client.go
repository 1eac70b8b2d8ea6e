// Package templates supplies the dispute-letter template corpus: an embedded
// default set merged with templates fetched from a remote repository, cached
// for the process lifetime.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/resilience"
)

var tracer = otel.Tracer("templates")

// RepoClient fetches the letter-template listing from the remote template
// repository.
type RepoClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewRepoClient creates a new RepoClient.
func NewRepoClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *RepoClient {
	return &RepoClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// List fetches all templates with retry, circuit breaker, timeout and tracing.
func (c *RepoClient) List(ctx context.Context) ([]domain.LetterTemplate, error) {
	ctx, span := tracer.Start(ctx, "RepoClient.List")
	defer span.End()

	ctx, cancel := resilience.WithTimeout(ctx, c.cfg)
	defer cancel()

	var listing []domain.LetterTemplate

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/templates", c.baseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("template repository returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&listing)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return listing, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "templates", Err: err}
	}

	templates := result.([]domain.LetterTemplate)
	span.SetAttributes(attribute.Int("templates.count", len(templates)))
	return templates, nil
}
