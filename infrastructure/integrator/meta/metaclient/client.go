package metaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	metadomain "github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// Page é o resultado de uma chamada paginada: os registros da página e o
// cursor da próxima, vazio quando a plataforma omitiu "next".
type Page struct {
	Records    []json.RawMessage
	NextCursor string
}

type Client interface {
	FetchPage(ctx context.Context, accessToken, path string, params url.Values, cursor string) (*Page, error)
	FetchAll(ctx context.Context, accessToken, path string, params url.Values) ([]json.RawMessage, error)

	ListAdAccounts(ctx context.Context, accessToken string) ([]json.RawMessage, error)
	ListCampaigns(ctx context.Context, accessToken, accountExternalID string) ([]json.RawMessage, error)
	ListAdSets(ctx context.Context, accessToken, campaignExternalID string) ([]json.RawMessage, error)
	ListAds(ctx context.Context, accessToken, adSetExternalID string) ([]json.RawMessage, error)
	ListCampaignInsights(ctx context.Context, accessToken, campaignExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error)
	ListAdSetInsights(ctx context.Context, accessToken, adSetExternalID string, filters *domain.InsightFilters) ([]json.RawMessage, error)
}

type MetaClient struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Meta.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.Meta.RequestsPerSecond), cfg.Meta.RequestBurst),
	}
}

// FetchPage busca uma página de um recurso a partir de um cursor.
// Cursor vazio busca a primeira página; a chamada é reiniciável de qualquer cursor.
func (c *MetaClient) FetchPage(ctx context.Context, accessToken, path string, params url.Values, cursor string) (*Page, error) {
	if accessToken == "" {
		return nil, ErrMissingCredential
	}

	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	if c.cfg.Meta.PageSize > 0 && query.Get("limit") == "" {
		query.Set("limit", fmt.Sprintf("%d", c.cfg.Meta.PageSize))
	}
	if cursor != "" {
		query.Set("after", cursor)
	}
	query.Set("access_token", accessToken)

	body, err := c.doGet(ctx, fmt.Sprintf("%s/%s", c.cfg.Meta.URL, path), query)
	if err != nil {
		return nil, err
	}

	var envelope metadomain.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UpstreamProtocolError{Cause: err}
	}

	page := &Page{Records: envelope.Data}
	if envelope.Paging.HasNext() {
		page.NextCursor = envelope.Paging.Cursors.After
	}

	return page, nil
}

// FetchAll segue os cursores até a plataforma omitir "next" e devolve todos os
// registros. Um recurso sem registros devolve uma lista vazia, não um erro.
func (c *MetaClient) FetchAll(ctx context.Context, accessToken, path string, params url.Values) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0)
	cursor := ""

	for {
		page, err := c.FetchPage(ctx, accessToken, path, params, cursor)
		if err != nil {
			return nil, err
		}

		records = append(records, page.Records...)

		if page.NextCursor == "" {
			return records, nil
		}
		cursor = page.NextCursor
	}
}

// doGet executa a requisição com rate limiting e retry limitado com backoff
// exponencial para falhas transitórias (429 e 5xx). Erros 4xx com envelope da
// plataforma não são repetidos.
func (c *MetaClient) doGet(ctx context.Context, baseURL string, query url.Values) ([]byte, error) {
	fullURL := baseURL + "?" + query.Encode()

	var lastStatus int
	var lastBody []byte

	maxAttempts := c.cfg.Meta.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			logrus.WithError(err).Error("Erro ao criar a requisição")
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Cancelamento do contexto não é transitório
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			logrus.WithError(err).WithField("attempt", attempt).Warn("Erro de rede ao chamar a API do Meta")
			lastStatus = 0
			lastBody = nil

			if attempt < maxAttempts {
				if err := c.sleepBackoff(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &UpstreamUnavailableError{Status: 0, Body: err.Error(), Attempts: maxAttempts}
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, &UpstreamProtocolError{Cause: readErr}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastStatus = resp.StatusCode
			lastBody = body

			logrus.WithFields(logrus.Fields{
				"status":  resp.StatusCode,
				"attempt": attempt,
			}).Warn("Falha transitória na API do Meta")

			if attempt < maxAttempts {
				if err := c.sleepBackoff(ctx, attempt); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &UpstreamUnavailableError{Status: lastStatus, Body: string(lastBody), Attempts: maxAttempts}

		default:
			// 400/401/403: rejeição da plataforma, sem retry
			var errResp metadomain.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == 0 && errResp.Error.Message == "" {
				return nil, &UpstreamProtocolError{
					Cause: fmt.Errorf("status %d sem envelope de erro reconhecível", resp.StatusCode),
				}
			}

			// Throttling sinalizado via envelope também é transitório
			if errResp.IsRateLimited() {
				lastStatus = resp.StatusCode
				lastBody = body
				if attempt < maxAttempts {
					if err := c.sleepBackoff(ctx, attempt); err != nil {
						return nil, err
					}
					continue
				}
				return nil, &UpstreamUnavailableError{Status: lastStatus, Body: string(lastBody), Attempts: maxAttempts}
			}

			return nil, &UpstreamRejectedError{
				Status:       resp.StatusCode,
				Code:         errResp.Error.Code,
				Subcode:      errResp.Error.ErrorSubcode,
				ErrType:      errResp.Error.Type,
				Message:      errResp.Error.Message,
				TokenExpired: errResp.IsTokenExpired(),
			}
		}
	}

	return nil, &UpstreamUnavailableError{Status: lastStatus, Body: string(lastBody), Attempts: maxAttempts}
}

// sleepBackoff espera base * 2^(attempt-1), abortando se o contexto for cancelado
func (c *MetaClient) sleepBackoff(ctx context.Context, attempt int) error {
	delay := c.cfg.Meta.RetryBaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	delay = delay << (attempt - 1)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
