package metaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-dashboard-api/internal/config"
)

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		Meta: config.Meta{
			URL:               serverURL,
			RequestTimeout:    5 * time.Second,
			MaxAttempts:       3,
			RetryBaseDelay:    time.Millisecond,
			RequestsPerSecond: 1000,
			RequestBurst:      1000,
			PageSize:          10,
		},
	}
}

func TestFetchAll_SegueCursoresAteOFim(t *testing.T) {
	var calls int32

	pages := map[string]string{
		"": `{"data": [%s], "paging": {"cursors": {"after": "p2"}, "next": "https://next"}}`,
		"p2": `{"data": [%s], "paging": {"cursors": {"after": "p3"}, "next": "https://next"}}`,
		// Última página: o campo "next" é omitido
		"p3": `{"data": [%s], "paging": {"cursors": {"after": "p3"}}}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Equal(t, "token", r.URL.Query().Get("access_token"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		records := ""
		for i := 0; i < 10; i++ {
			if i > 0 {
				records += ","
			}
			records += fmt.Sprintf(`{"id": "%d"}`, i)
		}

		fmt.Fprintf(w, pages[r.URL.Query().Get("after")], records)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	records, err := client.FetchAll(context.Background(), "token", "act_1/campaigns", url.Values{})

	require.NoError(t, err)
	assert.Len(t, records, 30)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchPage_TokenAusenteFalhaAntesDaRede(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), "", "me/adaccounts", url.Values{}, "")

	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchPage_RetryAposFalhaTransitoria(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": "1"}], "paging": {"cursors": {}}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	page, err := client.FetchPage(context.Background(), "token", "act_1/campaigns", url.Values{}, "")

	require.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchPage_EsgotaTentativasTransitorias(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), "token", "act_1/campaigns", url.Values{}, "")

	require.Error(t, err)
	assert.True(t, IsUpstreamUnavailable(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var unavailable *UpstreamUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, http.StatusInternalServerError, unavailable.Status)
	assert.Equal(t, 3, unavailable.Attempts)
}

func TestFetchPage_RejeicaoDaPlataformaNaoTemRetry(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Error validating access token", "type": "OAuthException", "code": 190}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), "token", "me/adaccounts", url.Values{}, "")

	require.Error(t, err)
	assert.True(t, IsUpstreamRejected(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var rejected *UpstreamRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 190, rejected.Code)
	assert.True(t, rejected.TokenExpired)
}

func TestFetchPage_ThrottlingViaEnvelopeTambemTemRetry(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": {"message": "User request limit reached", "type": "OAuthException", "code": 17}}`)
			return
		}
		fmt.Fprint(w, `{"data": [], "paging": {"cursors": {}}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	page, err := client.FetchPage(context.Background(), "token", "act_1/campaigns", url.Values{}, "")

	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchPage_RespostaMalformada(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.FetchPage(context.Background(), "token", "act_1/campaigns", url.Values{}, "")

	require.Error(t, err)
	assert.True(t, IsUpstreamProtocolError(err))
}

func TestFetchPage_RecursoVazioNaoEhErro(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [], "paging": {"cursors": {}}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	records, err := client.FetchAll(context.Background(), "token", "act_1/campaigns", url.Values{})

	require.NoError(t, err)
	assert.Empty(t, records)
}
