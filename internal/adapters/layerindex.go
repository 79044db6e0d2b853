package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"toaster/internal/shared"
	"toaster/internal/types"
)

// LayerIndexClient fetches branch/layer/layerBranch collections from a
// remote layer index API as JSON.
type LayerIndexClient struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

const defaultIndexTimeout = 30 * time.Second
const defaultIndexRetries = 3
const defaultIndexRetryDelay = 200 * time.Millisecond
const maxIndexRetryDelay = 2 * time.Second

func NewLayerIndexClient(timeoutSec int, retries int, retryDelayMs int) LayerIndexClient {
	timeout := defaultIndexTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if retries <= 0 {
		retries = defaultIndexRetries
	}
	retryDelay := defaultIndexRetryDelay
	if retryDelayMs > 0 {
		retryDelay = time.Duration(retryDelayMs) * time.Millisecond
	}
	return LayerIndexClient{
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
		Retries:    retries,
		RetryDelay: retryDelay,
	}
}

func (c LayerIndexClient) FetchBranches(ctx context.Context, apiURL string) ([]types.IndexBranch, error) {
	var out []types.IndexBranch
	if err := c.fetch(ctx, apiURL, "branches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c LayerIndexClient) FetchLayers(ctx context.Context, apiURL string) ([]types.IndexLayer, error) {
	var out []types.IndexLayer
	if err := c.fetch(ctx, apiURL, "layerItems", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c LayerIndexClient) FetchLayerBranches(ctx context.Context, apiURL string) ([]types.IndexLayerBranch, error) {
	var out []types.IndexLayerBranch
	if err := c.fetch(ctx, apiURL, "layerBranches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c LayerIndexClient) fetch(ctx context.Context, apiURL string, collection string, out any) error {
	if strings.TrimSpace(apiURL) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("layer index api url is empty")
	}
	url := strings.TrimRight(strings.TrimSpace(apiURL), "/") + "/" + collection + "/"

	var lastErr error
	for attempt := 0; attempt < c.Retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		retry, err := c.fetchOnce(ctx, url, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == c.Retries-1 {
			return err
		}
		log.Ctx(ctx).Debug().Str("url", url).Int("attempt", attempt+1).Msg("layer index fetch retrying")
		time.Sleep(c.retryDelay(attempt))
	}
	return lastErr
}

func (c LayerIndexClient) fetchOnce(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create layer index request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("layer index request failed").
			WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("layer index server error").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unexpected layer index response for %s", url)).
			WithCause(shared.HTTPStatusError(resp.StatusCode, url))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode layer index response").
			WithCause(err)
	}
	return false, nil
}

func (c LayerIndexClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

func (c LayerIndexClient) retryDelay(attempt int) time.Duration {
	delay := c.RetryDelay * time.Duration(1<<attempt)
	if delay > maxIndexRetryDelay {
		delay = maxIndexRetryDelay
	}
	return delay
}
