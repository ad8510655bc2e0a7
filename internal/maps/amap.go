// README: Amap geocode/POI proxy client with Redis response caching.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"roam/internal/keys"
)

const amapBaseURL = "https://restapi.amap.com/v3"

// cacheTTL bounds how long a geocode/POI response is served from Redis.
const cacheTTL = time.Hour

// ErrMapKeyMissing is returned before any network attempt when the amap key is
// not configured.
var ErrMapKeyMissing = errors.New("amap key not configured")

// AmapService proxies Amap place-text (POI) and geocoding requests. Raw vendor
// JSON is passed through to the caller; the service adds only key handling and
// caching.
type AmapService struct {
	creds   credentialSource
	http    *http.Client
	cache   *redis.Client
	baseURL string
}

type credentialSource interface {
	Snapshot() keys.ApiKeys
}

// NewAmapService creates the proxy. cache may be nil to disable caching.
func NewAmapService(creds credentialSource, cache *redis.Client) *AmapService {
	return &AmapService{
		creds:   creds,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		baseURL: amapBaseURL,
	}
}

// SearchPOI runs a place-text search for keyword, optionally scoped to a city.
func (s *AmapService) SearchPOI(ctx context.Context, keyword, city string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("keywords", keyword)
	if city != "" {
		params.Set("city", city)
	}
	return s.fetch(ctx, "/place/text", params)
}

// Geocode resolves a free-text address to coordinates.
func (s *AmapService) Geocode(ctx context.Context, address string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("address", address)
	return s.fetch(ctx, "/geocode/geo", params)
}

func (s *AmapService) fetch(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	bundle := s.creds.Snapshot()
	if !bundle.AmapConfigured() {
		return nil, ErrMapKeyMissing
	}

	cacheKey := "amap:" + path + "?" + params.Encode()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			return json.RawMessage(cached), nil
		}
	}

	params.Set("key", bundle.Amap.Key)
	endpoint := s.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("amap: build request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amap: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amap: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("amap: read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("amap: malformed response")
	}

	// Amap reports failures in-band: {"status":"0","info":"..."}.
	var envelope struct {
		Status string `json:"status"`
		Info   string `json:"info"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Status == "0" {
		return nil, fmt.Errorf("amap: %s", strings.TrimSpace(envelope.Info))
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, body, cacheTTL).Err()
	}
	return json.RawMessage(body), nil
}
