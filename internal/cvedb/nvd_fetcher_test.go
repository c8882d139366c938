package cvedb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"Sanca/internal/model"
)

func cveWithScore(id string, score float64) model.CVE {
	return model.CVE{
		ID:           id,
		Published:    "2023-01-15T10:30:45.000",
		VulnStatus:   "Analyzed",
		Descriptions: []model.Description{{Lang: "en", Value: "test " + id}},
		Metrics: model.Metrics{
			CvssMetricV31: []model.CVSSV3Metric{{
				Source:   "nvd@nist.gov",
				Type:     "Primary",
				CvssData: model.CVSSV3Data{Version: "3.1", BaseScore: score, BaseSeverity: "HIGH"},
			}},
		},
	}
}

// newNVDServer 返回固定漏洞列表的测试服务器，并记录请求次数和最后一次的 cpeName
func newNVDServer(t *testing.T, cves []model.CVE) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()

	var hits atomic.Int32
	var cpeName atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		cpeName.Store(r.URL.Query().Get("cpeName"))
		if _, ok := r.URL.Query()["noRejected"]; !ok {
			http.Error(w, "noRejected missing", http.StatusBadRequest)
			return
		}

		resp := NVDResponse{
			ResultsPerPage: len(cves),
			TotalResults:   len(cves),
			Format:         "NVD_CVE",
			Version:        "2.0",
		}
		for _, cve := range cves {
			resp.Vulnerabilities = append(resp.Vulnerabilities, NVDVulnerability{CVE: cve})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server, &hits, &cpeName
}

func newTestFetcher(cache CacheManager, baseURL string) *NVDFetcher {
	return NewNVDFetcher(cache,
		WithBaseURL(baseURL),
		WithRateLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
}

func TestNewNVDFetcher(t *testing.T) {
	fetcher := NewNVDFetcher(nil)
	assert.Equal(t, DefaultNVDBaseURL, fetcher.baseURL)
	assert.Equal(t, "Sanca", fetcher.userAgent)
	assert.NotNil(t, fetcher.httpClient)
	assert.NotNil(t, fetcher.limiter)
	assert.Nil(t, fetcher.cache)

	custom := &http.Client{}
	fetcher = NewNVDFetcher(nil, WithUserAgent("agent"), WithHTTPClient(custom), WithAPIKey("secret"))
	assert.Equal(t, "agent", fetcher.userAgent)
	assert.Same(t, custom, fetcher.httpClient)
	assert.Equal(t, "secret", fetcher.apiKey)
}

func TestCPEName(t *testing.T) {
	assert.Equal(t, "cpe:2.3:a:nginx:nginx:1.22.0", CPEName("a", "nginx", "nginx", "1.22.0"))
}

func TestCompleteFindingsFiltersScores(t *testing.T) {
	server, hits, cpeName := newNVDServer(t, []model.CVE{
		cveWithScore("CVE-2023-0001", 7.5),
		cveWithScore("CVE-2023-0002", 0),
		cveWithScore("CVE-2023-0001", 7.5),
		cveWithScore("CVE-2023-0003", 5.3),
	})

	findings := []model.Finding{
		{Technology: model.Nginx, Version: "1.22.0", Vulnerabilities: []model.CVE{}},
		{Technology: model.Nginx},
		{Technology: model.WPPClassicEditor, Version: "1.6.3"},
	}
	newTestFetcher(nil, server.URL).CompleteFindings(context.Background(), findings)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "cpe:2.3:a:nginx:nginx:1.22.0", cpeName.Load())

	require.Len(t, findings[0].Vulnerabilities, 2)
	assert.Equal(t, "CVE-2023-0001", findings[0].Vulnerabilities[0].ID)
	assert.Equal(t, "CVE-2023-0003", findings[0].Vulnerabilities[1].ID)
	assert.Empty(t, findings[1].Vulnerabilities)
	assert.Empty(t, findings[2].Vulnerabilities)
}

func TestCompleteFindingsWritesThroughCache(t *testing.T) {
	server, hits, _ := newNVDServer(t, []model.CVE{cveWithScore("CVE-2021-23017", 7.7)})
	cache := NewFileCache(t.TempDir())
	fetcher := newTestFetcher(cache, server.URL)

	first := []model.Finding{{Technology: model.Nginx, Version: "1.20.0"}}
	fetcher.CompleteFindings(context.Background(), first)
	require.Len(t, first[0].Vulnerabilities, 1)
	assert.Equal(t, int32(1), hits.Load())

	cached, ok := cache.Read(model.Nginx, "1.20.0")
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, "CVE-2021-23017", cached[0].ID)

	// 第二次命中缓存，不再请求接口
	second := []model.Finding{{Technology: model.Nginx, Version: "1.20.0"}}
	fetcher.CompleteFindings(context.Background(), second)
	assert.Equal(t, int32(1), hits.Load())
	require.Len(t, second[0].Vulnerabilities, 1)
	assert.Equal(t, first[0].Vulnerabilities[0].ID, second[0].Vulnerabilities[0].ID)
}

func TestCompleteFindingsErrorsLeaveFindingUntouched(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}},
		{"json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cache := NewFileCache(t.TempDir())
			findings := []model.Finding{{Technology: model.PHP, Version: "8.1.2"}}
			newTestFetcher(cache, server.URL).CompleteFindings(context.Background(), findings)

			assert.Empty(t, findings[0].Vulnerabilities)
			_, ok := cache.Read(model.PHP, "8.1.2")
			assert.False(t, ok)
		})
	}
}

func TestFetchCVEsSendsHeaders(t *testing.T) {
	var userAgent, accept, apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		apiKey = r.Header.Get("apiKey")
		w.Write([]byte(`{"resultsPerPage":0,"startIndex":0,"totalResults":0,"vulnerabilities":[]}`))
	}))
	defer server.Close()

	fetcher := NewNVDFetcher(nil,
		WithBaseURL(server.URL),
		WithUserAgent("Sanca-test"),
		WithAPIKey("key-123"),
		WithRateLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	cves, err := fetcher.FetchCVEs(context.Background(), CPEName("a", "php", "php", "8.1.2"))
	require.NoError(t, err)
	assert.Empty(t, cves)
	assert.Equal(t, "Sanca-test", userAgent)
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "key-123", apiKey)
}

func TestCompleteFindingsCancelled(t *testing.T) {
	server, hits, _ := newNVDServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	findings := []model.Finding{{Technology: model.Nginx, Version: "1.22.0"}}
	newTestFetcher(nil, server.URL).CompleteFindings(ctx, findings)
	assert.Equal(t, int32(0), hits.Load())
}
