package cvedb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

// DefaultNVDBaseURL NVD CVE API 2.0 地址
const DefaultNVDBaseURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"

// NVD 公开接口限制每 30 秒 5 次请求，使用 API key 时为 50 次
const (
	nvdWindow          = 30 * time.Second
	nvdRequests        = 5
	nvdRequestsWithKey = 50
)

// NVDFetcher 通过 NVD 接口按 CPE 查询漏洞
type NVDFetcher struct {
	baseURL    string
	userAgent  string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      CacheManager
	logger     *utils.Logger
}

// FetcherOption NVDFetcher 选项
type FetcherOption func(*NVDFetcher)

// WithBaseURL 设置接口地址
func WithBaseURL(baseURL string) FetcherOption {
	return func(f *NVDFetcher) {
		if baseURL != "" {
			f.baseURL = baseURL
		}
	}
}

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *NVDFetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithUserAgent 设置 User-Agent
func WithUserAgent(userAgent string) FetcherOption {
	return func(f *NVDFetcher) {
		if userAgent != "" {
			f.userAgent = userAgent
		}
	}
}

// WithAPIKey 设置 NVD API key，同时放宽请求频率限制
func WithAPIKey(apiKey string) FetcherOption {
	return func(f *NVDFetcher) {
		if apiKey == "" {
			return
		}
		f.apiKey = apiKey
		f.limiter = rate.NewLimiter(rate.Every(nvdWindow/nvdRequestsWithKey), nvdRequestsWithKey)
	}
}

// WithRateLimiter 替换默认的请求频率限制
func WithRateLimiter(limiter *rate.Limiter) FetcherOption {
	return func(f *NVDFetcher) {
		if limiter != nil {
			f.limiter = limiter
		}
	}
}

// NewNVDFetcher 创建漏洞查询器，cache 为 nil 时每次都请求接口
func NewNVDFetcher(cache CacheManager, opts ...FetcherOption) *NVDFetcher {
	f := &NVDFetcher{
		baseURL:   DefaultNVDBaseURL,
		userAgent: "Sanca",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		limiter: rate.NewLimiter(rate.Every(nvdWindow/nvdRequests), nvdRequests),
		cache:   cache,
		logger:  utils.NewLogger("nvd-fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CompleteFindings 依次为每个识别结果补充漏洞，优先使用缓存
// 查询失败只记录日志，对应的识别结果保持不变
func (f *NVDFetcher) CompleteFindings(ctx context.Context, findings []model.Finding) {
	for i := range findings {
		if ctx.Err() != nil {
			return
		}

		finding := &findings[i]
		if f.cache != nil && f.cache.CompleteFinding(finding) {
			f.logger.Debug("%s %s 使用缓存的漏洞数据", finding.Technology, finding.Version)
			continue
		}
		f.fetchVulns(ctx, finding)
	}
}

func (f *NVDFetcher) fetchVulns(ctx context.Context, finding *model.Finding) {
	part, vendor, product := finding.Technology.CPE()
	if vendor == "" || product == "" || finding.Version == "" {
		f.logger.Debug("%s 没有 CPE 或版本，跳过漏洞查询", finding.Technology)
		return
	}

	cves, err := f.FetchCVEs(ctx, CPEName(part, vendor, product, finding.Version))
	if err != nil {
		f.logger.Error("查询 %s %s 的漏洞失败: %v", finding.Technology, finding.Version, err)
		return
	}

	for _, cve := range cves {
		// 0 分表示尚未分析
		if cve.BaseScore() > 0 {
			finding.AddVulnerability(cve)
		}
	}
	f.logger.Info("%s %s 共 %d 个漏洞", finding.Technology, finding.Version, len(finding.Vulnerabilities))

	if f.cache != nil {
		f.cache.Store(finding.Vulnerabilities, finding.Technology, finding.Version)
	}
}

// CPEName 生成 CPE 2.3 名称，例如 cpe:2.3:a:nginx:nginx:1.22.0
func CPEName(part, vendor, product, version string) string {
	return fmt.Sprintf("cpe:2.3:%s:%s:%s:%s", part, vendor, product, version)
}

// FetchCVEs 查询 CPE 对应的全部 CVE，不包含已拒绝的条目
func (f *NVDFetcher) FetchCVEs(ctx context.Context, cpeName string) ([]model.CVE, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?noRejected&cpeName=%s", f.baseURL, cpeName)
	f.logger.Debug("请求URL: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("apiKey", f.apiKey)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API返回错误: %s", resp.Status)
	}

	var nvdResponse NVDResponse
	if err := json.Unmarshal(body, &nvdResponse); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}

	cves := make([]model.CVE, 0, len(nvdResponse.Vulnerabilities))
	for _, vuln := range nvdResponse.Vulnerabilities {
		cves = append(cves, vuln.CVE)
	}
	return cves, nil
}
