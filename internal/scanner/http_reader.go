package scanner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/proxy"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

const (
	defaultUserAgent    = "Sanca"
	defaultHTTPTimeout  = 10 * time.Second
	defaultMaxBodyBytes = 5 << 20
)

// HTTPReader 并发请求探测地址，并按需请求页面引用的脚本
type HTTPReader struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	links        *linkExtractor
	logger       *utils.Logger
}

// HTTPOption HTTP 读取器选项
type HTTPOption func(*HTTPReader)

// WithUserAgent 设置 User-Agent
func WithUserAgent(userAgent string) HTTPOption {
	return func(r *HTTPReader) {
		if userAgent != "" {
			r.userAgent = userAgent
		}
	}
}

// WithMaxBodyBytes 设置响应体最大读取字节数
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(r *HTTPReader) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// WithTimeout 设置单个请求的超时时间
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(r *HTTPReader) {
		if timeout > 0 {
			r.client.Timeout = timeout
		}
	}
}

// NewHTTPReader 创建 HTTP 读取器
// 扫描目标常使用自签名证书，因此不校验 TLS 证书
func NewHTTPReader(dialer proxy.ContextDialer, opts ...HTTPOption) *HTTPReader {
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		TLSHandshakeTimeout: defaultHTTPTimeout,
		MaxIdleConnsPerHost: 10,
	}

	r := &HTTPReader{
		client: &http.Client{
			Transport: transport,
			Timeout:   defaultHTTPTimeout,
		},
		userAgent:    defaultUserAgent,
		maxBodyBytes: defaultMaxBodyBytes,
		links:        newLinkExtractor(),
		logger:       utils.NewLogger("http-reader"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch 并发执行全部请求
//
// 结果顺序与请求顺序一致，每个主响应后面紧跟它引用的脚本（只跟进一层）。
// 失败的请求不产生结果，URL 重复的响应只保留第一个。
func (r *HTTPReader) Fetch(ctx context.Context, requests []model.ProbeRequest) []model.ProbeResponse {
	groups := make([][]model.ProbeResponse, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req model.ProbeRequest) {
			defer wg.Done()
			groups[i] = r.fetchPage(ctx, req)
		}(i, req)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var responses []model.ProbeResponse
	for _, group := range groups {
		for _, resp := range group {
			if seen[resp.URL] {
				continue
			}
			seen[resp.URL] = true
			responses = append(responses, resp)
		}
	}
	return responses
}

// fetchPage 请求主地址，再并发请求页面中发现的脚本和 Symfony profiler
func (r *HTTPReader) fetchPage(ctx context.Context, req model.ProbeRequest) []model.ProbeResponse {
	main, err := r.get(ctx, req.URL, model.KindMain)
	if err != nil {
		r.logger.Warn("请求 %s 失败: %v", req.URL, err)
		return nil
	}

	type followUp struct {
		url  string
		kind model.ResponseKind
	}
	var next []followUp
	if req.FetchLinkedScripts {
		for _, u := range r.links.Scripts(req.URL, main.Body) {
			next = append(next, followUp{url: u, kind: model.KindLinkedScript})
		}
		r.logger.Debug("%s 中发现 %d 个脚本", req.URL, len(next))
	}
	if u, ok := r.links.SymfonyProfiler(req.URL, main.Body); ok {
		r.logger.Info("%s 中发现 Symfony 调试工具栏", req.URL)
		next = append(next, followUp{url: u, kind: model.KindMain})
	}

	slots := make([]*model.ProbeResponse, len(next))
	var wg sync.WaitGroup
	for i, f := range next {
		wg.Add(1)
		go func(i int, f followUp) {
			defer wg.Done()
			resp, err := r.get(ctx, f.url, f.kind)
			if err != nil {
				r.logger.Warn("请求 %s 失败: %v", f.url, err)
				return
			}
			slots[i] = &resp
		}(i, f)
	}
	wg.Wait()

	responses := []model.ProbeResponse{main}
	for _, resp := range slots {
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
	return responses
}

func (r *HTTPReader) get(ctx context.Context, rawURL string, kind model.ResponseKind) (model.ProbeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.ProbeResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := r.client.Do(req)
	if err != nil {
		return model.ProbeResponse{}, err
	}
	defer resp.Body.Close()

	// 读取失败时响应体为空，响应本身仍然有效
	raw, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodyBytes))
	if err != nil {
		r.logger.Debug("读取 %s 响应体失败: %v", rawURL, err)
		raw = nil
	}

	return model.ProbeResponse{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    model.NewHeaders(resp.Header),
		Body:       DecodeBody(raw, resp.Header.Get("Content-Type")),
		Kind:       kind,
	}, nil
}
