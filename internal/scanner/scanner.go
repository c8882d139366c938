// Package scanner 负责发送探测请求并把响应交给检查器
package scanner

import (
	"context"
	"fmt"
	"time"

	"Sanca/internal/checker"
	"Sanca/internal/model"
	"Sanca/internal/planner"
	"Sanca/internal/utils"
)

// Enricher 为识别结果补充漏洞信息
type Enricher interface {
	CompleteFindings(ctx context.Context, findings []model.Finding)
}

// Scanner 扫描调度器
type Scanner struct {
	planner  *planner.Planner
	registry *checker.Registry
	http     *HTTPReader
	ports    *PortScanner
	enricher Enricher
	logger   *utils.Logger
}

// Option 调度器选项
type Option func(*Scanner)

// WithEnricher 设置漏洞补全，未设置时不查询漏洞
func WithEnricher(e Enricher) Option {
	return func(s *Scanner) {
		s.enricher = e
	}
}

// NewScanner 创建扫描调度器
func NewScanner(registry *checker.Registry, httpReader *HTTPReader, portScanner *PortScanner, opts ...Option) *Scanner {
	s := &Scanner{
		planner:  planner.NewPlanner(),
		registry: registry,
		http:     httpReader,
		ports:    portScanner,
		logger:   utils.NewLogger("scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan 按选项依次扫描全部目标
// 单个目标失败只记录日志，不影响其他目标
func (s *Scanner) Scan(ctx context.Context, opts model.ScanOptions) ([]model.ScanResult, error) {
	switch opts.ScanType {
	case model.ScanHTTP:
		var results []model.ScanResult
		for _, target := range opts.URLs {
			if ctx.Err() != nil {
				break
			}
			result, err := s.ScanHTTP(ctx, target, opts.Technologies)
			if err != nil {
				s.logger.Error("扫描 %s 失败: %v", target, err)
				continue
			}
			results = append(results, result)
		}
		return results, nil

	case model.ScanTCP:
		var ports []int
		if opts.PortRange != "" {
			var err error
			if ports, err = ParsePortRange(opts.PortRange); err != nil {
				return nil, err
			}
		}
		result, err := s.ScanTCP(ctx, opts.Host, ports, opts.Technologies)
		if err != nil {
			return nil, err
		}
		return []model.ScanResult{result}, nil
	}

	return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedScan, opts.ScanType)
}

// ScanHTTP 扫描一个 URL，techs 为空时识别全部支持 HTTP 的技术
func (s *Scanner) ScanHTTP(ctx context.Context, mainURL string, techs []model.Technology) (model.ScanResult, error) {
	start := time.Now()
	techs = filterTechnologies(techs, model.ScanHTTP)
	if len(techs) == 0 {
		s.logger.Warn("没有支持 HTTP 扫描的技术，跳过 %s", mainURL)
		return model.ScanResult{Target: mainURL, ScanType: model.ScanHTTP}, nil
	}

	requests, err := s.planner.Plan(mainURL, techs)
	if err != nil {
		return model.ScanResult{}, err
	}
	s.logger.Info("开始扫描 %s，共 %d 个请求", mainURL, len(requests))

	responses := s.http.Fetch(ctx, requests)
	s.logger.Debug("%s 收到 %d 个响应", mainURL, len(responses))

	var findings []model.Finding
	for _, c := range s.registry.HTTPCheckers(techs) {
		for _, f := range c.Check(responses) {
			findings = appendUnique(findings, f)
		}
	}

	s.enrich(ctx, findings)
	return model.ScanResult{
		Target:   mainURL,
		ScanType: model.ScanHTTP,
		Duration: time.Since(start),
		Findings: findings,
	}, nil
}

// ScanTCP 扫描主机的多个端口，ports 为空时使用技术的默认端口
func (s *Scanner) ScanTCP(ctx context.Context, host string, ports []int, techs []model.Technology) (model.ScanResult, error) {
	if host == "" {
		return model.ScanResult{}, fmt.Errorf("TCP 扫描需要指定主机")
	}

	start := time.Now()
	techs = filterTechnologies(techs, model.ScanTCP)
	if len(techs) == 0 {
		s.logger.Warn("没有支持 TCP 扫描的技术，跳过 %s", host)
		return model.ScanResult{Target: host, ScanType: model.ScanTCP}, nil
	}
	if len(ports) == 0 {
		ports = model.DefaultTCPPorts(techs)
	}
	s.logger.Info("开始扫描 %s 的 %d 个端口", host, len(ports))

	open := s.ports.Scan(ctx, host, ports)
	checkers := s.registry.TCPCheckers(techs)

	var findings []model.Finding
	for _, port := range open {
		for _, c := range checkers {
			if f := c.Check([]string{port.Banner}); f != nil {
				findings = appendUnique(findings, *f)
			}
		}
	}

	s.enrich(ctx, findings)
	return model.ScanResult{
		Target:   host,
		ScanType: model.ScanTCP,
		Duration: time.Since(start),
		Ports:    open,
		Findings: findings,
	}, nil
}

func (s *Scanner) enrich(ctx context.Context, findings []model.Finding) {
	if s.enricher == nil || len(findings) == 0 {
		return
	}
	s.enricher.CompleteFindings(ctx, findings)
}

// filterTechnologies 保留支持该扫描类型的技术，为空时返回全部支持的技术
func filterTechnologies(techs []model.Technology, scanType model.ScanType) []model.Technology {
	if len(techs) == 0 {
		return model.TechnologiesFor(scanType)
	}
	var filtered []model.Technology
	for _, t := range techs {
		if t.SupportsScan(scanType) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func appendUnique(findings []model.Finding, f model.Finding) []model.Finding {
	for _, existing := range findings {
		if existing.SameAs(f) {
			return findings
		}
	}
	return append(findings, f)
}
