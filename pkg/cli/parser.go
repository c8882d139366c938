// Package cli 命令行入口：解析参数、组装扫描组件并输出报告
package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Sanca/internal/checker"
	"Sanca/internal/config"
	"Sanca/internal/cvedb"
	"Sanca/internal/model"
	"Sanca/internal/scanner"
	"Sanca/internal/utils"
)

// flagBindings 命令行参数对应的配置键
var flagBindings = map[string]string{
	"scan-type":    "scan.type",
	"technologies": "scan.technologies",
	"threads":      "scan.threads",
	"proxy":        "scan.proxy",
	"user-agent":   "http.user_agent",
	"http-timeout": "http.timeout",
	"cache":        "cache.type",
	"cache-dir":    "cache.dir",
	"writer":       "output.format",
	"output":       "output.file",
	"log-level":    "log.level",
}

type rootOptions struct {
	configFile string
	urls       []string
	host       string
	ports      string
	noVulns    bool
}

// NewRootCommand 创建 sanca 根命令
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "sanca",
		Short: "识别目标使用的技术版本并查询已知漏洞",
		Example: `  sanca --url https://example.com
  sanca --url https://example.com --technologies nginx,php --writer json
  sanca --scan-type tcp --ip-hostname 192.168.1.10 --port 21,22,3306`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "配置文件路径 (默认查找 ./sanca.yaml 和 ./configs/sanca.yaml)")
	flags.StringArrayVarP(&opts.urls, "url", "u", nil, "HTTP 扫描目标，可重复指定")
	flags.StringVar(&opts.host, "ip-hostname", "", "TCP 扫描的主机名或IP")
	flags.StringVarP(&opts.ports, "port", "p", "", "TCP 端口 (如: 22,80,1000-1010 或 common)")
	flags.BoolVar(&opts.noVulns, "no-vulns", false, "不查询漏洞")
	flags.StringP("scan-type", "s", defaults["scan.type"].(string), "扫描类型 (tcp, http)")
	flags.StringSliceP("technologies", "t", nil, "要识别的技术，逗号分隔 (默认全部)")
	flags.Int("threads", defaults["scan.threads"].(int), "TCP 端口并发数")
	flags.String("proxy", "", "SOCKS5 代理 (如: socks5://127.0.0.1:1080)")
	flags.String("user-agent", defaults["http.user_agent"].(string), "HTTP 请求的 User-Agent")
	flags.Duration("http-timeout", 0, "HTTP 请求超时时间 (默认 10s)")
	flags.String("cache", defaults["cache.type"].(string), "漏洞缓存 (files, sqlite, none)")
	flags.String("cache-dir", "", "缓存目录 (默认可执行文件所在目录)")
	flags.StringP("writer", "w", defaults["output.format"].(string), "输出格式 (text, json, csv, yaml)")
	flags.StringP("output", "o", "", "输出文件 (默认标准输出)")
	flags.String("log-level", defaults["log.level"].(string), "日志级别 (debug, info, warn, error)")

	cmd.AddCommand(newTechnologiesCommand())
	return cmd
}

// Execute 运行命令行，参数或配置错误时以状态码 1 退出
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	loader := config.NewLoader(opts.configFile)
	for name, key := range flagBindings {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("绑定参数 --%s 失败: %w", name, err)
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if opts.noVulns {
		cfg.NVD.Enabled = false
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := utils.InitLogger(cfg.Log); err != nil {
		return err
	}

	scanOpts, err := buildScanOptions(cfg, opts)
	if err != nil {
		return err
	}

	writer, err := NewWriter(cfg.Output.Format)
	if err != nil {
		return err
	}

	s, closeFn, err := buildScanner(cfg, scanOpts.NoVulns)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := s.Scan(ctx, scanOpts)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), writer, cfg.Output.File, collectFindings(results))
}

func buildScanOptions(cfg *config.Config, opts *rootOptions) (model.ScanOptions, error) {
	scanType, err := model.ParseScanType(cfg.Scan.Type)
	if err != nil {
		return model.ScanOptions{}, err
	}

	techs, err := model.ParseTechnologies(cfg.Scan.Technologies)
	if err != nil {
		return model.ScanOptions{}, err
	}

	scanOpts := model.ScanOptions{
		URLs:         opts.urls,
		Host:         opts.host,
		PortRange:    opts.ports,
		ScanType:     scanType,
		Technologies: techs,
		NoVulns:      !cfg.NVD.Enabled,
	}

	switch scanType {
	case model.ScanHTTP:
		if len(scanOpts.URLs) == 0 {
			return scanOpts, errors.New("HTTP 扫描需要至少一个 --url")
		}
	case model.ScanTCP:
		if scanOpts.Host == "" {
			return scanOpts, errors.New("TCP 扫描需要指定 --ip-hostname")
		}
		if scanOpts.PortRange != "" {
			if _, err := scanner.ParsePortRange(scanOpts.PortRange); err != nil {
				return scanOpts, err
			}
		}
	}
	return scanOpts, nil
}

// buildScanner 按配置组装读取器、检查器和漏洞补全
func buildScanner(cfg *config.Config, noVulns bool) (*scanner.Scanner, func() error, error) {
	noop := func() error { return nil }

	dialer, err := scanner.NewDialer(cfg.Scan.Proxy, cfg.TCP.ConnectTimeout)
	if err != nil {
		return nil, noop, err
	}

	tcpReader := scanner.NewTCPReader(dialer, cfg.TCP.ReadTimeout)
	httpReader := scanner.NewHTTPReader(dialer,
		scanner.WithUserAgent(cfg.HTTP.UserAgent),
		scanner.WithTimeout(cfg.HTTP.Timeout),
		scanner.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	)
	portScanner := scanner.NewPortScanner(tcpReader, cfg.Scan.Threads, cfg.TCP.MaxBytes)

	var scanOpts []scanner.Option
	closeFn := noop
	if !noVulns {
		cache, closeCache, err := cvedb.NewCache(cfg.Cache)
		if err != nil {
			return nil, noop, err
		}
		closeFn = closeCache

		fetcherOpts := []cvedb.FetcherOption{
			cvedb.WithBaseURL(cfg.NVD.BaseURL),
			cvedb.WithUserAgent(cfg.HTTP.UserAgent),
			cvedb.WithHTTPClient(&http.Client{Timeout: cfg.NVD.Timeout}),
		}
		if cfg.NVD.APIKey != "" {
			fetcherOpts = append(fetcherOpts, cvedb.WithAPIKey(cfg.NVD.APIKey))
		}

		scanOpts = append(scanOpts, scanner.WithEnricher(cvedb.NewNVDFetcher(cache, fetcherOpts...)))
	}

	return scanner.NewScanner(checker.NewRegistry(), httpReader, portScanner, scanOpts...), closeFn, nil
}

func collectFindings(results []model.ScanResult) []model.Finding {
	var findings []model.Finding
	for _, r := range results {
		findings = append(findings, r.Findings...)
	}
	return findings
}

// writeReport 输出到文件或标准输出
func writeReport(stdout io.Writer, writer Writer, path string, findings []model.Finding) error {
	if path == "" {
		return writer.Write(stdout, findings)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	if err := writer.Write(f, findings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newTechnologiesCommand() *cobra.Command {
	var scanType string

	cmd := &cobra.Command{
		Use:   "technologies",
		Short: "列出可识别的技术",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			techs := model.AllTechnologies()
			if scanType != "" {
				st, err := model.ParseScanType(scanType)
				if err != nil {
					return err
				}
				techs = model.TechnologiesFor(st)
			}
			return listTechnologies(cmd.OutOrStdout(), checker.NewRegistry(), techs)
		},
	}
	cmd.Flags().StringVarP(&scanType, "scan-type", "s", "", "只列出支持该扫描类型的技术")
	return cmd
}

func listTechnologies(w io.Writer, registry *checker.Registry, techs []model.Technology) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCANS\tCPE\tCHECKER")
	for _, t := range techs {
		scans := make([]string, 0, len(t.Scans()))
		for _, s := range t.Scans() {
			scans = append(scans, string(s))
		}

		cpe := "-"
		if part, vendor, product := t.CPE(); vendor != "" && product != "" {
			cpe = strings.Join([]string{part, vendor, product}, ":")
		}

		hasChecker := "-"
		if registry.HasChecker(t) {
			hasChecker = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", string(t), t.String(), strings.Join(scans, ","), cpe, hasChecker)
	}
	return tw.Flush()
}
