package scanner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

// PortScanner 使用固定数量的 worker 并发读取多个端口的 banner
type PortScanner struct {
	reader   *TCPReader
	threads  int
	maxBytes int
	logger   *utils.Logger
}

// NewPortScanner 创建端口扫描器
func NewPortScanner(reader *TCPReader, threads int, maxBytes int) *PortScanner {
	if threads < 1 {
		threads = 1
	}
	return &PortScanner{
		reader:   reader,
		threads:  threads,
		maxBytes: maxBytes,
		logger:   utils.NewLogger("port-scanner"),
	}
}

// ParsePortRange 解析端口范围
// 支持 22,80,1000-1010 以及关键字 common 和 all，结果去重并排序
func ParsePortRange(portRange string) ([]int, error) {
	switch strings.ToLower(strings.TrimSpace(portRange)) {
	case "":
		return nil, fmt.Errorf("端口范围为空")
	case "common", "default":
		return model.CommonPortsList(), nil
	case "all":
		ports := make([]int, 0, 65535)
		for port := 1; port <= 65535; port++ {
			ports = append(ports, port)
		}
		return ports, nil
	}

	var ports []int
	for _, part := range strings.Split(portRange, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("无效的端口范围: %s", part)
			}

			start, err := parsePort(rangeParts[0])
			if err != nil {
				return nil, fmt.Errorf("无效的起始端口: %w", err)
			}
			end, err := parsePort(rangeParts[1])
			if err != nil {
				return nil, fmt.Errorf("无效的结束端口: %w", err)
			}
			if start > end {
				return nil, fmt.Errorf("起始端口不能大于结束端口: %s", part)
			}

			for port := start; port <= end; port++ {
				ports = append(ports, port)
			}
			continue
		}

		port, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}

	if len(ports) == 0 {
		return nil, fmt.Errorf("端口范围为空")
	}
	return removeDuplicatesAndSort(ports), nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("无效的端口号: %s", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("端口号必须在 1-65535 之间: %d", port)
	}
	return port, nil
}

func removeDuplicatesAndSort(ports []int) []int {
	seen := make(map[int]bool)
	var unique []int
	for _, port := range ports {
		if !seen[port] {
			seen[port] = true
			unique = append(unique, port)
		}
	}
	sort.Ints(unique)
	return unique
}

// ConcurrentScan 并发扫描，只发送收到 banner 的端口
// 所有 worker 结束后关闭返回的 channel
func (ps *PortScanner) ConcurrentScan(ctx context.Context, host string, ports []int) <-chan model.PortResult {
	results := make(chan model.PortResult, len(ports))
	portChan := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < ps.threads; i++ {
		wg.Add(1)
		go ps.worker(ctx, &wg, host, portChan, results)
	}

	go func() {
		defer close(portChan)
		for _, port := range ports {
			select {
			case portChan <- port:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Scan 扫描全部端口，结果按端口排序
func (ps *PortScanner) Scan(ctx context.Context, host string, ports []int) []model.PortResult {
	var results []model.PortResult
	for result := range ps.ConcurrentScan(ctx, host, ports) {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Port < results[j].Port
	})
	return results
}

func (ps *PortScanner) worker(ctx context.Context, wg *sync.WaitGroup, host string, ports <-chan int, results chan<- model.PortResult) {
	defer wg.Done()

	for port := range ports {
		if ctx.Err() != nil {
			return
		}

		banner, err := ps.reader.Read(ctx, host, port, ps.maxBytes)
		if err != nil {
			ps.logger.Debug("端口 %d 无 banner: %v", port, err)
			continue
		}

		ps.logger.Info("端口 %d 开放 (%s)", port, model.ServiceName(port))
		results <- model.PortResult{
			Port:    port,
			Service: model.ServiceName(port),
			Banner:  banner,
		}
	}
}
