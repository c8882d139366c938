package model

import (
	"fmt"
	"strings"
)

// ScanType 扫描类型
type ScanType string

const (
	ScanTCP  ScanType = "tcp"
	ScanUDP  ScanType = "udp"
	ScanHTTP ScanType = "http"
)

// ParseScanType 解析扫描类型
func ParseScanType(value string) (ScanType, error) {
	switch ScanType(strings.ToLower(strings.TrimSpace(value))) {
	case ScanTCP:
		return ScanTCP, nil
	case ScanHTTP:
		return ScanHTTP, nil
	case ScanUDP:
		// UDP 扫描尚未实现
		return ScanUDP, fmt.Errorf("%w: %s", ErrUnsupportedScan, value)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedScan, value)
}
