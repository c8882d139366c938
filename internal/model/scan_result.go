package model

import "time"

// ScanResult 单个目标的扫描结果
type ScanResult struct {
	Target   string        `json:"target"`
	ScanType ScanType      `json:"scan_type"`
	Duration time.Duration `json:"duration"`
	Ports    []PortResult  `json:"ports,omitempty"`
	Findings []Finding     `json:"findings"`
}

// PortResult 开放的 TCP 端口及其 banner
type PortResult struct {
	Port    int    `json:"port"`
	Service string `json:"service"`
	Banner  string `json:"banner"`
}

// ScanOptions 扫描选项
type ScanOptions struct {
	URLs         []string
	Host         string
	PortRange    string
	ScanType     ScanType
	Technologies []Technology
	NoVulns      bool
}
