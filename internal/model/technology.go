package model

import (
	"fmt"
	"strings"
)

// Technology 可识别的技术（软件、语言、Web服务器、JS库、CMS等）
// 取值即命令行中使用的名称
type Technology string

// String 返回技术的显示名称
func (t Technology) String() string {
	if info, ok := catalogIndex[t]; ok {
		return info.name
	}
	return string(t)
}

// Scans 技术支持的扫描类型
func (t Technology) Scans() []ScanType {
	info, ok := catalogIndex[t]
	if !ok {
		return nil
	}
	return info.scans
}

// SupportsScan 是否支持指定的扫描类型
func (t Technology) SupportsScan(scanType ScanType) bool {
	for _, s := range t.Scans() {
		if s == scanType {
			return true
		}
	}
	return false
}

// CPE 返回 CPE 三元组 (part, vendor, product)
// vendor 或 product 为空表示该技术没有对应的 CPE
func (t Technology) CPE() (part, vendor, product string) {
	info, ok := catalogIndex[t]
	if !ok {
		return "", "", ""
	}
	return info.part, info.vendor, info.product
}

// DefaultPorts 未指定端口时TCP扫描使用的端口
func (t Technology) DefaultPorts() []int {
	info, ok := catalogIndex[t]
	if !ok {
		return nil
	}
	return info.ports
}

// URLRequests 根据主URL生成该技术需要的探测请求
func (t Technology) URLRequests(mainURL string) ([]ProbeRequest, error) {
	if !t.SupportsScan(ScanHTTP) {
		return nil, nil
	}

	info := catalogIndex[t]
	if len(info.paths) == 0 {
		return []ProbeRequest{NewProbeRequest(mainURL, true)}, nil
	}

	requests := make([]ProbeRequest, 0, len(info.paths))
	for _, p := range info.paths {
		if p.path == "" {
			requests = append(requests, NewProbeRequest(mainURL, p.fetchScripts))
			continue
		}
		req, err := NewProbeRequestFromPath(mainURL, p.path, p.fetchScripts)
		if err != nil {
			return nil, fmt.Errorf("技术 %s 生成请求失败: %w", t, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// ParseTechnology 将命令行名称解析为技术
func ParseTechnology(value string) (Technology, error) {
	t := Technology(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := catalogIndex[t]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTechnology, value)
	}
	return t, nil
}

// ParseTechnologies 解析逗号分隔或多个值的技术列表，自动去重
func ParseTechnologies(values []string) ([]Technology, error) {
	var techs []Technology
	seen := make(map[Technology]bool)
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := ParseTechnology(part)
			if err != nil {
				return nil, err
			}
			if !seen[t] {
				seen[t] = true
				techs = append(techs, t)
			}
		}
	}
	return techs, nil
}

// AllTechnologies 目录中的全部技术，按目录顺序
func AllTechnologies() []Technology {
	techs := make([]Technology, 0, len(catalog))
	for _, info := range catalog {
		techs = append(techs, info.id)
	}
	return techs
}

// TechnologiesFor 支持指定扫描类型的技术
func TechnologiesFor(scanType ScanType) []Technology {
	var techs []Technology
	for _, info := range catalog {
		t := info.id
		if t.SupportsScan(scanType) {
			techs = append(techs, t)
		}
	}
	return techs
}
