package model

import "sort"

// ServiceInfo 端口服务说明
type ServiceInfo struct {
	Name        string
	Description string
}

// CommonPorts TCP 检查器关心的常见端口
var CommonPorts = map[int]ServiceInfo{
	21:   {"FTP", "文件传输协议"},
	22:   {"SSH", "安全外壳协议"},
	25:   {"SMTP", "简单邮件传输协议"},
	110:  {"POP3", "邮局协议第3版"},
	143:  {"IMAP", "互联网消息访问协议"},
	587:  {"Submission", "邮件提交"},
	3306: {"MySQL", "数据库"},
}

// ServiceName 端口对应的服务名，未知时返回 unknown
func ServiceName(port int) string {
	if info, ok := CommonPorts[port]; ok {
		return info.Name
	}
	return "unknown"
}

// CommonPortsList 常见端口列表，已排序
func CommonPortsList() []int {
	ports := make([]int, 0, len(CommonPorts))
	for port := range CommonPorts {
		ports = append(ports, port)
	}
	sort.Ints(ports)
	return ports
}

// DefaultTCPPorts 指定技术的默认端口并集，已排序
// techs 为空时使用全部 TCP 技术
func DefaultTCPPorts(techs []Technology) []int {
	if len(techs) == 0 {
		techs = TechnologiesFor(ScanTCP)
	}

	seen := make(map[int]bool)
	var ports []int
	for _, t := range techs {
		for _, p := range t.DefaultPorts() {
			if !seen[p] {
				seen[p] = true
				ports = append(ports, p)
			}
		}
	}
	sort.Ints(ports)
	return ports
}
