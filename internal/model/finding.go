package model

// Finding 识别结果
// 由检查器创建，之后只由漏洞补全追加 CVE
type Finding struct {
	Technology      Technology `json:"technology" yaml:"technology"`
	Version         string     `json:"version,omitempty" yaml:"version,omitempty"`
	Evidence        string     `json:"evidence" yaml:"evidence"`
	EvidenceText    string     `json:"evidence_text" yaml:"evidence_text"`
	URLOfFinding    string     `json:"url_of_finding,omitempty" yaml:"url_of_finding,omitempty"`
	Vulnerabilities []CVE      `json:"vulnerabilities" yaml:"vulnerabilities"`
}

// HasVulnerability 是否已包含该 CVE
func (f *Finding) HasVulnerability(id string) bool {
	for _, v := range f.Vulnerabilities {
		if v.ID == id {
			return true
		}
	}
	return false
}

// AddVulnerability 追加 CVE，ID 已存在时忽略
func (f *Finding) AddVulnerability(cve CVE) bool {
	if f.HasVulnerability(cve.ID) {
		return false
	}
	f.Vulnerabilities = append(f.Vulnerabilities, cve)
	return true
}

// SameAs 技术、版本、证据和URL都相同
func (f Finding) SameAs(other Finding) bool {
	return f.Technology == other.Technology &&
		f.Version == other.Version &&
		f.Evidence == other.Evidence &&
		f.URLOfFinding == other.URLOfFinding
}

// MaxScore 最高 CVSS 分数
func (f Finding) MaxScore() float64 {
	maxScore := 0.0
	for _, v := range f.Vulnerabilities {
		if s := v.BaseScore(); s > maxScore {
			maxScore = s
		}
	}
	return maxScore
}
