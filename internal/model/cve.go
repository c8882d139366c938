package model

import "strings"

// CVE 漏洞信息结构，字段与 NVD CVE API 2.0 保持一致
// 两个 CVE 的 ID 相同即视为相同
type CVE struct {
	ID               string        `json:"id" yaml:"id"`
	SourceIdentifier string        `json:"sourceIdentifier" yaml:"sourceIdentifier"`
	Published        string        `json:"published" yaml:"published"`
	LastModified     string        `json:"lastModified" yaml:"lastModified"`
	VulnStatus       string        `json:"vulnStatus" yaml:"vulnStatus"`
	Descriptions     []Description `json:"descriptions" yaml:"descriptions"`
	Metrics          Metrics       `json:"metrics" yaml:"metrics"`
}

// Description 多语言描述
type Description struct {
	Lang  string `json:"lang" yaml:"lang"`
	Value string `json:"value" yaml:"value"`
}

// Metrics CVSS 评分，三种格式之一
type Metrics struct {
	CvssMetricV31 []CVSSV3Metric `json:"cvssMetricV31,omitempty" yaml:"cvssMetricV31,omitempty"`
	CvssMetricV30 []CVSSV3Metric `json:"cvssMetricV30,omitempty" yaml:"cvssMetricV30,omitempty"`
	CvssMetricV2  []CVSSV2Metric `json:"cvssMetricV2,omitempty" yaml:"cvssMetricV2,omitempty"`
}

// CVSSV3Metric CVSS 3.0 / 3.1 评分
type CVSSV3Metric struct {
	Source              string     `json:"source" yaml:"source"`
	Type                string     `json:"type" yaml:"type"`
	CvssData            CVSSV3Data `json:"cvssData" yaml:"cvssData"`
	ExploitabilityScore float64    `json:"exploitabilityScore" yaml:"exploitabilityScore"`
	ImpactScore         float64    `json:"impactScore" yaml:"impactScore"`
}

// CVSSV3Data CVSS 3.x 向量与分数
type CVSSV3Data struct {
	Version               string  `json:"version" yaml:"version"`
	VectorString          string  `json:"vectorString" yaml:"vectorString"`
	AttackVector          string  `json:"attackVector" yaml:"attackVector"`
	AttackComplexity      string  `json:"attackComplexity" yaml:"attackComplexity"`
	PrivilegesRequired    string  `json:"privilegesRequired" yaml:"privilegesRequired"`
	UserInteraction       string  `json:"userInteraction" yaml:"userInteraction"`
	Scope                 string  `json:"scope" yaml:"scope"`
	ConfidentialityImpact string  `json:"confidentialityImpact" yaml:"confidentialityImpact"`
	IntegrityImpact       string  `json:"integrityImpact" yaml:"integrityImpact"`
	AvailabilityImpact    string  `json:"availabilityImpact" yaml:"availabilityImpact"`
	BaseScore             float64 `json:"baseScore" yaml:"baseScore"`
	BaseSeverity          string  `json:"baseSeverity" yaml:"baseSeverity"`
}

// CVSSV2Metric CVSS 2.0 评分，严重等级在外层
type CVSSV2Metric struct {
	Source              string     `json:"source" yaml:"source"`
	Type                string     `json:"type" yaml:"type"`
	CvssData            CVSSV2Data `json:"cvssData" yaml:"cvssData"`
	BaseSeverity        string     `json:"baseSeverity,omitempty" yaml:"baseSeverity,omitempty"`
	ExploitabilityScore float64    `json:"exploitabilityScore" yaml:"exploitabilityScore"`
	ImpactScore         float64    `json:"impactScore" yaml:"impactScore"`
}

// CVSSV2Data CVSS 2.0 向量与分数
type CVSSV2Data struct {
	Version               string  `json:"version" yaml:"version"`
	VectorString          string  `json:"vectorString" yaml:"vectorString"`
	AccessVector          string  `json:"accessVector" yaml:"accessVector"`
	AccessComplexity      string  `json:"accessComplexity" yaml:"accessComplexity"`
	Authentication        string  `json:"authentication" yaml:"authentication"`
	ConfidentialityImpact string  `json:"confidentialityImpact" yaml:"confidentialityImpact"`
	IntegrityImpact       string  `json:"integrityImpact" yaml:"integrityImpact"`
	AvailabilityImpact    string  `json:"availabilityImpact" yaml:"availabilityImpact"`
	BaseScore             float64 `json:"baseScore" yaml:"baseScore"`
}

// BaseScore 基础分数，依次取 V3.1、V3.0、V2；没有评分时为 0
func (c CVE) BaseScore() float64 {
	switch {
	case len(c.Metrics.CvssMetricV31) > 0:
		return c.Metrics.CvssMetricV31[0].CvssData.BaseScore
	case len(c.Metrics.CvssMetricV30) > 0:
		return c.Metrics.CvssMetricV30[0].CvssData.BaseScore
	case len(c.Metrics.CvssMetricV2) > 0:
		return c.Metrics.CvssMetricV2[0].CvssData.BaseScore
	}
	return 0
}

// Severity 严重等级
func (c CVE) Severity() string {
	switch {
	case len(c.Metrics.CvssMetricV31) > 0:
		return c.Metrics.CvssMetricV31[0].CvssData.BaseSeverity
	case len(c.Metrics.CvssMetricV30) > 0:
		return c.Metrics.CvssMetricV30[0].CvssData.BaseSeverity
	case len(c.Metrics.CvssMetricV2) > 0:
		return c.Metrics.CvssMetricV2[0].BaseSeverity
	}
	return ""
}

// Description 英文描述，没有时取第一条
func (c CVE) Description() string {
	for _, d := range c.Descriptions {
		if strings.EqualFold(d.Lang, "en") {
			return d.Value
		}
	}
	if len(c.Descriptions) > 0 {
		return c.Descriptions[0].Value
	}
	return ""
}
