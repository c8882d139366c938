package cvedb

import "Sanca/internal/model"

// NVDResponse NVD CVE API 2.0 响应
type NVDResponse struct {
	ResultsPerPage  int                `json:"resultsPerPage"`
	StartIndex      int                `json:"startIndex"`
	TotalResults    int                `json:"totalResults"`
	Format          string             `json:"format"`
	Version         string             `json:"version"`
	Timestamp       string             `json:"timestamp"`
	Vulnerabilities []NVDVulnerability `json:"vulnerabilities"`
}

// NVDVulnerability 单个漏洞条目
type NVDVulnerability struct {
	CVE model.CVE `json:"cve"`
}
