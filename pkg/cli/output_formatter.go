package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"Sanca/internal/model"
	"Sanca/internal/utils"
)

// Writer 扫描报告输出
type Writer interface {
	Write(w io.Writer, findings []model.Finding) error
}

// NewWriter 按格式创建输出器
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "yaml":
		return &YAMLWriter{}, nil
	}
	return nil, fmt.Errorf("不支持的输出格式: %s", format)
}

// TextWriter 终端表格输出，按技术和版本排序
type TextWriter struct{}

const descriptionLimit = 100

func (tw *TextWriter) Write(w io.Writer, findings []model.Finding) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "未发现任何技术")
		return err
	}

	sorted := sortFindings(findings)
	bold := color.New(color.Bold)

	table := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	// 颜色控制符会被 tabwriter 计入宽度，只给最后一列上色
	fmt.Fprintln(table, "技术\t版本\t位置\tCVE\t风险等级")
	for _, f := range sorted {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
			f.Technology.String(),
			orDash(f.Version),
			orDash(f.URLOfFinding),
			cveSummary(f),
			riskColor(f.MaxScore()).Sprint(riskLevel(f)),
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	for _, f := range sorted {
		if len(f.Vulnerabilities) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s %s (%d 个CVE):\n", bold.Sprint(f.Technology.String()), f.Version, len(f.Vulnerabilities))
		fmt.Fprintln(w, strings.Repeat("-", 60))

		cves := make([]model.CVE, len(f.Vulnerabilities))
		copy(cves, f.Vulnerabilities)
		sort.SliceStable(cves, func(i, j int) bool {
			return cves[i].BaseScore() > cves[j].BaseScore()
		})
		for _, cve := range cves {
			score := cve.BaseScore()
			fmt.Fprintf(w, "%s  CVSS %.1f %s\n", riskColor(score).Sprint(cve.ID), score, cve.Severity())
			fmt.Fprintf(w, "    %s\n", truncate(cve.Description(), descriptionLimit))
		}
	}

	_, err := fmt.Fprintf(w, "\n共识别 %d 项技术\n", len(sorted))
	return err
}

// JSONWriter JSON 数组输出
type JSONWriter struct{}

func (jw *JSONWriter) Write(w io.Writer, findings []model.Finding) error {
	if findings == nil {
		findings = []model.Finding{}
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 JSON 失败: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// CSVWriter 每项识别结果一行，CVE 编号以 ; 连接
type CSVWriter struct{}

func (cw *CSVWriter) Write(w io.Writer, findings []model.Finding) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"technology", "version", "evidence", "evidence_text", "url", "cves"}); err != nil {
		return err
	}

	for _, f := range findings {
		ids := make([]string, 0, len(f.Vulnerabilities))
		for _, cve := range f.Vulnerabilities {
			ids = append(ids, cve.ID)
		}
		record := []string{
			string(f.Technology),
			f.Version,
			f.Evidence,
			f.EvidenceText,
			f.URLOfFinding,
			strings.Join(ids, ";"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// YAMLWriter YAML 列表输出
type YAMLWriter struct{}

func (yw *YAMLWriter) Write(w io.Writer, findings []model.Finding) error {
	if findings == nil {
		findings = []model.Finding{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(findings); err != nil {
		return fmt.Errorf("序列化 YAML 失败: %w", err)
	}
	return enc.Close()
}

func sortFindings(findings []model.Finding) []model.Finding {
	sorted := make([]model.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Technology != sorted[j].Technology {
			return sorted[i].Technology < sorted[j].Technology
		}
		return utils.CompareVersions(sorted[i].Version, sorted[j].Version) < 0
	})
	return sorted
}

func cveSummary(f model.Finding) string {
	switch len(f.Vulnerabilities) {
	case 0:
		return "-"
	case 1:
		return f.Vulnerabilities[0].ID
	}

	top := f.Vulnerabilities[0]
	for _, cve := range f.Vulnerabilities[1:] {
		if cve.BaseScore() > top.BaseScore() {
			top = cve
		}
	}
	return fmt.Sprintf("%s [+%d]", top.ID, len(f.Vulnerabilities)-1)
}

// riskLevel 按最高 CVSS 分数划分风险等级
func riskLevel(f model.Finding) string {
	if len(f.Vulnerabilities) == 0 {
		return "-"
	}

	switch score := f.MaxScore(); {
	case score >= 9.0:
		return "严重"
	case score >= 7.0:
		return "高"
	case score >= 4.0:
		return "中"
	default:
		return "低"
	}
}

func riskColor(score float64) *color.Color {
	switch {
	case score >= 9.0:
		return color.New(color.FgRed, color.Bold)
	case score >= 7.0:
		return color.New(color.FgRed)
	case score >= 4.0:
		return color.New(color.FgYellow)
	case score > 0:
		return color.New(color.FgGreen)
	}
	return color.New(color.Reset)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate 按字符截断，超出部分以 ... 结尾
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
