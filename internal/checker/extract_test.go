package checker

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sanca/internal/model"
)

func TestExtractFindingWindow(t *testing.T) {
	re := regexp.MustCompile(`(?P<wholematch>nginx/(?P<version>\d+\.\d+\.\d+))`)
	source := "0123456789nginx/1.22.0abcdefghij"

	finding := FindFinding(re, source, Evidence{
		KeepLeft:   3,
		KeepRight:  4,
		Technology: model.Nginx,
		Template:   templateSignature,
		URL:        "https://example.com/",
	})
	require.NotNil(t, finding)

	assert.Equal(t, "789nginx/1.22.0abcd", finding.Evidence)
	assert.Equal(t, "1.22.0", finding.Version)
	assert.Equal(t, model.Nginx, finding.Technology)
	assert.Equal(t, "https://example.com/", finding.URLOfFinding)
	assert.Equal(t,
		`Nginx 1.22.0 has been identified by looking at its signature "789nginx/1.22.0abcd" at this page: https://example.com/`,
		finding.EvidenceText)
}

func TestExtractFindingClampsToSource(t *testing.T) {
	re := regexp.MustCompile(`(?P<wholematch>PHP)`)
	finding := FindFinding(re, "xPHPy", Evidence{KeepLeft: 30, KeepRight: 30, Technology: model.PHP, Template: templateFound})
	require.NotNil(t, finding)
	assert.Equal(t, "xPHPy", finding.Evidence)
	assert.Empty(t, finding.Version)
	assert.Equal(t, `PHP has been identified because we found "xPHPy" at this url: `, finding.EvidenceText)
}

func TestExtractFindingMultiByteBoundaries(t *testing.T) {
	re := regexp.MustCompile(`(?P<wholematch>jQuery v(?P<version>\d\.\d\.\d))`)
	// 匹配两侧都是多字节字符，任意窗口宽度都不能截断字符
	source := strings.Repeat("é中😀", 10) + "jQuery v3.6.0" + strings.Repeat("😀中é", 10)
	match := re.FindStringSubmatchIndex(source)
	require.NotNil(t, match)
	matchLen := match[1] - match[0]

	for keepLeft := 0; keepLeft < 12; keepLeft++ {
		for keepRight := 0; keepRight < 12; keepRight++ {
			finding := ExtractFinding(re, match, source, Evidence{
				KeepLeft:   keepLeft,
				KeepRight:  keepRight,
				Technology: model.JQuery,
				Template:   templateFound,
			})
			assert.True(t, utf8.ValidString(finding.Evidence), "left=%d right=%d", keepLeft, keepRight)
			assert.LessOrEqual(t, len(finding.Evidence), keepLeft+matchLen+keepRight)
			assert.Contains(t, finding.Evidence, "jQuery v3.6.0")
		}
	}
}

func TestExtractFindingVersionParts(t *testing.T) {
	re := regexp.MustCompile(`(?P<wholematch>(?P<version1>\d+)-(?P<version2>\d+)(-(?P<version3>\d+))?)`)

	finding := FindFinding(re, "v 4-7", Evidence{Technology: model.TinyMCE, Template: "$techno_name$$techno_version$"})
	require.NotNil(t, finding)
	assert.Equal(t, "4.7", finding.Version)
	assert.Equal(t, "TinyMCE 4.7", finding.EvidenceText)

	finding = FindFinding(re, "4-7-1", Evidence{Technology: model.TinyMCE, Template: "$techno_name$$techno_version$"})
	require.NotNil(t, finding)
	assert.Equal(t, "4.7.1", finding.Version)
}

func TestExtractFindingWithoutWholematch(t *testing.T) {
	re := regexp.MustCompile(`SSH-(?P<version>\d+\.\d+)`)
	finding := FindFinding(re, "xxSSH-2.0yy", Evidence{Technology: model.OpenSSH, Template: "$evidence$"})
	require.NotNil(t, finding)
	assert.Equal(t, "SSH-2.0", finding.Evidence)
	assert.Equal(t, "2.0", finding.Version)
}

func TestFindFindingNoMatch(t *testing.T) {
	re := regexp.MustCompile(`nginx`)
	assert.Nil(t, FindFinding(re, "apache", Evidence{}))
}

func TestEvidenceNotExpandedTwice(t *testing.T) {
	re := regexp.MustCompile(`(?P<wholematch>\$url_of_finding\$)`)
	finding := FindFinding(re, "$url_of_finding$", Evidence{
		Technology: model.PHP,
		Template:   "$evidence$ at $url_of_finding$",
		URL:        "https://example.com",
	})
	require.NotNil(t, finding)
	assert.Equal(t, "$url_of_finding$ at https://example.com", finding.EvidenceText)
}
