package checker

import (
	"regexp"
	"strings"

	"Sanca/internal/model"
)

// banner 较短，证据保留整个 banner
const bannerKeep = 512

// bannerChecker 用一个正则匹配 TCP banner
type bannerChecker struct {
	technology model.Technology
	regex      *regexp.Regexp
	// skip 返回 true 时跳过该 banner，用于排除相近产品
	skip func(banner string) bool
}

func (c *bannerChecker) Technology() model.Technology {
	return c.technology
}

// Check 返回第一个匹配的 banner 对应的结果
func (c *bannerChecker) Check(banners []string) *model.Finding {
	for _, banner := range banners {
		banner = strings.TrimRight(banner, "\r\n\x00 ")
		if c.skip != nil && c.skip(banner) {
			continue
		}
		finding := FindFinding(c.regex, banner, Evidence{
			KeepLeft:   bannerKeep,
			KeepRight:  bannerKeep,
			Technology: c.technology,
			Template:   templateBanner,
		})
		if finding != nil {
			return finding
		}
	}
	return nil
}
