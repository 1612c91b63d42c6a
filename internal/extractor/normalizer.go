package extractor

import (
	"regexp"
	"strings"
)

var (
	lineEndingRe = regexp.MustCompile(`\r\n?`)
	innerSpaceRe = regexp.MustCompile(`[ \t\f\v]+`)
)

// NormalizeText 生成所有下游抽取器使用的规范文本：
// 行结束符统一为\n，行内连续空白折叠为单个空格并去掉首尾空白，
// 空行被移除，行顺序保持不变。纯函数，空输入返回空串。
func NormalizeText(raw string) string {
	if raw == "" {
		return ""
	}

	unified := lineEndingRe.ReplaceAllString(raw, "\n")
	lines := strings.Split(unified, "\n")

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		collapsed := strings.TrimSpace(innerSpaceRe.ReplaceAllString(line, " "))
		if collapsed == "" {
			continue
		}
		out = append(out, collapsed)
	}
	return strings.Join(out, "\n")
}
