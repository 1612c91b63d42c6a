package extractor

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	urlRe   = regexp.MustCompile(`(?i)\bhttps?://[^\s]+|\bwww\.[^\s]+`)

	// 电话级联：本地10位手机号、带国家码的形式、带标签的形式
	phoneLabeledRe     = regexp.MustCompile(`(?i)(?:phone|mobile|tel|contact)\s*[:：]?\s*(\+?[\d][\d\s\-().]{8,18}\d)`)
	phoneCountryCodeRe = regexp.MustCompile(`\+\d{1,3}[\s-]?\(?\d{2,4}\)?[\s-]?\d{3,4}[\s-]?\d{3,4}`)
	phoneLocalRe       = regexp.MustCompile(`\(?\d{3}\)?[\s-]?\d{3}[\s-]?\d{4}\b`)
	phoneBareDigitsRe  = regexp.MustCompile(`\b\d{10}\b`)

	phoneKeepRe = regexp.MustCompile(`[^\d+\-() ]`)

	// LinkedIn级联：完整URL优先，标签后跟可分离的handle次之。
	// 孤立的"linkedin"一词不产生任何值。
	linkedinURLRe    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/([A-Za-z0-9_-]+)`)
	linkedinLabelRe  = regexp.MustCompile(`(?i)\blinkedin\s*[:：]\s*([A-Za-z0-9_-]{3,})`)
	linkedinHandleRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,}$`)
)

// ExtractEmail 返回文本中的第一个邮箱地址（小写化），未命中返回空串
func ExtractEmail(text string) string {
	match := emailRe.FindString(text)
	if match == "" {
		return ""
	}
	return strings.ToLower(match)
}

// emailAndURLSpans 收集文本中所有邮箱与URL的位置区间，
// 供技能打分时排除落在其中的伪命中。
func emailAndURLSpans(text string) []span {
	var spans []span
	for _, loc := range emailRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	for _, loc := range urlRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return spans
}

// ExtractPhone 按级联顺序匹配电话号码，命中值仅保留数字和 + - ( ) 空格
func ExtractPhone(text string) string {
	strategies := []patternStrategy{
		{name: "labeled", try: func(t string) (string, bool) {
			m := phoneLabeledRe.FindStringSubmatch(t)
			if m == nil {
				return "", false
			}
			return m[1], true
		}},
		{name: "country_code", try: func(t string) (string, bool) {
			m := phoneCountryCodeRe.FindString(t)
			return m, m != ""
		}},
		{name: "local", try: func(t string) (string, bool) {
			m := phoneLocalRe.FindString(t)
			return m, m != ""
		}},
		{name: "bare_digits", try: func(t string) (string, bool) {
			m := phoneBareDigitsRe.FindString(t)
			return m, m != ""
		}},
	}

	raw, ok := runCascade(text, strategies)
	if !ok {
		return ""
	}
	return strings.TrimSpace(phoneKeepRe.ReplaceAllString(raw, ""))
}

// ExtractLinkedinURL 抽取LinkedIn主页并统一重写为
// https://linkedin.com/in/<handle> 形式，未命中返回空串
func ExtractLinkedinURL(text string) string {
	strategies := []patternStrategy{
		{name: "full_url", try: func(t string) (string, bool) {
			m := linkedinURLRe.FindStringSubmatch(t)
			if m == nil {
				return "", false
			}
			return m[1], true
		}},
		{name: "labeled_handle", try: func(t string) (string, bool) {
			m := linkedinLabelRe.FindStringSubmatch(t)
			if m == nil {
				return "", false
			}
			handle := m[1]
			// 标签后必须是可分离的handle token，"linkedin"自身不算
			if !linkedinHandleRe.MatchString(handle) || strings.EqualFold(handle, "linkedin") {
				return "", false
			}
			return handle, true
		}},
	}

	handle, ok := runCascade(text, strategies)
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://linkedin.com/in/%s", handle)
}

// IsValidEmail 合并策略使用的邮箱形状校验
func IsValidEmail(value string) bool {
	return value != "" && emailRe.MatchString(value)
}

var phoneShapeRe = regexp.MustCompile(`^[\d+\-() ]{10,20}$`)

// IsValidPhone 合并策略使用的电话长度与字符集校验
func IsValidPhone(value string) bool {
	return phoneShapeRe.MatchString(value)
}

// IsValidLinkedinURL 合并策略使用的主页URL形状校验
func IsValidLinkedinURL(value string) bool {
	return strings.Contains(value, "linkedin.com/in/")
}
