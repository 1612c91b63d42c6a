package extractor

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/types"
)

const (
	sectionValueBudget = 200
	summaryBudget      = 300
)

var (
	educationHeaderRe = regexp.MustCompile(`(?im)^(?:education|academics?|qualifications?)\s*:?\s*$`)
	educationInlineRe = regexp.MustCompile(`(?im)^education\s*[:：]\s*(.+)$`)
	degreeLineRe      = regexp.MustCompile(`(?im)^.*\b(?:bachelor|master|phd|doctorate|b\.?tech|m\.?tech|b\.?sc|m\.?sc|b\.?e\b|mba|diploma)\b.*$`)

	locationLabelRe = regexp.MustCompile(`(?im)^(?:location|address|based in|city)\s*[:：]\s*([A-Za-z][A-Za-z ,.-]{1,60})$`)

	roleLabelRe = regexp.MustCompile(`(?im)^(?:current role|role|designation|position|title)\s*[:：]\s*(.{2,80})$`)
	roleTitleRe = regexp.MustCompile(`(?i)^[A-Za-z ]*\b(?:engineer|developer|manager|analyst|consultant|architect|designer|scientist|administrator|lead|director)\b[A-Za-z ]*$`)

	summaryHeaderRe = regexp.MustCompile(`(?im)^(?:summary|professional summary|objective|profile|about(?: me)?)\s*:?\s*$`)
	summaryInlineRe = regexp.MustCompile(`(?im)^(?:summary|objective|profile)\s*[:：]\s*(.+)$`)

	projectsHeaderRe = regexp.MustCompile(`(?im)^(?:projects?|personal projects|key projects)\s*:?\s*$`)
	projectsInlineRe = regexp.MustCompile(`(?im)^projects?\s*[:：]\s*(.+)$`)

	companySuffixRe = regexp.MustCompile(`\b[A-Z][A-Za-z&.' -]{1,40}\s(?:Ltd|Inc|LLC|Corp|Corporation|Technologies|Solutions|Systems|Labs|Pvt)\b\.?`)

	anyHeaderRe = regexp.MustCompile(`(?im)^(?:education|experience|work experience|skills|projects?|summary|objective|profile|certifications?|languages?|contact|achievements?|references?)\s*:?\s*$`)
)

// 证书词表，全文命中即收集
var certificationVocabulary = []string{
	"AWS Certified", "Azure Certified", "Google Cloud Certified",
	"Oracle Certified", "PMP", "CISSP", "CCNA", "CCNP", "CKA",
	"Scrum Master", "CompTIA", "ITIL",
}

// 人类语言词表
var languageVocabulary = []string{
	"English", "Spanish", "French", "German", "Hindi", "Mandarin",
	"Chinese", "Japanese", "Korean", "Arabic", "Portuguese", "Russian",
	"Italian", "Dutch",
}

// ExtractAdditionalSections 抽取扩展字段，全部为尽力而为的模式匹配，
// 任何字段未命中时保持nil或空列表，绝不报错
func ExtractAdditionalSections(text string) *types.AdditionalFields {
	return &types.AdditionalFields{
		Education:      types.StrPtr(extractEducation(text)),
		Location:       types.StrPtr(extractLocation(text)),
		CurrentRole:    types.StrPtr(extractCurrentRole(text)),
		Summary:        types.StrPtr(extractSummary(text)),
		Certifications: vocabularyHits(text, certificationVocabulary),
		Languages:      vocabularyHits(text, languageVocabulary),
		Projects:       types.StrPtr(extractProjects(text)),
		Companies:      types.StrPtr(extractCompanies(text)),
	}
}

func extractEducation(text string) string {
	if m := educationInlineRe.FindStringSubmatch(text); m != nil {
		return truncateValue(strings.TrimSpace(m[1]), sectionValueBudget)
	}
	if body := sectionBody(text, educationHeaderRe); body != "" {
		return truncateValue(body, sectionValueBudget)
	}
	if m := degreeLineRe.FindString(text); m != "" {
		return truncateValue(strings.TrimSpace(m), sectionValueBudget)
	}
	return ""
}

func extractLocation(text string) string {
	if m := locationLabelRe.FindStringSubmatch(text); m != nil {
		return truncateValue(strings.TrimSpace(m[1]), sectionValueBudget)
	}
	return ""
}

func extractCurrentRole(text string) string {
	if m := roleLabelRe.FindStringSubmatch(text); m != nil {
		return truncateValue(strings.TrimSpace(m[1]), sectionValueBudget)
	}
	// 回退：前几行中形如职位名称的独立行
	lines := strings.Split(text, "\n")
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if roleTitleRe.MatchString(line) {
			return truncateValue(line, sectionValueBudget)
		}
	}
	return ""
}

func extractSummary(text string) string {
	if m := summaryInlineRe.FindStringSubmatch(text); m != nil {
		return truncateValue(strings.TrimSpace(m[1]), summaryBudget)
	}
	if body := sectionBody(text, summaryHeaderRe); body != "" {
		return truncateValue(body, summaryBudget)
	}
	return ""
}

func extractProjects(text string) string {
	if m := projectsInlineRe.FindStringSubmatch(text); m != nil {
		return truncateValue(strings.TrimSpace(m[1]), summaryBudget)
	}
	if body := sectionBody(text, projectsHeaderRe); body != "" {
		return truncateValue(body, summaryBudget)
	}
	return ""
}

func extractCompanies(text string) string {
	matches := companySuffixRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return ""
	}
	deduped := DedupCapSkills(matches, 5)
	return truncateValue(strings.Join(deduped, ", "), sectionValueBudget)
}

// sectionBody 返回章节标题行之后、下一个标题行之前的内容
func sectionBody(text string, headerRe *regexp.Regexp) string {
	loc := headerRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	rest = strings.TrimLeft(rest, "\n")

	if next := anyHeaderRe.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest)
}

// vocabularyHits 返回词表中在文本里整词出现的所有条目
func vocabularyHits(text string, vocabulary []string) []string {
	lowerText := strings.ToLower(text)
	var hits []string
	for _, item := range vocabulary {
		if containsWholeWord(lowerText, strings.ToLower(item)) {
			hits = append(hits, item)
		}
	}
	return hits
}

func containsWholeWord(text, word string) bool {
	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx == -1 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if wholeWordAt(text, start, end) {
			return true
		}
		offset = start + 1
	}
}

func truncateValue(value string, budget int) string {
	if len(value) <= budget {
		return value
	}
	return value[:budget]
}
