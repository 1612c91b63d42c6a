package extractor

import (
	"regexp"
	"sort"
	"strings"

	"resume-extract-go/internal/constants"
)

// nameCandidate 单个姓名候选及其置信度与出现位置
type nameCandidate struct {
	value      string
	confidence float64
	position   int
}

var (
	// 策略A：全大写的2~5个单词，每个单词长度>=2
	nameUpperLineRe = regexp.MustCompile(`^[A-Z][A-Z.'-]+(?:\s+[A-Z][A-Z.'-]+){1,4}$`)

	// 策略B：严格的Title-Case "Firstname Lastname [Middlename]"
	nameTitleCaseRe = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}$`)

	// 附加形式："SURNAME.X" 的缩写风格
	nameInitialsRe = regexp.MustCompile(`^([A-Z]{2,})\.\s*([A-Z])$`)

	// 策略C：标签锚定，全文范围
	nameLabeledRe = regexp.MustCompile(`(?im)^(?:name|candidate)\s*[:：]\s*([A-Za-z][A-Za-z .'-]{2,49})$`)

	namePhoneLikeRe  = regexp.MustCompile(`\d{6,}`)
	nonLetterOrGapRe = regexp.MustCompile(`[^A-Za-z ]+`)
)

// 章节标题黑名单，这些行永远不是姓名
var nameHeaderBlacklist = map[string]bool{
	"profile": true, "summary": true, "objective": true, "education": true,
	"experience": true, "skills": true, "contact": true, "projects": true,
	"certifications": true, "tools": true, "competencies": true,
	"achievements": true, "references": true, "interests": true,
	"work experience": true, "professional summary": true,
}

// 职位与机构词表，命中即拒绝该行
var nameRejectVocabulary = []string{
	"engineer", "developer", "manager", "analyst", "consultant", "tester",
	"lead", "director", "architect", "administrator", "specialist", "intern",
	"designer", "scientist", "officer",
	"university", "college", "institute", "school", "academy",
	"ltd", "inc", "llc", "corp", "technologies", "solutions", "systems", "labs",
}

// ExtractName 运行多策略姓名选择：前几行的结构化策略加全文的标签锚定策略，
// 所有候选按(置信度降序, 位置升序)排序后取第一个，无候选时返回哨兵值
func ExtractName(text string) string {
	lines := strings.Split(text, "\n")
	scanCount := constants.NameScanLines
	if len(lines) < scanCount {
		scanCount = len(lines)
	}

	var candidates []nameCandidate
	for i := 0; i < scanCount; i++ {
		line := strings.TrimSpace(lines[i])
		if rejectNameLine(line) {
			continue
		}

		if m := nameInitialsRe.FindStringSubmatch(line); m != nil {
			candidates = append(candidates, nameCandidate{
				value:      m[1] + " " + m[2],
				confidence: 0.75,
				position:   i,
			})
			continue
		}
		if nameUpperLineRe.MatchString(line) && upperWordsValid(line) {
			candidates = append(candidates, nameCandidate{value: line, confidence: 0.9, position: i})
			continue
		}
		if nameTitleCaseRe.MatchString(line) && len(line) >= 5 && len(line) <= 40 {
			candidates = append(candidates, nameCandidate{value: line, confidence: 0.8, position: i})
		}
	}

	// 标签锚定策略扫描全文
	for _, loc := range nameLabeledRe.FindAllStringSubmatchIndex(text, -1) {
		value := strings.TrimSpace(text[loc[2]:loc[3]])
		if rejectNameLine(value) {
			continue
		}
		line := strings.Count(text[:loc[0]], "\n")
		candidates = append(candidates, nameCandidate{value: value, confidence: 0.7, position: line})
	}

	if len(candidates) == 0 {
		return constants.NameNotFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return candidates[i].position < candidates[j].position
	})

	return formatName(candidates[0].value)
}

// rejectNameLine 应用在所有姓名策略之前的排除过滤
func rejectNameLine(line string) bool {
	if len(line) < 3 || len(line) > 50 {
		return true
	}
	if strings.Contains(line, "@") {
		return true
	}
	if line[0] >= '0' && line[0] <= '9' {
		return true
	}
	if namePhoneLikeRe.MatchString(line) {
		return true
	}

	lower := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(line, ":")))
	if nameHeaderBlacklist[lower] {
		return true
	}
	for _, word := range nameRejectVocabulary {
		for _, token := range strings.Fields(lower) {
			if strings.Trim(token, ".,:;") == word {
				return true
			}
		}
	}
	return false
}

// upperWordsValid 校验全大写行的每个单词长度>=2
func upperWordsValid(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 5 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 {
			return false
		}
	}
	return true
}

// formatName 去掉非字母字符、折叠空白，并将每个单词转为Title-Case
func formatName(raw string) string {
	cleaned := nonLetterOrGapRe.ReplaceAllString(raw, " ")
	words := strings.Fields(cleaned)
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	if len(words) == 0 {
		return constants.NameNotFound
	}
	return strings.Join(words, " ")
}
