package extractor

import (
	"sort"
	"strings"

	"resume-extract-go/internal/constants"
)

// skillCategory 技能词表中的一个类别
type skillCategory struct {
	name   string
	skills []string
}

// 主技能词表：编程语言、Web框架、移动端、数据库、云平台
var primarySkillCategories = []skillCategory{
	{name: "languages", skills: []string{
		"Python", "Java", "JavaScript", "TypeScript", "Go", "Rust", "C++", "C#",
		"Ruby", "PHP", "Swift", "Kotlin", "Scala",
	}},
	{name: "web", skills: []string{
		"React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
		"Express", "Next.js", "Rails",
	}},
	{name: "mobile", skills: []string{
		"Android", "iOS", "Flutter", "React Native",
	}},
	{name: "databases", skills: []string{
		"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Oracle",
		"Elasticsearch", "Cassandra",
	}},
	{name: "cloud", skills: []string{
		"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	}},
}

// 辅助技能词表：DevOps工具链、协作与工程实践
var secondarySkillCategories = []skillCategory{
	{name: "devops", skills: []string{
		"Git", "Jenkins", "CI/CD", "Linux", "Ansible", "Prometheus", "Grafana",
		"Kafka", "RabbitMQ", "Nginx",
	}},
	{name: "collaboration", skills: []string{
		"Jira", "Confluence", "Agile", "Scrum", "REST", "GraphQL",
		"Microservices", "TDD",
	}},
}

// scoredSkill 打分后的技能候选
type scoredSkill struct {
	skill         string
	score         int
	firstPosition int
}

// ExtractPrimarySkills 抽取主技能，按相关度降序排序并截断到上限
func ExtractPrimarySkills(text string) []string {
	return extractSkills(text, primarySkillCategories, constants.MaxPrimarySkills)
}

// ExtractSecondarySkills 抽取辅助技能，按相关度降序排序并截断到上限
func ExtractSecondarySkills(text string) []string {
	return extractSkills(text, secondarySkillCategories, constants.MaxSecondarySkills)
}

// extractSkills 对词表中每个技能做全文整词匹配并打分。
// 落在邮箱或URL区间内的出现不计分，避免把域名里的单词当成技能。
// 排序按总分降序，平分时先出现在文本中的技能在前。
func extractSkills(text string, categories []skillCategory, limit int) []string {
	excluded := emailAndURLSpans(text)

	var scored []scoredSkill
	for _, category := range categories {
		for _, skill := range category.skills {
			score, first := scoreSkill(text, skill, excluded)
			if score > 0 {
				scored = append(scored, scoredSkill{skill: skill, score: score, firstPosition: first})
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].firstPosition < scored[j].firstPosition
	})

	seen := make(map[string]bool, len(scored))
	out := make([]string, 0, limit)
	for _, s := range scored {
		if seen[s.skill] {
			continue
		}
		seen[s.skill] = true
		out = append(out, s.skill)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// scoreSkill 统计一个技能的所有有效出现并累积上下文加权分。
// 返回总分和第一次有效出现的位置（无有效出现时为-1）。
func scoreSkill(text string, skill string, excluded []span) (int, int) {
	lowerText := strings.ToLower(text)
	lowerSkill := strings.ToLower(skill)

	total := 0
	first := -1
	offset := 0
	for {
		idx := strings.Index(lowerText[offset:], lowerSkill)
		if idx == -1 {
			break
		}
		start := offset + idx
		end := start + len(lowerSkill)
		offset = start + 1

		if !wholeWordAt(lowerText, start, end) {
			continue
		}
		if overlapsAny(excluded, start, end) {
			continue
		}

		if first == -1 {
			first = start
		}
		total += 1 + contextBonus(contextWindow(lowerText, start, end))
	}
	return total, first
}

// wholeWordAt 检查匹配两侧是否为单词边界。
// 技能名本身可含 + # . / 等符号，因此不能用正则的\b。
func wholeWordAt(text string, start, end int) bool {
	if start > 0 && isWordChar(text[start-1]) {
		return false
	}
	if end < len(text) && isWordChar(text[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}

// contextWindow 匹配两侧各取固定半径的上下文
func contextWindow(text string, start, end int) string {
	lo := start - constants.SkillContextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + constants.SkillContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// contextBonus 上下文加权：专精表述+3，技能章节指示词+2，
// 年限或经验表述+2，项目动词+1
func contextBonus(context string) int {
	bonus := 0
	if strings.Contains(context, "expert in") || strings.Contains(context, "specialist") ||
		strings.Contains(context, "advanced") {
		bonus += 3
	}
	if strings.Contains(context, "skills") || strings.Contains(context, "technologies") ||
		strings.Contains(context, "tech stack") {
		bonus += 2
	}
	if strings.Contains(context, "years") || strings.Contains(context, "experience") {
		bonus += 2
	}
	if strings.Contains(context, "project") || strings.Contains(context, "developed") ||
		strings.Contains(context, "implemented") {
		bonus += 1
	}
	return bonus
}

// DedupCapSkills 合并策略使用：保序去重并截断到上限
func DedupCapSkills(skills []string, limit int) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, limit)
	for _, s := range skills {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out
}
