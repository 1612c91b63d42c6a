package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-extract-go/internal/constants"
)

func TestExtractPrimarySkills(t *testing.T) {
	t.Run("技能章节中的技能被命中", func(t *testing.T) {
		got := ExtractPrimarySkills("Skills: Python, React, AWS")
		assert.Contains(t, got, "Python", "应包含Python")
		assert.Contains(t, got, "React", "应包含React")
		assert.Contains(t, got, "AWS", "应包含AWS")
	})

	t.Run("邮箱内的技能词不计分", func(t *testing.T) {
		got := ExtractPrimarySkills("Contact: rustam@example.com\nworked on backend services")
		assert.NotContains(t, got, "Rust", "邮箱local-part中的Rust不应被当作技能")
	})

	t.Run("邮箱外的真实提及仍然有效", func(t *testing.T) {
		got := ExtractPrimarySkills("rustam@example.com\nexpert in Rust and systems programming")
		assert.Contains(t, got, "Rust", "独立的真实提及应被命中")
	})

	t.Run("上下文加权影响排序", func(t *testing.T) {
		text := "Java mentioned once\nexpert in Python with 10 years experience on skills side"
		got := ExtractPrimarySkills(text)
		assert.Equal(t, "Python", got[0], "高加权上下文的技能应排在最前")
	})

	t.Run("结果去重且有上限", func(t *testing.T) {
		text := "Python Python Python Java Java Go Rust C++ C# Ruby PHP Swift Kotlin"
		got := ExtractPrimarySkills(text)
		assert.LessOrEqual(t, len(got), constants.MaxPrimarySkills, "结果长度不应超过上限")
		seen := map[string]bool{}
		for _, s := range got {
			assert.False(t, seen[s], "结果不应包含重复项: %s", s)
			seen[s] = true
		}
	})

	t.Run("平分时先出现的技能在前", func(t *testing.T) {
		got := ExtractPrimarySkills("Worked with Ruby and also Python daily")
		assert.Equal(t, []string{"Ruby", "Python"}, got[:2], "同分技能应按首次出现位置排序")
	})

	t.Run("整词匹配避免子串伪命中", func(t *testing.T) {
		got := ExtractPrimarySkills("I enjoy going to concerts")
		assert.NotContains(t, got, "Go", "单词内部的go不应命中")
	})
}

func TestExtractSecondarySkills(t *testing.T) {
	got := ExtractSecondarySkills("Tools: Git, Jenkins, Jira\nPractices: Agile, Scrum")
	assert.Contains(t, got, "Git", "应包含Git")
	assert.Contains(t, got, "Jira", "应包含Jira")
	assert.Contains(t, got, "Agile", "应包含Agile")
	assert.LessOrEqual(t, len(got), constants.MaxSecondarySkills, "结果长度不应超过上限")
}

func TestDedupCapSkills(t *testing.T) {
	got := DedupCapSkills([]string{"Go", "Rust", "Go", "", "Java", "Python"}, 3)
	assert.Equal(t, []string{"Go", "Rust", "Java"}, got, "应保序去重并截断")
}
