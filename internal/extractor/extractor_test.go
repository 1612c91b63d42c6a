package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-extract-go/internal/constants"
)

const sampleResume = "JOHN MICHAEL SMITH\nSoftware Engineer\njohn.smith@example.com\n+1 415 555 0100\n5 years of experience\nSkills: Python, React, AWS"

func TestExtractCandidateInfo(t *testing.T) {
	record := ExtractCandidateInfoAt(sampleResume, false, 2025)
	require.NotNil(t, record, "抽取结果不应为nil")

	assert.Equal(t, "John Michael Smith", record.Name, "姓名应为格式化后的Title-Case")
	require.NotNil(t, record.Email, "邮箱不应为nil")
	assert.Equal(t, "john.smith@example.com", *record.Email, "邮箱应小写化")
	require.NotNil(t, record.Phone, "电话不应为nil")
	assert.Equal(t, "5 years", record.ExperienceYears, "经验年限应为5 years")
	assert.Contains(t, record.PrimarySkills, "Python", "主技能应包含Python")
	assert.Contains(t, record.PrimarySkills, "React", "主技能应包含React")
	assert.Contains(t, record.PrimarySkills, "AWS", "主技能应包含AWS")
	assert.Nil(t, record.AdditionalFields, "未请求时不应填充扩展字段")
}

func TestExtractCandidateInfoIdempotent(t *testing.T) {
	first := ExtractCandidateInfoAt(sampleResume, true, 2025)
	second := ExtractCandidateInfoAt(sampleResume, true, 2025)
	assert.Equal(t, first, second, "相同输入两次抽取应产出完全相同的记录")
}

func TestExtractCandidateInfoInvariants(t *testing.T) {
	inputs := []string{
		"",
		"random noise without any structure",
		sampleResume,
		"linkedin\n2018 - 2021\n2021 - Present\nPython python PYTHON",
	}

	for _, input := range inputs {
		record := ExtractCandidateInfoAt(input, true, 2025)

		assert.NotEmpty(t, record.Name, "姓名永远不应为空串")

		if record.ExperienceYears != constants.ExperienceNotSpecified {
			years, ok := ParseExperienceYears(record.ExperienceYears)
			assert.True(t, ok, "非哨兵的经验值应可解析: %q", record.ExperienceYears)
			assert.Greater(t, years, 0.0, "经验年限应大于0")
			assert.Less(t, years, 50.0, "经验年限应小于50")
		}

		if record.LinkedinURL != nil {
			assert.Contains(t, *record.LinkedinURL, "linkedin.com/in/", "非空主页URL必须符合规范形式")
		}

		assert.LessOrEqual(t, len(record.PrimarySkills), constants.MaxPrimarySkills, "主技能应被截断到上限")
		assert.LessOrEqual(t, len(record.SecondarySkills), constants.MaxSecondarySkills, "辅助技能应被截断到上限")
	}
}

func TestExtractCandidateInfoWithAdditionalFields(t *testing.T) {
	text := "JANE ANN DOE\nLocation: Austin, TX\nSummary: Backend engineer focused on reliability.\nEducation\nBachelor of Science, Computer Science\nExperience\nAcme Technologies Inc 2019 - 2023\nLanguages known include English and Spanish\nAWS Certified Solutions Architect"
	record := ExtractCandidateInfoAt(text, true, 2025)

	require.NotNil(t, record.AdditionalFields, "请求扩展字段时应填充")
	fields := record.AdditionalFields

	require.NotNil(t, fields.Location, "位置应被抽取")
	assert.Equal(t, "Austin, TX", *fields.Location, "标签形式的位置应命中")
	require.NotNil(t, fields.Education, "学历应被抽取")
	assert.Contains(t, *fields.Education, "Bachelor", "学历应包含学位关键词")
	assert.Contains(t, fields.Languages, "English", "语言词表命中应被收集")
	assert.Contains(t, fields.Languages, "Spanish", "语言词表命中应被收集")
	assert.Contains(t, fields.Certifications, "AWS Certified", "证书词表命中应被收集")
	require.NotNil(t, fields.Companies, "公司应被抽取")
	assert.Contains(t, *fields.Companies, "Acme Technologies", "公司后缀模式应命中")
}

func TestBareLinkedinWordYieldsNoURL(t *testing.T) {
	record := ExtractCandidateInfoAt("John Smith\nfind me on linkedin sometime", false, 2025)
	assert.Nil(t, record.LinkedinURL, "孤立的linkedin一词不应产生URL")
}
