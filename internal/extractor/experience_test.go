package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-extract-go/internal/constants"
)

func TestExtractExperienceYears(t *testing.T) {
	t.Run("直接陈述优先", func(t *testing.T) {
		got := ExtractExperienceYears("5 years of experience in backend systems", 2025)
		assert.Equal(t, "5 years", got, "显式陈述应直接命中")
	})

	t.Run("带标签的陈述", func(t *testing.T) {
		got := ExtractExperienceYears("Experience: 8 years", 2025)
		assert.Equal(t, "8 years", got, "标签形式的陈述应命中")
	})

	t.Run("日期区间汇总", func(t *testing.T) {
		text := "Acme Corp 2018 - 2021\nGlobex 2021 - Present"
		got := ExtractExperienceYears(text, 2025)
		assert.Equal(t, "7 years", got, "2018-2021(3年)加2021-至今(4年)应为7年")
	})

	t.Run("日期区间不会被误读为年限陈述", func(t *testing.T) {
		got := ExtractExperienceYears("Worked at Initech 2015 - 2022", 2025)
		assert.Equal(t, "7 years", got, "2015-2022应推导为7年而不是2015年")
	})

	t.Run("过早的起始年被丢弃", func(t *testing.T) {
		got := ExtractExperienceYears("1960 - 1970 something\n2020 - 2023 real job", 2025)
		assert.Equal(t, "3 years", got, "1990年前开始的区间应视为噪声")
	})

	t.Run("单段超过上限被丢弃", func(t *testing.T) {
		got := ExtractExperienceYears("2000 - 2020 suspicious span", 2025)
		assert.Equal(t, constants.ExperienceNotSpecified, got, "单段超过15年应被丢弃")
	})

	t.Run("越界的直接陈述被忽略", func(t *testing.T) {
		got := ExtractExperienceYears("99 years of experience", 2025)
		assert.Equal(t, constants.ExperienceNotSpecified, got, "不在(0,50)内的值应被忽略")
	})

	t.Run("无任何线索返回哨兵值", func(t *testing.T) {
		got := ExtractExperienceYears("just a list of skills", 2025)
		assert.Equal(t, constants.ExperienceNotSpecified, got, "无线索时应返回哨兵值")
	})

	t.Run("非整数保留一位小数", func(t *testing.T) {
		got := ExtractExperienceYears("2.5 years of experience", 2025)
		assert.Equal(t, "2.5 years", got, "非整数年限应保留一位小数")
	})
}

func TestParseExperienceYears(t *testing.T) {
	v, ok := ParseExperienceYears("7 years")
	assert.True(t, ok, "规范格式应可解析")
	assert.Equal(t, 7.0, v, "解析值应为7")

	_, ok = ParseExperienceYears(constants.ExperienceNotSpecified)
	assert.False(t, ok, "哨兵值不应通过解析")

	_, ok = ParseExperienceYears("60 years")
	assert.False(t, ok, "越界的值不应通过校验")
}
