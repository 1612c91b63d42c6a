package extractor

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"resume-extract-go/internal/constants"
)

var (
	// 直接陈述："5 years of experience"、"experience: 5 years"、"5+ years"
	expPhraseRe  = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d)?)\s*\+?\s*years?\s+(?:of\s+)?experience\b`)
	expLabeledRe = regexp.MustCompile(`(?i)\bexperience\s*[:：]\s*(\d{1,2}(?:\.\d)?)\s*\+?\s*years?\b`)
	expPlusRe    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+\s*years?\b`)

	// 日期区间："2018 - 2021"、"2021 - Present"
	dateSpanRe = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*[-–—~]\s*((?:19|20)\d{2}|present|current|now)\b`)
)

// ExtractExperienceYears 抽取工作经验年限并格式化为 "<n> years"。
// 级联顺序：全文中的直接陈述优先；没有直接陈述时由日期区间推导，
// 开放区间("present")锚定到referenceYear，整年计算不含月份零头。
// 推导结果不在合理区间内时返回哨兵值。
func ExtractExperienceYears(text string, referenceYear int) string {
	if years, ok := experienceFromStatements(text); ok {
		return formatYears(years)
	}
	if years, ok := experienceFromDateSpans(text, referenceYear); ok {
		return formatYears(years)
	}
	return constants.ExperienceNotSpecified
}

// experienceFromStatements 在全文中寻找显式的经验年限陈述
func experienceFromStatements(text string) (float64, bool) {
	patterns := []*regexp.Regexp{expPhraseRe, expLabeledRe, expPlusRe}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			years, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if yearsInBounds(years) {
				return years, true
			}
		}
	}
	return 0, false
}

// experienceFromDateSpans 汇总日期区间推导经验年限。
// 起始年早于1990或单段超过15年的区间视为噪声丢弃。
func experienceFromDateSpans(text string, referenceYear int) (float64, bool) {
	var total float64
	for _, m := range dateSpanRe.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil || start < constants.MinSpanStartYear {
			continue
		}

		end := referenceYear
		if yr, err := strconv.Atoi(m[2]); err == nil {
			end = yr
		}

		spanYears := end - start
		if spanYears <= 0 || spanYears > constants.MaxSingleSpanYears {
			continue
		}
		total += float64(spanYears)
	}

	if !yearsInBounds(total) {
		return 0, false
	}
	return total, true
}

// yearsInBounds 经验年限的合理区间检查（开区间）
func yearsInBounds(years float64) bool {
	return years > constants.MinExperienceYears && years < constants.MaxExperienceYears
}

// formatYears 整数直接输出，非整数保留一位小数
func formatYears(years float64) string {
	if years == math.Trunc(years) {
		return fmt.Sprintf("%d years", int(years))
	}
	return fmt.Sprintf("%.1f years", years)
}

// ParseExperienceYears 从格式化的经验字段解析出数值，
// 供合并策略校验模型输出
func ParseExperienceYears(value string) (float64, bool) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "years"))
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "year"))
	years, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return years, yearsInBounds(years)
}
