package extractor

import (
	"time"

	"resume-extract-go/internal/types"
)

// ExtractCandidateInfo 规则抽取入口：规范化文本后依次运行各字段抽取器，
// 组装出候选人记录。确定性纯函数，相同输入两次调用产出相同记录。
// Identity与来源信息由调用方在记录创建后附加。
func ExtractCandidateInfo(text string, extractAdditionalFields bool) *types.CandidateRecord {
	return ExtractCandidateInfoAt(text, extractAdditionalFields, time.Now().Year())
}

// ExtractCandidateInfoAt 与ExtractCandidateInfo相同，
// 但开放日期区间锚定到给定年份而非当前系统年份
func ExtractCandidateInfoAt(text string, extractAdditionalFields bool, referenceYear int) *types.CandidateRecord {
	normalized := NormalizeText(text)

	record := &types.CandidateRecord{
		Name:            ExtractName(normalized),
		Email:           types.StrPtr(ExtractEmail(normalized)),
		Phone:           types.StrPtr(ExtractPhone(normalized)),
		ExperienceYears: ExtractExperienceYears(normalized, referenceYear),
		LinkedinURL:     types.StrPtr(ExtractLinkedinURL(normalized)),
		PrimarySkills:   ExtractPrimarySkills(normalized),
		SecondarySkills: ExtractSecondarySkills(normalized),
	}

	if extractAdditionalFields {
		record.AdditionalFields = ExtractAdditionalSections(normalized)
	}
	return record
}
