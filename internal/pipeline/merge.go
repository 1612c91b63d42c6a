package pipeline

import (
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/extractor"
	"resume-extract-go/internal/types"
)

// MergeRecords 按字段有效性仲裁规则记录与模型记录。
// 模型记录缺席时规则记录原样胜出。联系方式字段规则侧优先，
// 姓名与经验年限模型侧优先，技能取并集（模型在前），
// 扩展字段冲突时规则侧优先。
func MergeRecords(ruleBased, modelRecord *types.CandidateRecord) *types.CandidateRecord {
	if modelRecord == nil {
		return ruleBased
	}

	merged := &types.CandidateRecord{
		Identity:         ruleBased.Identity,
		SourceFilePath:   ruleBased.SourceFilePath,
		OriginalFilename: ruleBased.OriginalFilename,
		FileSize:         ruleBased.FileSize,
		ProcessedAt:      ruleBased.ProcessedAt,
		RawText:          ruleBased.RawText,
	}

	// 姓名：模型召回更好，非哨兵即取，否则回退规则值
	if modelRecord.Name != "" && modelRecord.Name != constants.NameNotFound {
		merged.Name = modelRecord.Name
	} else {
		merged.Name = ruleBased.Name
	}

	// 邮箱：规则值形状合法则优先
	merged.Email = pickValid(ruleBased.Email, modelRecord.Email, extractor.IsValidEmail)

	// 电话：规则值通过长度与字符集检查则优先
	merged.Phone = pickValid(ruleBased.Phone, modelRecord.Phone, extractor.IsValidPhone)

	// 经验年限：模型值可解析且在界内则优先
	if _, ok := extractor.ParseExperienceYears(modelRecord.ExperienceYears); ok {
		merged.ExperienceYears = modelRecord.ExperienceYears
	} else {
		merged.ExperienceYears = ruleBased.ExperienceYears
	}

	// LinkedIn：规则值符合规范形式则优先
	merged.LinkedinURL = pickValid(ruleBased.LinkedinURL, modelRecord.LinkedinURL, extractor.IsValidLinkedinURL)

	// 技能：模型列表在前取并集，去重后截断
	merged.PrimarySkills = extractor.DedupCapSkills(
		append(append([]string{}, modelRecord.PrimarySkills...), ruleBased.PrimarySkills...),
		constants.MaxPrimarySkills,
	)
	merged.SecondarySkills = extractor.DedupCapSkills(
		append(append([]string{}, modelRecord.SecondarySkills...), ruleBased.SecondarySkills...),
		constants.MaxSecondarySkills,
	)

	merged.AdditionalFields = mergeAdditionalFields(ruleBased.AdditionalFields, modelRecord.AdditionalFields)
	return merged
}

// pickValid 规则值通过校验则取规则值，否则取模型值
func pickValid(rule, model *string, valid func(string) bool) *string {
	if rule != nil && valid(*rule) {
		return rule
	}
	return model
}

// mergeAdditionalFields 浅合并扩展字段，两侧都有值时规则侧优先
func mergeAdditionalFields(rule, model *types.AdditionalFields) *types.AdditionalFields {
	if rule == nil {
		return model
	}
	if model == nil {
		return rule
	}

	merged := &types.AdditionalFields{
		Education:      firstNonNil(rule.Education, model.Education),
		Location:       firstNonNil(rule.Location, model.Location),
		CurrentRole:    firstNonNil(rule.CurrentRole, model.CurrentRole),
		Summary:        firstNonNil(rule.Summary, model.Summary),
		Projects:       firstNonNil(rule.Projects, model.Projects),
		Companies:      firstNonNil(rule.Companies, model.Companies),
		Certifications: rule.Certifications,
		Languages:      rule.Languages,
	}
	if len(merged.Certifications) == 0 {
		merged.Certifications = model.Certifications
	}
	if len(merged.Languages) == 0 {
		merged.Languages = model.Languages
	}
	return merged
}

func firstNonNil(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}
