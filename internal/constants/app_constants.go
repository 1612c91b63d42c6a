package constants

import "time"

const (
	// 应用级常量
	DefaultPipelineVer = "1.0"

	// 字段缺失时的哨兵值
	NameNotFound           = "Name Not Found"
	ExperienceNotSpecified = "Not specified"

	// 经验年限的合理区间（开区间）与单段跨度限制
	MinExperienceYears = 0.0
	MaxExperienceYears = 50.0
	MinSpanStartYear   = 1990
	MaxSingleSpanYears = 15

	// 技能列表上限
	MaxPrimarySkills   = 6
	MaxSecondarySkills = 6

	// 姓名策略扫描的行数窗口
	NameScanLines = 8

	// 技能上下文窗口半径（字符）
	SkillContextRadius = 50

	// 提交给模型前的文本截断长度（字符）
	ModelInputMaxChars = 8000

	// 批处理并发上限与批间停顿
	BatchModelConcurrency = 5
	BatchPauseInterval    = 1 * time.Second
)
