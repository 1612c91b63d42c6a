package types

import (
	"time"
)

// CandidateRecord 抽取管线对单份简历文档的结构化输出
type CandidateRecord struct {
	// Identity 记录的唯一标识，创建时分配，之后不可变
	Identity string `json:"id"`

	// Name 候选人姓名，缺失时为哨兵值而非空串
	Name string `json:"name"`

	// Email 小写化后的邮箱地址，缺失为nil
	Email *string `json:"email"`

	// Phone 规范化后的电话号码（仅保留数字和 + - ( ) 空格），缺失为nil
	Phone *string `json:"phone"`

	// ExperienceYears 形如 "5 years" 的格式化字符串，缺失时为哨兵值
	ExperienceYears string `json:"experienceYears"`

	// LinkedinURL 完整的 https://linkedin.com/in/<handle> 形式，缺失为nil
	LinkedinURL *string `json:"linkedinUrl"`

	// PrimarySkills 按相关度排序的主技能列表，去重且有上限
	PrimarySkills []string `json:"primarySkills"`

	// SecondarySkills 按相关度排序的辅助技能列表，去重且有上限
	SecondarySkills []string `json:"secondarySkills"`

	// AdditionalFields 仅在显式请求时填充的扩展字段
	AdditionalFields *AdditionalFields `json:"additionalFields,omitempty"`

	// 以下为调用方在抽取完成后附加的来源信息
	SourceFilePath   string    `json:"sourceFilePath,omitempty"`
	OriginalFilename string    `json:"originalFilename,omitempty"`
	FileSize         int64     `json:"fileSize,omitempty"`
	ProcessedAt      time.Time `json:"processedAt,omitempty"`

	// RawText 调试用的原始文本，默认不序列化到响应
	RawText string `json:"-"`
}

// AdditionalFields 扩展抽取字段，全部为尽力而为的单值或词表命中
type AdditionalFields struct {
	Education      *string  `json:"education"`
	Location       *string  `json:"location"`
	CurrentRole    *string  `json:"currentRole"`
	Summary        *string  `json:"summary"`
	Certifications []string `json:"certifications"`
	Languages      []string `json:"languages"`
	Projects       *string  `json:"projects"`
	Companies      *string  `json:"companies"`
}

// StrPtr 返回字符串指针，空串返回nil，便于构造可空字段
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
