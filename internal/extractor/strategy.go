package extractor

// patternStrategy 字段级联中的一条抽取策略。
// 策略按序执行，第一个返回值通过该字段有效性检查的策略胜出。
type patternStrategy struct {
	name string
	try  func(text string) (string, bool)
}

// runCascade 依次尝试各策略，返回第一个命中的值
func runCascade(text string, strategies []patternStrategy) (string, bool) {
	for _, s := range strategies {
		if value, ok := s.try(text); ok {
			return value, true
		}
	}
	return "", false
}

// span 文本中的半开区间 [start, end)
type span struct {
	start int
	end   int
}

func (s span) overlaps(start, end int) bool {
	return start < s.end && end > s.start
}
