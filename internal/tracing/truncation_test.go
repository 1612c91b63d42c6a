package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""), "空值应保持为空")
	assert.Equal(t, "*", MaskPII("a"), "单字符应被完全掩码")
	assert.Equal(t, "张*", MaskPII("张三"), "两字符应保留首位")
	assert.Equal(t, "王*明", MaskPII("王小明"), "三字符应保留首尾")
	assert.Equal(t, "jo***************om", MaskPII("john.smith@mail.com"), "长值应保留前后两位")
}

func TestSafeAttributeValue(t *testing.T) {
	masked := SafeAttributeValue("candidate.email", "john.smith@mail.com", DefaultMaxLength)
	assert.Contains(t, masked, "*", "邮箱属性应被掩码")

	plain := SafeAttributeValue("document.filename", "resume.pdf", DefaultMaxLength)
	assert.Equal(t, "resume.pdf", plain, "非敏感短属性应原样返回")
}

func TestTruncateString(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'x'
	}
	out := TruncateString(string(long), 21)
	assert.Len(t, []rune(out), 21, "截断结果应不超过上限")
	assert.Contains(t, out, "...", "截断应带省略号")

	assert.Equal(t, "short", TruncateString("short", 21), "短字符串应原样返回")
}
