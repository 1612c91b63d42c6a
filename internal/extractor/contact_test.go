package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmail(t *testing.T) {
	t.Run("首个邮箱小写化", func(t *testing.T) {
		got := ExtractEmail("Contact: John.Smith@Example.COM or backup@foo.org")
		assert.Equal(t, "john.smith@example.com", got, "应返回第一个邮箱并小写化")
	})

	t.Run("无邮箱返回空串", func(t *testing.T) {
		assert.Equal(t, "", ExtractEmail("no contact info here"), "无邮箱时应返回空串")
	})
}

func TestExtractPhone(t *testing.T) {
	t.Run("带国家码的号码", func(t *testing.T) {
		got := ExtractPhone("John Smith\n+1 415 555 0100")
		assert.Equal(t, "+1 415 555 0100", got, "带国家码的号码应原样保留允许字符")
	})

	t.Run("带标签的号码优先", func(t *testing.T) {
		got := ExtractPhone("Phone: 98765 43210\nFax 1234567")
		assert.Equal(t, "98765 43210", got, "标签形式应最先命中")
	})

	t.Run("规范化只保留允许字符", func(t *testing.T) {
		got := ExtractPhone("Mobile: +91.98765*43210")
		assert.NotContains(t, got, "*", "规范化后不应包含非法字符")
		assert.NotContains(t, got, ".", "规范化后不应包含点号")
	})

	t.Run("无号码返回空串", func(t *testing.T) {
		assert.Equal(t, "", ExtractPhone("call me maybe"), "无号码时应返回空串")
	})
}

func TestExtractLinkedinURL(t *testing.T) {
	t.Run("完整URL重写为规范形式", func(t *testing.T) {
		got := ExtractLinkedinURL("see https://www.linkedin.com/in/john-smith-123 for details")
		assert.Equal(t, "https://linkedin.com/in/john-smith-123", got, "完整URL应重写为规范形式")
	})

	t.Run("标签加handle", func(t *testing.T) {
		got := ExtractLinkedinURL("LinkedIn: johnsmith")
		assert.Equal(t, "https://linkedin.com/in/johnsmith", got, "标签后的handle应被重写为完整URL")
	})

	t.Run("孤立的linkedin一词不产生URL", func(t *testing.T) {
		got := ExtractLinkedinURL("I am active on linkedin and twitter")
		assert.Equal(t, "", got, "没有可分离handle时不应合成URL")
	})

	t.Run("标签后跟linkedin自身不产生URL", func(t *testing.T) {
		got := ExtractLinkedinURL("linkedin: linkedin")
		assert.Equal(t, "", got, "handle为linkedin自身时应视为无效")
	})
}

func TestContactValidityPredicates(t *testing.T) {
	assert.True(t, IsValidEmail("a.b@example.com"), "规范邮箱应通过校验")
	assert.False(t, IsValidEmail("not-an-email"), "非邮箱应不通过校验")

	assert.True(t, IsValidPhone("+1 415 555 0100"), "规范电话应通过校验")
	assert.False(t, IsValidPhone("12345"), "过短的号码应不通过校验")
	assert.False(t, IsValidPhone("+1 415 555 0100 ext abc"), "含非法字符的号码应不通过校验")

	assert.True(t, IsValidLinkedinURL("https://linkedin.com/in/x"), "规范主页URL应通过校验")
	assert.False(t, IsValidLinkedinURL("https://example.com/in/x"), "其他域名应不通过校验")
}
