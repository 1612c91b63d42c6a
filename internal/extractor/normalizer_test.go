package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Run("统一行结束符并折叠空白", func(t *testing.T) {
		raw := "John  Smith\r\nSoftware\tEngineer\r\n\r\n  john@example.com  "
		got := NormalizeText(raw)
		assert.Equal(t, "John Smith\nSoftware Engineer\njohn@example.com", got, "应折叠行内空白并移除空行")
	})

	t.Run("空输入返回空串", func(t *testing.T) {
		assert.Equal(t, "", NormalizeText(""), "空输入应返回空串")
	})

	t.Run("仅空白的输入返回空串", func(t *testing.T) {
		assert.Equal(t, "", NormalizeText("  \r\n\t \n  "), "仅空白的输入应返回空串")
	})

	t.Run("行顺序保持不变", func(t *testing.T) {
		got := NormalizeText("a\n\nb\nc")
		assert.Equal(t, "a\nb\nc", got, "移除空行后应保持原有顺序")
	})
}
