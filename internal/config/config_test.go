package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644), "无法写入临时配置文件")
	return configPath
}

func TestLoadConfig(t *testing.T) {
	yamlContent := `
model:
  api_key: "key-from-file"
  name: "qwen-plus"
  fallback_name: "qwen-turbo"
  temperature: 0.1
  task_models:
    candidate_extract: "qwen-max"
tika:
  type: "tika"
  server_url: "http://localhost:9998"
server:
  address: ":9090"
extractor:
  reference_year: 2025
  batch_concurrency: 3
  batch_pause: "500ms"
logger:
  level: "debug"
`
	configPath := writeTempConfig(t, yamlContent)

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载正确语法的配置不应失败")
	require.NotNil(t, config)

	assert.Equal(t, "key-from-file", config.Model.APIKey, "API Key应从文件加载")
	assert.Equal(t, "qwen-plus", config.Model.Name)
	assert.Equal(t, "qwen-turbo", config.Model.FallbackName)
	assert.Equal(t, ":9090", config.Server.Address)
	assert.Equal(t, 2025, config.Extractor.ReferenceYear)
	assert.Equal(t, 3, config.Extractor.BatchConcurrency)
	assert.Equal(t, "tika", config.Tika.Type)
	assert.Equal(t, "debug", config.Logger.Level)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	configPath := writeTempConfig(t, `model:
  api_key: "k"
`)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.Server.Address, "缺省服务器地址应被填充")
	assert.Equal(t, 5, config.Extractor.BatchConcurrency, "缺省批处理并发应被填充")
	assert.Equal(t, "1s", config.Extractor.BatchPause, "缺省批次停顿应被填充")
	assert.Equal(t, 8000, config.Extractor.TruncateChars, "缺省截断长度应被填充")
	assert.Equal(t, 2, config.Model.MaxRetries, "缺省重试次数应被填充")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MODEL_API_KEY", "key-from-env")
	t.Setenv("MODEL_NAME", "model-from-env")

	configPath := writeTempConfig(t, `model:
  api_key: "key-from-file"
  name: "model-from-file"
`)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", config.Model.APIKey, "环境变量应覆盖文件中的API Key")
	assert.Equal(t, "model-from-env", config.Model.Name, "环境变量应覆盖文件中的模型名")
}

func TestGetModelForTask(t *testing.T) {
	config := &Config{
		Model: ModelConfig{
			Name: "default-model",
			TaskModels: map[string]string{
				"candidate_extract": "task-model",
			},
		},
	}

	assert.Equal(t, "task-model", config.GetModelForTask("candidate_extract"), "任务专用模型应优先")
	assert.Equal(t, "default-model", config.GetModelForTask("unknown_task"), "未配置的任务应回退到默认模型")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, GetDuration("500ms", time.Second), "合法时长应被解析")
	assert.Equal(t, time.Second, GetDuration("", time.Second), "空字符串应使用默认值")
	assert.Equal(t, time.Second, GetDuration("oops", time.Second), "非法时长应使用默认值")
}
