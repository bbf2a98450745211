// Package providers maps model identifiers to provider families, default
// endpoints and capability tiers.
package providers

import (
	"strings"

	"dev.helix.debate/internal/models"
)

// Default chat-completion base URLs per provider family.
const (
	DeepSeekBaseURL  = "https://api.deepseek.com/v1"
	AnthropicBaseURL = "https://api.anthropic.com/v1"
	MoonshotBaseURL  = "https://api.moonshot.cn/v1"
	ChatGLMBaseURL   = "https://open.bigmodel.cn/api/paas/v4"
	QwenBaseURL      = "https://dashscope.aliyuncs.com/api/v1"
	ErnieBaseURL     = "https://aip.baidubce.com/rpc/2.0/ai_custom/v1"
)

// Resolution is the outcome of resolving a model identifier.
type Resolution struct {
	Provider models.ProviderType
	// BaseURL is empty for providers reachable at their client default
	// (OpenAI).
	BaseURL string
	// Recognized is false when the model matched no prefix rule and the
	// OpenAI-compatible fallback was assumed. Callers should surface a
	// warning; resolution itself never fails.
	Recognized bool
}

type prefixRule struct {
	prefixes []string
	provider models.ProviderType
	baseURL  string
}

// Ordered prefix table, first match wins. 通义 and 文心 are the localized
// aliases for Qwen and ERNIE model families.
var prefixTable = []prefixRule{
	{[]string{"gpt"}, models.ProviderOpenAI, ""},
	{[]string{"deepseek"}, models.ProviderDeepSeek, DeepSeekBaseURL},
	{[]string{"claude"}, models.ProviderAnthropic, AnthropicBaseURL},
	{[]string{"moonshot"}, models.ProviderMoonshot, MoonshotBaseURL},
	{[]string{"glm"}, models.ProviderChatGLM, ChatGLMBaseURL},
	{[]string{"qwen", "通义"}, models.ProviderQwen, QwenBaseURL},
	{[]string{"ernie", "文心"}, models.ProviderErnie, ErnieBaseURL},
}

// Resolve determines the provider family and endpoint for a model
// identifier. An explicit base URL always wins, regardless of what the
// model name implies. Resolve is pure and total: unknown models fall back
// to the OpenAI-compatible default with Recognized=false.
func Resolve(model, explicitBaseURL string) Resolution {
	if explicitBaseURL != "" {
		return Resolution{
			Provider:   models.ProviderCustom,
			BaseURL:    explicitBaseURL,
			Recognized: true,
		}
	}

	for _, rule := range prefixTable {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(model, prefix) {
				return Resolution{
					Provider:   rule.provider,
					BaseURL:    rule.baseURL,
					Recognized: true,
				}
			}
		}
	}

	return Resolution{Provider: models.ProviderOpenAI, Recognized: false}
}

// Backend builds an immutable BackendConfig from resolved provider data.
func Backend(model, apiKey, explicitBaseURL string, temperature float64) (models.BackendConfig, Resolution) {
	res := Resolve(model, explicitBaseURL)
	return models.BackendConfig{
		Model:       model,
		APIKey:      apiKey,
		Provider:    res.Provider,
		BaseURL:     res.BaseURL,
		Temperature: temperature,
	}, res
}
