package providers

import "strings"

// flagshipPrefixes lists model-name patterns recognized as a provider's
// highest-capability tier. Both workflows consult this single table when
// picking the synthesis model.
var flagshipPrefixes = []string{
	"gpt-4",
	"deepseek-reasoner",
	"claude-opus",
	"claude-3-opus",
	"qwen-max",
	"glm-4",
	"moonshot-v1-128k",
	"ernie-4",
}

// IsFlagship reports whether a model identifier names a flagship-tier model.
func IsFlagship(model string) bool {
	for _, prefix := range flagshipPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
