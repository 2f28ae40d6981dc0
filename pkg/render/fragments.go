package render

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// BlockKind selects the styling of a message block.
type BlockKind string

const (
	BlockWarning BlockKind = "warning"
	BlockError   BlockKind = "error"
	BlockStatus  BlockKind = "status"
)

var blockClasses = map[BlockKind]string{
	BlockWarning: "messages messages--warning",
	BlockError:   "messages messages--error",
	BlockStatus:  "messages--success messages messages--status",
}

const lineBreak = "<br>"

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// Block renders messages as a styled block, one message per line. Message
// text is escaped; an empty message list renders an empty string.
func Block(kind BlockKind, messages []string) string {
	class, ok := blockClasses[kind]
	if !ok {
		class = blockClasses[BlockStatus]
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		if trimmed := strings.TrimSpace(msg); trimmed != "" {
			lines = append(lines, html.EscapeString(trimmed))
		}
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(strings.Join(lines, lineBreak))
	b.WriteString(`</div>`)
	return Sanitize(b.String())
}

// Sanitize strips any markup that message regions do not render.
func Sanitize(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	return fragmentSanitizer().Sanitize(fragment)
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("div", "br")
		policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)).OnElements("div")
		fragmentPolicy = policy
	})
	return fragmentPolicy
}
