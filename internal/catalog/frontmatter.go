package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

type frontMatter struct {
	Title    string   `yaml:"title,omitempty"`
	Language string   `yaml:"language,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

func (fm frontMatter) empty() bool {
	return fm.Title == "" && fm.Language == "" && len(fm.Tags) == 0
}

// splitFrontMatter separates a leading YAML block from the body. Content
// without a well-formed block is returned unchanged as the body.
func splitFrontMatter(content string) (frontMatter, string) {
	trimmed := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(trimmed, frontMatterDelim+"\n") && !strings.HasPrefix(trimmed, frontMatterDelim+"\r\n") {
		return frontMatter{}, content
	}

	lines := strings.Split(trimmed, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelim {
			end = i
			break
		}
	}
	if end <= 0 {
		return frontMatter{}, content
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		storeLog.Warn("ignoring malformed front matter", "error", err)
		return frontMatter{}, content
	}
	fm.Tags = normalizeTags(fm.Tags)
	body := strings.Join(lines[end+1:], "\n")
	return fm, strings.TrimLeft(body, "\r\n")
}

// joinFrontMatter prepends fm to body. An empty fm writes the body alone.
func joinFrontMatter(fm frontMatter, body string) (string, error) {
	if fm.empty() {
		return normalizeContent(body), nil
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString(frontMatterDelim + "\n")
	b.Write(data)
	b.WriteString(frontMatterDelim + "\n\n")
	b.WriteString(body)
	return normalizeContent(b.String()), nil
}

func normalizeTags(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, value := range values {
		tag := strings.ToLower(strings.TrimSpace(value))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
