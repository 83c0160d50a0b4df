// Package docs holds the embedded documentation topics served by the
// topic command.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.md
var pages embed.FS

// GetTopic returns the content of one documentation topic. The "*"
// wildcard returns every topic.
func GetTopic(topic string) (string, error) {
	return GetTopics(topic)
}

// GetTopics concatenates the content of the named topics. A "*" in the
// list expands to all topics in alphabetical order; the expansion never
// includes the readme index itself.
func GetTopics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		if name == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			expanded, err := GetTopics(all...)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
			continue
		}

		content, err := pages.ReadFile(name + ".md")
		if err != nil {
			return "", fmt.Errorf("topic %q not found: %w", name, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics lists the available topics, excluding the readme index.
func GetAllTopics() ([]string, error) {
	entries, err := pages.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name != "readme" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
