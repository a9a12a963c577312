// Package parser parses entity files: YAML front matter followed by a
// body, which may be markdown.
package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	Title    string
	Bag      string
	Tags     []string
	Modifier string
	Modified string
	Type     string

	// Fields are the entries of a fields: mapping plus any other top-level
	// keys, rendered as strings.
	Fields map[string]string

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from content.
// Returns nil if no frontmatter is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok {
		return nil, nil
	}
	if endLine == -1 {
		return nil, fmt.Errorf("frontmatter is not closed with ---")
	}

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endLine], "\n")), &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}

	fm := &Frontmatter{
		EndLine: endLine + 1,
		Fields:  make(map[string]string),
	}

	for key, value := range yamlData {
		switch key {
		case "title":
			fm.Title = scalarString(value)
		case "bag":
			fm.Bag = scalarString(value)
		case "modifier":
			fm.Modifier = scalarString(value)
		case "modified":
			fm.Modified = scalarString(value)
		case "type":
			fm.Type = scalarString(value)
		case "tags":
			tags, err := tagList(value)
			if err != nil {
				return nil, err
			}
			fm.Tags = tags
		case "fields":
			nested, ok := value.(map[string]interface{})
			if !ok && value != nil {
				return nil, fmt.Errorf("fields must be a mapping, got %T", value)
			}
			for name, v := range nested {
				fm.Fields[name] = scalarString(v)
			}
		default:
			fm.Fields[key] = scalarString(value)
		}
	}

	return fm, nil
}

// tagList accepts a YAML list or a comma-separated string.
func tagList(value interface{}) ([]string, error) {
	var tags []string
	switch v := value.(type) {
	case nil:
	case string:
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	case []interface{}:
		for _, item := range v {
			if t := strings.TrimSpace(scalarString(item)); t != "" {
				tags = append(tags, t)
			}
		}
	default:
		return nil, fmt.Errorf("tags must be a list or string, got %T", value)
	}
	sort.Strings(tags)
	return tags, nil
}

// scalarString renders a decoded YAML value the way it would be searched.
func scalarString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
