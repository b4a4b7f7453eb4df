// Package sources provides the option sources behind the selectpro CLI:
// static option files, external commands and SQLite queries.
package sources

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/runger/selectpro/pkg/picker"
)

// Format names an option file encoding.
type Format string

const (
	FormatAuto  Format = "auto"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatLines Format = "lines"
)

// ParseFormat validates a format name. An empty name means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatYAML, FormatJSON, FormatTOML, FormatLines:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "txt", "text", "plain":
		return FormatLines, nil
	default:
		return "", fmt.Errorf("unknown format: %s (must be auto, yaml, json, toml, or lines)", s)
	}
}

// DetectFormat picks a format from a file extension. Unknown extensions
// and stdin ("-") are read as plain lines.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatLines
	}
}

// entry is one option as written in a structured file. It accepts either
// a bare scalar (the value) or a mapping.
type entry struct {
	Value       string `yaml:"value" toml:"value"`
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	Disabled    any    `yaml:"disabled" toml:"disabled"`   // bool or reason
	Separator   any    `yaml:"separator" toml:"separator"` // true or label
}

func (e *entry) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		e.Value = n.Value
		return nil
	}
	type plain entry
	return n.Decode((*plain)(e))
}

// optionFile is the mapping form of a structured file.
type optionFile struct {
	Options []entry `yaml:"options" toml:"options"`
}

// LoadFile reads an option list from path. A path of "-" reads stdin.
func LoadFile(path string, format Format) ([]picker.Item[string], error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	return Parse(data, format)
}

// Parse decodes an option list in the given format.
func Parse(data []byte, format Format) ([]picker.Item[string], error) {
	switch format {
	case FormatYAML, FormatJSON:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	case FormatLines, FormatAuto, "":
		return ParseLines(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// parseYAML accepts a top-level sequence or a mapping with an "options"
// key. JSON documents decode through the same path.
func parseYAML(data []byte) ([]picker.Item[string], error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	var entries []entry
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse options: %w", err)
		}
	case yaml.MappingNode:
		var f optionFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse options: %w", err)
		}
		entries = f.Options
	default:
		return nil, fmt.Errorf("failed to parse options: expected a list or an 'options' key")
	}
	return toItems(entries)
}

func parseTOML(data []byte) ([]picker.Item[string], error) {
	var f optionFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}
	return toItems(f.Options)
}

func toItems(entries []entry) ([]picker.Item[string], error) {
	items := make([]picker.Item[string], 0, len(entries))
	for i, e := range entries {
		if label, ok := separatorLabel(e.Separator); ok {
			items = append(items, picker.Sep[string](picker.Sanitize(label)))
			continue
		}
		if e.Value == "" && e.Name == "" {
			return nil, fmt.Errorf("option %d: value is required", i+1)
		}
		opt := picker.Option[string]{
			Value:       e.Value,
			Name:        picker.Sanitize(e.Name),
			Description: picker.Sanitize(e.Description),
		}
		if opt.Value == "" {
			opt.Value = e.Name
		}
		opt.Disabled, opt.DisabledReason = disabledState(e.Disabled)
		items = append(items, picker.Opt(opt))
	}
	return items, nil
}

func separatorLabel(v any) (string, bool) {
	switch s := v.(type) {
	case bool:
		return "", s
	case string:
		return s, true
	default:
		return "", false
	}
}

func disabledState(v any) (bool, string) {
	switch d := v.(type) {
	case bool:
		return d, ""
	case string:
		return disabledText(d)
	default:
		return false, ""
	}
}

// disabledText interprets a textual disabled column: boolean spellings
// toggle the flag, any other non-empty text is the reason.
func disabledText(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, ""
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, ""
	}
	return true, picker.Sanitize(s)
}

// ParseLines reads plain option lines of the form
// "value[\tname[\tdescription]]". Blank lines are skipped and lines
// starting with "---" are separators labeled by the rest of the line.
func ParseLines(r io.Reader) ([]picker.Item[string], error) {
	var items []picker.Item[string]
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "---") {
			items = append(items, picker.Sep[string](picker.Sanitize(strings.TrimSpace(line[3:]))))
			continue
		}
		items = append(items, picker.Opt(parseLine(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	return items, nil
}

func parseLine(line string) picker.Option[string] {
	fields := strings.SplitN(line, "\t", 3)
	opt := picker.Option[string]{Value: fields[0]}
	if len(fields) > 1 {
		opt.Name = picker.Sanitize(fields[1])
	} else if clean := picker.Sanitize(fields[0]); clean != fields[0] {
		opt.Name = clean
	}
	if len(fields) > 2 {
		opt.Description = picker.Sanitize(fields[2])
	}
	return opt
}
