package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runger/selectpro/pkg/picker"
)

// Page size bounds applied by Validate.
const (
	MinPageSize = 3
	MaxPageSize = 50
)

// Config represents the selectpro configuration.
type Config struct {
	Picker  PickerConfig  `yaml:"picker"`
	Theme   ThemeConfig   `yaml:"theme"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

// PickerConfig holds prompt behavior settings.
type PickerConfig struct {
	PageSize            int    `yaml:"page_size"`              // Rows per page
	Loop                bool   `yaml:"loop"`                   // Wrap the cursor around the list
	InputDelayMs        int    `yaml:"input_delay_ms"`         // Debounce before a source fetch
	EmptyText           string `yaml:"empty_text"`             // Shown when nothing matches
	Placeholder         string `yaml:"placeholder"`            // Shown in the empty filter input
	ToggleAll           bool   `yaml:"toggle_all"`             // Enable ctrl+a in multi-select mode
	ConfirmDelete       bool   `yaml:"confirm_delete"`         // Two presses to remove a selection
	ClearFilterOnSelect bool   `yaml:"clear_filter_on_select"` // Reset the filter after a toggle
	ShowSelections      string `yaml:"show_selections"`        // none, append or prepend
	Matcher             string `yaml:"matcher"`                // fold, exact or fuzzy
	ExecTimeoutMs       int    `yaml:"exec_timeout_ms"`        // Timeout for --exec commands
}

// ThemeConfig holds theme overrides. Empty values keep the built-in theme.
type ThemeConfig struct {
	Checked        string `yaml:"checked"`
	Unchecked      string `yaml:"unchecked"`
	Cursor         string `yaml:"cursor"`
	InputCursor    string `yaml:"input_cursor"`
	MessageColor   string `yaml:"message_color"`
	AnswerColor    string `yaml:"answer_color"`
	HighlightColor string `yaml:"highlight_color"`
	ErrorColor     string `yaml:"error_color"`
	HelpColor      string `yaml:"help_color"`
	KeyColor       string `yaml:"key_color"`
	HelpMode       string `yaml:"help_mode"` // auto, always or never
	Spinner        string `yaml:"spinner"`   // See SpinnerNames
}

// LogConfig holds logging settings. The log never goes to the terminal the
// picker draws on.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// HistoryConfig holds settings of the history command.
type HistoryConfig struct {
	Shell           string `yaml:"shell"`            // auto, bash, zsh or fish
	File            string `yaml:"file"`             // History file path (overrides the shell default)
	Limit           int    `yaml:"limit"`            // Max entries shown per search
	Dedupe          bool   `yaml:"dedupe"`           // Show each command once
	Redact          bool   `yaml:"redact"`           // Mask secrets in displayed commands
	MarkDestructive bool   `yaml:"mark_destructive"` // Flag rm -rf, git reset --hard and friends
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			PageSize:       picker.DefaultPageSize,
			Loop:           true,
			InputDelayMs:   int(picker.DefaultInputDelay / time.Millisecond),
			EmptyText:      picker.DefaultEmptyText,
			Placeholder:    picker.DefaultPlaceholder,
			ShowSelections: "none",
			Matcher:        "fold",
			ExecTimeoutMs:  5000,
		},
		Theme: ThemeConfig{
			HelpMode: string(picker.HelpAuto),
			Spinner:  "dot",
		},
		Log: LogConfig{
			Level: "warn",
		},
		History: HistoryConfig{
			Shell:           "auto",
			Limit:           500,
			Dedupe:          true,
			Redact:          true,
			MarkDestructive: true,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "picker.page_size" or "theme.help_mode"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "picker":
		return c.getPickerField(field)
	case "theme":
		return c.getThemeField(field)
	case "log":
		return c.getLogField(field)
	case "history":
		return c.getHistoryField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "picker":
		return c.setPickerField(field, value)
	case "theme":
		return c.setThemeField(field, value)
	case "log":
		return c.setLogField(field, value)
	case "history":
		return c.setHistoryField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getPickerField(field string) (string, error) {
	p := &c.Picker
	switch field {
	case "page_size":
		return strconv.Itoa(p.PageSize), nil
	case "loop":
		return strconv.FormatBool(p.Loop), nil
	case "input_delay_ms":
		return strconv.Itoa(p.InputDelayMs), nil
	case "empty_text":
		return p.EmptyText, nil
	case "placeholder":
		return p.Placeholder, nil
	case "toggle_all":
		return strconv.FormatBool(p.ToggleAll), nil
	case "confirm_delete":
		return strconv.FormatBool(p.ConfirmDelete), nil
	case "clear_filter_on_select":
		return strconv.FormatBool(p.ClearFilterOnSelect), nil
	case "show_selections":
		return p.ShowSelections, nil
	case "matcher":
		return p.Matcher, nil
	case "exec_timeout_ms":
		return strconv.Itoa(p.ExecTimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	p := &c.Picker
	switch field {
	case "page_size":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for page_size: %w", err)
		}
		p.PageSize = clamp(v, MinPageSize, MaxPageSize)
	case "loop":
		return setBool(&p.Loop, "loop", value)
	case "input_delay_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for input_delay_ms: %w", err)
		}
		if v < 0 {
			return errors.New("input_delay_ms must be >= 0")
		}
		p.InputDelayMs = v
	case "empty_text":
		p.EmptyText = value
	case "placeholder":
		p.Placeholder = value
	case "toggle_all":
		return setBool(&p.ToggleAll, "toggle_all", value)
	case "confirm_delete":
		return setBool(&p.ConfirmDelete, "confirm_delete", value)
	case "clear_filter_on_select":
		return setBool(&p.ClearFilterOnSelect, "clear_filter_on_select", value)
	case "show_selections":
		if _, err := picker.ParsePlacement(value); err != nil {
			return err
		}
		p.ShowSelections = value
	case "matcher":
		if !isValidMatcher(value) {
			return fmt.Errorf("invalid matcher: %s (must be fold, exact, or fuzzy)", value)
		}
		p.Matcher = value
	case "exec_timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for exec_timeout_ms: %w", err)
		}
		if v <= 0 {
			return errors.New("exec_timeout_ms must be > 0")
		}
		p.ExecTimeoutMs = v
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) themeFields() map[string]*string {
	t := &c.Theme
	return map[string]*string{
		"checked":         &t.Checked,
		"unchecked":       &t.Unchecked,
		"cursor":          &t.Cursor,
		"input_cursor":    &t.InputCursor,
		"message_color":   &t.MessageColor,
		"answer_color":    &t.AnswerColor,
		"highlight_color": &t.HighlightColor,
		"error_color":     &t.ErrorColor,
		"help_color":      &t.HelpColor,
		"key_color":       &t.KeyColor,
		"help_mode":       &t.HelpMode,
		"spinner":         &t.Spinner,
	}
}

func (c *Config) getThemeField(field string) (string, error) {
	ptr, ok := c.themeFields()[field]
	if !ok {
		return "", fmt.Errorf("unknown field: theme.%s", field)
	}
	return *ptr, nil
}

func (c *Config) setThemeField(field, value string) error {
	ptr, ok := c.themeFields()[field]
	if !ok {
		return fmt.Errorf("unknown field: theme.%s", field)
	}
	switch field {
	case "help_mode":
		if _, err := picker.ParseHelpMode(value); err != nil {
			return err
		}
	case "spinner":
		if _, ok := SpinnerByName(value); !ok {
			return fmt.Errorf("invalid spinner: %s (must be one of %s)", value, strings.Join(SpinnerNames(), ", "))
		}
	}
	*ptr = value
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "shell":
		return c.History.Shell, nil
	case "file":
		return c.History.File, nil
	case "limit":
		return strconv.Itoa(c.History.Limit), nil
	case "dedupe":
		return strconv.FormatBool(c.History.Dedupe), nil
	case "redact":
		return strconv.FormatBool(c.History.Redact), nil
	case "mark_destructive":
		return strconv.FormatBool(c.History.MarkDestructive), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "shell":
		if !isValidShell(value) {
			return fmt.Errorf("invalid shell: %s (must be auto, bash, zsh, or fish)", value)
		}
		c.History.Shell = value
	case "file":
		c.History.File = value
	case "limit":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for limit: %w", err)
		}
		if v <= 0 {
			return errors.New("limit must be > 0")
		}
		c.History.Limit = v
	case "dedupe":
		return setBool(&c.History.Dedupe, "dedupe", value)
	case "redact":
		return setBool(&c.History.Redact, "redact", value)
	case "mark_destructive":
		return setBool(&c.History.MarkDestructive, "mark_destructive", value)
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

// Validate validates the configuration. Out-of-range numbers are clamped;
// unknown enumeration values are errors.
func (c *Config) Validate() error {
	c.Picker.PageSize = clamp(c.Picker.PageSize, MinPageSize, MaxPageSize)

	if c.Picker.InputDelayMs < 0 {
		return errors.New("picker.input_delay_ms must be >= 0")
	}
	if c.Picker.ExecTimeoutMs <= 0 {
		return errors.New("picker.exec_timeout_ms must be > 0")
	}
	if _, err := picker.ParsePlacement(c.Picker.ShowSelections); err != nil {
		return fmt.Errorf("picker.show_selections: %w", err)
	}
	if !isValidMatcher(c.Picker.Matcher) {
		return fmt.Errorf("picker.matcher must be fold, exact, or fuzzy (got: %s)", c.Picker.Matcher)
	}

	if _, err := picker.ParseHelpMode(c.Theme.HelpMode); err != nil {
		return fmt.Errorf("theme.help_mode: %w", err)
	}
	if _, ok := SpinnerByName(c.Theme.Spinner); !ok {
		return fmt.Errorf("theme.spinner is unknown (got: %s)", c.Theme.Spinner)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	if !isValidShell(c.History.Shell) {
		return fmt.Errorf("history.shell must be auto, bash, zsh, or fish (got: %s)", c.History.Shell)
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be > 0")
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidMatcher(m string) bool {
	switch m {
	case "fold", "exact", "fuzzy":
		return true
	default:
		return false
	}
}

func isValidShell(shell string) bool {
	switch shell {
	case "auto", "bash", "zsh", "fish":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SELECTPRO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("SELECTPRO_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("SELECTPRO_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("SELECTPRO_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Picker.PageSize = clamp(n, MinPageSize, MaxPageSize)
		}
	}
	if v := os.Getenv("SELECTPRO_HELP_MODE"); v != "" {
		if _, err := picker.ParseHelpMode(v); err == nil {
			c.Theme.HelpMode = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"picker.page_size",
		"picker.loop",
		"picker.input_delay_ms",
		"picker.empty_text",
		"picker.placeholder",
		"picker.toggle_all",
		"picker.confirm_delete",
		"picker.clear_filter_on_select",
		"picker.show_selections",
		"picker.matcher",
		"picker.exec_timeout_ms",
		"theme.checked",
		"theme.unchecked",
		"theme.cursor",
		"theme.input_cursor",
		"theme.message_color",
		"theme.answer_color",
		"theme.highlight_color",
		"theme.error_color",
		"theme.help_color",
		"theme.key_color",
		"theme.help_mode",
		"theme.spinner",
		"log.level",
		"log.file",
		"history.shell",
		"history.file",
		"history.limit",
		"history.dedupe",
		"history.redact",
		"history.mark_destructive",
	}
}

// Override converts the file settings into a prompt override.
func (c *Config) Override() picker.Override {
	p := c.Picker
	o := picker.Override{
		PageSize:            &p.PageSize,
		Loop:                &p.Loop,
		CanToggleAll:        &p.ToggleAll,
		ConfirmDelete:       &p.ConfirmDelete,
		ClearFilterOnSelect: &p.ClearFilterOnSelect,
		Theme:               c.Theme.Override(),
	}
	delay := time.Duration(p.InputDelayMs) * time.Millisecond
	if delay > 0 {
		o.InputDelay = &delay
	}
	if p.EmptyText != "" {
		o.EmptyText = &p.EmptyText
	}
	if p.Placeholder != "" {
		o.Placeholder = &p.Placeholder
	}
	if placement, err := picker.ParsePlacement(p.ShowSelections); err == nil {
		o.ShowSelections = &placement
	}
	return o
}

// Override converts the theme settings into a theme override.
func (t ThemeConfig) Override() picker.ThemeOverride {
	o := picker.ThemeOverride{
		Checked:        nonEmpty(t.Checked),
		Unchecked:      nonEmpty(t.Unchecked),
		Cursor:         nonEmpty(t.Cursor),
		InputCursor:    nonEmpty(t.InputCursor),
		MessageColor:   nonEmpty(t.MessageColor),
		AnswerColor:    nonEmpty(t.AnswerColor),
		HighlightColor: nonEmpty(t.HighlightColor),
		ErrorColor:     nonEmpty(t.ErrorColor),
		HelpColor:      nonEmpty(t.HelpColor),
		KeyColor:       nonEmpty(t.KeyColor),
	}
	if mode, err := picker.ParseHelpMode(t.HelpMode); err == nil && t.HelpMode != "" {
		o.HelpMode = &mode
	}
	if sp, ok := SpinnerByName(t.Spinner); ok && t.Spinner != "" {
		o.Spinner = &sp
	}
	return o
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func setBool(dst *bool, name, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}
	*dst = v
	return nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
