// Package redact masks secrets in command lines before they are drawn and
// recognizes commands that destroy data.
package redact

import "regexp"

// Rule replaces every match of Regex with Replacement. Replacement may
// refer to capture groups.
type Rule struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

var secretRules = []Rule{
	{
		Name:        "aws access key",
		Regex:       regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		Replacement: "[AWS_ACCESS_KEY]",
	},
	{
		Name:        "aws secret key",
		Regex:       regexp.MustCompile(`(?i)(aws_secret_access_key|secret_access_key)\s*[=:]\s*\S+`),
		Replacement: "$1=[REDACTED]",
	},
	{
		Name:        "jwt",
		Regex:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		Replacement: "[JWT]",
	},
	{
		Name:        "slack token",
		Regex:       regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z-]+`),
		Replacement: "[SLACK_TOKEN]",
	},
	{
		Name:        "github token",
		Regex:       regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
		Replacement: "[GITHUB_TOKEN]",
	},
	{
		Name:        "private key",
		Regex:       regexp.MustCompile(`(?i)(private[_-]?key)\s*[=:]\s*\S+`),
		Replacement: "$1=[REDACTED]",
	},
	{
		Name:        "assignment",
		Regex:       regexp.MustCompile(`(?i)(password|passwd|token|secret|api_key|apikey)\s*[=:]\s*\S+`),
		Replacement: "$1=[REDACTED]",
	},
	{
		Name:        "password flag",
		Regex:       regexp.MustCompile(`(?i)(--password|--token|--api-key)(\s+|=)\S+`),
		Replacement: "$1$2[REDACTED]",
	},
	{
		Name:        "bearer",
		Regex:       regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]{20,}=*`),
		Replacement: "Bearer [REDACTED]",
	},
	{
		Name:        "basic auth",
		Regex:       regexp.MustCompile(`(?i)basic\s+[A-Za-z0-9+/=]{20,}`),
		Replacement: "Basic [REDACTED]",
	},
	{
		Name:        "url credentials",
		Regex:       regexp.MustCompile(`(\w+://[^:/@\s]+):[^@\s]+@`),
		Replacement: "$1:[REDACTED]@",
	},
}

// Rules returns a copy of the built-in secret rules.
func Rules() []Rule {
	out := make([]Rule, len(secretRules))
	copy(out, secretRules)
	return out
}

// Redactor applies a fixed list of rules.
type Redactor struct {
	rules []Rule
}

// New returns a Redactor with the built-in rules.
func New() *Redactor {
	return &Redactor{rules: secretRules}
}

// NewWithRules returns a Redactor that applies only rules.
func NewWithRules(rules []Rule) *Redactor {
	return &Redactor{rules: rules}
}

// Redact returns s with every secret replaced by a placeholder.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}
	for _, rule := range r.rules {
		s = rule.Regex.ReplaceAllString(s, rule.Replacement)
	}
	return s
}

var defaultRedactor = New()

// String redacts s with the built-in rules.
func String(s string) string {
	return defaultRedactor.Redact(s)
}
