// Package sanitizer masks secrets in form-field values before they leave
// the process. Form submissions routinely contain pasted credentials and
// tokens; nothing of that kind may reach the AI provider.
package sanitizer

import (
	"regexp"
	"strings"
)

// Sanitizer handles field-value preprocessing and secret masking.
// The patterns run on caller-owned form input, which is size-capped
// before matching.
type Sanitizer struct {
	patterns []*regexp.Regexp
	maxSize  int
}

// Pattern definitions for secrets that show up in pasted form content.
var defaultPatterns = []*regexp.Regexp{
	// API keys
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*['"]?([a-zA-Z0-9_\-]{20,})['"]?`),
	regexp.MustCompile(`(?i)(secret[_-]?key|secretkey)\s*[:=]\s*['"]?([a-zA-Z0-9_\-]{20,})['"]?`),

	// Authentication tokens
	regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9_\-\.]+`),
	regexp.MustCompile(`(?i)(token|auth[_-]?token)\s*[:=]\s*['"]?([a-zA-Z0-9_\-\.]{20,})['"]?`),

	// Passwords
	regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?([^\s'"]{4,})['"]?`),

	// AWS credentials
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),

	// Private keys
	regexp.MustCompile(`-----BEGIN\s+(RSA|DSA|EC|OPENSSH)?\s*PRIVATE KEY-----`),

	// Database connection strings
	regexp.MustCompile(`(?i)(mongodb|mysql|postgres|postgresql|redis):\/\/[^@]+@[^\s]+`),

	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36}`),

	// JWT tokens
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`),

	// Slack tokens
	regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z-]+`),

	// Credit card numbers (13-19 digits, optionally grouped)
	regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`),
}

// New creates a new Sanitizer with default patterns.
func New(maxSize int) *Sanitizer {
	return &Sanitizer{
		patterns: defaultPatterns,
		maxSize:  maxSize,
	}
}

// NewWithPatterns creates a Sanitizer with custom patterns.
func NewWithPatterns(maxSize int, patterns []*regexp.Regexp) *Sanitizer {
	return &Sanitizer{
		patterns: patterns,
		maxSize:  maxSize,
	}
}

// Sanitize trims the value, enforces the size limit and masks secrets.
func (s *Sanitizer) Sanitize(value string) string {
	value = strings.TrimSpace(value)

	if len(value) > s.maxSize {
		value = value[:s.maxSize]
	}

	return s.maskSecrets(value)
}

// maskSecrets replaces sensitive patterns with masked versions.
func (s *Sanitizer) maskSecrets(value string) string {
	result := value

	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllStringFunc(result, maskValue)
	}

	return result
}

// maskValue creates a masked version of a matched secret. Key-value style
// matches keep their key for context; bare tokens keep their leading and
// trailing characters.
func maskValue(match string) string {
	if len(match) <= 8 {
		return "[REDACTED]"
	}

	if idx := strings.IndexAny(match, ":="); idx != -1 {
		prefix := match[:idx+1]
		return prefix + "[REDACTED]"
	}

	if len(match) > 10 {
		return match[:4] + "****" + match[len(match)-4:]
	}

	return "[REDACTED]"
}

// IsEmpty checks if the value is empty or whitespace only.
func (s *Sanitizer) IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

// IsTooLarge checks if the value exceeds the maximum size.
func (s *Sanitizer) IsTooLarge(value string) bool {
	return len(value) > s.maxSize
}

// SanitizationStats describes what the sanitizer changed.
type SanitizationStats struct {
	OriginalSize  int
	SanitizedSize int
	Truncated     bool
	SecretsFound  int
}

// SanitizeWithStats performs sanitization and returns statistics.
func (s *Sanitizer) SanitizeWithStats(value string) (string, SanitizationStats) {
	stats := SanitizationStats{
		OriginalSize: len(value),
		Truncated:    len(value) > s.maxSize,
	}

	for _, pattern := range s.patterns {
		stats.SecretsFound += len(pattern.FindAllString(value, -1))
	}

	sanitized := s.Sanitize(value)
	stats.SanitizedSize = len(sanitized)

	return sanitized, stats
}
