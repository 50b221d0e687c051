package pentest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Input validators exercised by the scan harness and reusable by the API
// layer. Detection is pattern based; a match means the input must not reach
// a query or a rendered page unescaped.

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks address shape and rejects oversized input
func ValidateEmail(email string) error {
	if email == "" {
		return goerr.New("email is required")
	}
	if len(email) > 254 {
		return goerr.New("email exceeds maximum length", goerr.V("length", len(email)))
	}
	if !emailPattern.MatchString(email) {
		return goerr.New("email format is invalid")
	}
	return nil
}

// ValidateAmount parses a monetary amount string. Amounts are non-negative
// with at most two decimal places.
func ValidateAmount(amount string) (float64, error) {
	if amount == "" {
		return 0, goerr.New("amount is required")
	}
	cleaned := strings.TrimPrefix(strings.TrimSpace(amount), "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "amount is not a number")
	}
	if value < 0 {
		return 0, goerr.New("amount cannot be negative", goerr.V("amount", value))
	}
	if dot := strings.IndexByte(cleaned, '.'); dot >= 0 && len(cleaned)-dot-1 > 2 {
		return 0, goerr.New("amount has more than two decimal places")
	}
	if value > 1_000_000_000 {
		return 0, goerr.New("amount exceeds maximum", goerr.V("amount", value))
	}
	return value, nil
}

var sqlInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunion\b.{0,40}\bselect\b`),
	regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|truncate|alter)\b.{0,40}\b(from|into|table|database)\b`),
	regexp.MustCompile(`(?i)('|")\s*(or|and)\s+('|")?\d+('|")?\s*=\s*('|")?\d+`),
	regexp.MustCompile(`(?i)\bor\b\s+1\s*=\s*1`),
	regexp.MustCompile(`(?i);\s*(drop|delete|truncate|shutdown)\b`),
	regexp.MustCompile(`--\s*$`),
	regexp.MustCompile(`(?i)\b(sleep|benchmark|waitfor)\s*\(`),
	regexp.MustCompile(`(?i)\bxp_cmdshell\b`),
}

// DetectSQLInjection reports whether the input matches a known injection
// pattern, returning the matched pattern for the finding's evidence.
func DetectSQLInjection(input string) (bool, string) {
	for _, p := range sqlInjectionPatterns {
		if m := p.FindString(input); m != "" {
			return true, m
		}
	}
	return false, ""
}

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script\b`),
	regexp.MustCompile(`(?i)<\s*(img|svg|body|iframe|object|embed)\b[^>]*\bon\w+\s*=`),
	regexp.MustCompile(`(?i)\bjavascript\s*:`),
	regexp.MustCompile(`(?i)\bon(error|load|click|mouseover|focus)\s*=`),
	regexp.MustCompile(`(?i)<\s*iframe\b`),
	regexp.MustCompile(`(?i)document\s*\.\s*(cookie|location|write)`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
}

// DetectXSS reports whether the input matches a known cross-site scripting
// pattern, returning the matched pattern for evidence.
func DetectXSS(input string) (bool, string) {
	for _, p := range xssPatterns {
		if m := p.FindString(input); m != "" {
			return true, m
		}
	}
	return false, ""
}
