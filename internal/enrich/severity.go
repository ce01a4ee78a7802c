// Package enrich maps raw classified output to a severity level and a
// catalogue of actionable suggestions, producing the EnhancedOutput
// record the session driver attaches to exec results.
package enrich

import (
	"regexp"

	"github.com/coreway/termwatch/internal/model"
)

type severityRule struct {
	severity model.Severity
	re       *regexp.Regexp
}

var severityRules = []severityRule{
	{model.SeverityCritical, regexp.MustCompile(`(?i)FATAL|PANIC|SEGFAULT|SIGSEGV|core dumped`)},
	{model.SeverityCritical, regexp.MustCompile(`(?i)out of memory|OOM|stack overflow`)},
	{model.SeverityCritical, regexp.MustCompile(`(?i)permission denied|EACCES`)},
	{model.SeverityError, regexp.MustCompile(`(?i)error:|ERR!|failed|exception|throw|cannot find|ENOENT|syntax error|timeout|ETIMEDOUT|ECONNREFUSED`)},
	{model.SeverityWarning, regexp.MustCompile(`(?i)warning:|WARN|deprecated|caution|notice`)},
	{model.SeveritySuccess, regexp.MustCompile(`(?i)success|completed|done|passed|✓|✔|\bOK\b`)},
}

// DetermineSeverity scans text against a fixed priority-ordered table —
// critical, then error, then warning, then success — returning the
// first hit or SeverityInfo when nothing matches.
func DetermineSeverity(text string) model.Severity {
	for _, rule := range severityRules {
		if rule.re.MatchString(text) {
			return rule.severity
		}
	}
	return model.SeverityInfo
}
