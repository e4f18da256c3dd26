package encounter

import (
	"fmt"
	"strings"
)

// File name rules for descriptor files.
const (
	RuleID      = "id"      // the table key
	RuleCompact = "compact" // "Lesser Dog" -> "lesserdog"
	RuleSnake   = "snake"   // "Ambyu-Lance" -> "ambyu_lance"
)

func KnownRule(rule string) bool {
	switch rule {
	case RuleID, RuleCompact, RuleSnake:
		return true
	}
	return false
}

var (
	compactReplacer = strings.NewReplacer(" ", "", "'", "", "-", "")
	snakeReplacer   = strings.NewReplacer(" ", "_", "'", "", "-", "_")
)

// FileStem returns the file name (without .json) for an entry.
func FileStem(rule, id, name string) (string, error) {
	switch rule {
	case RuleID:
		if id != "" {
			return strings.ToLower(id), nil
		}
		return compactReplacer.Replace(strings.ToLower(name)), nil
	case RuleCompact:
		return compactReplacer.Replace(strings.ToLower(name)), nil
	case RuleSnake:
		return snakeReplacer.Replace(strings.ToLower(name)), nil
	}
	return "", fmt.Errorf("encounter: unknown file name rule %q", rule)
}
