package editor

import (
	"strings"

	"github.com/specialistvlad/climeta/internal/model"
)

// ApplyFormRules returns next adjusted the way the editor form adjusts a row
// after an edit. prev is the row before the edit, or nil for a new row.
func ApplyFormRules(prev *model.ArgumentSpec, next model.ArgumentSpec) model.ArgumentSpec {
	next = next.Clone()
	next.Name = strings.TrimSpace(next.Name)
	if strings.HasPrefix(next.Name, "-") && !strings.HasPrefix(next.Name, "--") && next.Name != "-" {
		next.Name = "-" + next.Name
	}
	if next.Type == "" {
		next.Type = model.TypeString
	}

	if next.IsPositional() {
		next.Default = ""
		next.Required = true
		next.Short = ""
	}

	typeChanged := prev == nil || prev.Type != next.Type
	switch {
	case next.Type == model.TypeFlag:
		next.Required = false
		if typeChanged && next.Default != "true" && next.Default != "false" {
			next.Default = "false"
		}
	case typeChanged && prev != nil && next.Default == prev.Default:
		// A default carried over from another type is meaningless.
		next.Default = ""
	}

	if next.Required {
		next.Default = ""
	}

	next.Choices = normalizeChoices(next.Choices)
	return next
}

// normalizeChoices trims choices and drops blanks and duplicates, keeping
// the first occurrence.
func normalizeChoices(choices []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
