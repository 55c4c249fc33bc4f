package domain

import (
	"regexp"
	"strings"

	m "github.com/mouse-blink/testforge/internal/model"
)

const ignoreDirective = "testforge:ignore"

// declarationLine ends the file header: directives above it apply to the
// whole file.
var declarationLine = regexp.MustCompile(`^\s*(?:\[|namespace\b|(?:(?:public|internal|private|protected|sealed|abstract|static|partial|readonly|unsafe|file)\s+)*(?:class|record|struct|interface|enum)\b)`)

// memberName finds the invoked or declared member name on a code line.
var memberName = regexp.MustCompile(`\b([A-Za-z_]\w*)\s*(?:<[^>()]*>)?\s*\(`)

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(method string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[strings.ToLower(method)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)

	switch {
	case strings.HasPrefix(s, "///"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "///"))
	case strings.HasPrefix(s, "//"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	default:
		return ignoreRule{}, false
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

// ignoreIndex holds the directives of one source file.
type ignoreIndex struct {
	file ignoreRule
	// member holds rules from directives placed directly above a member,
	// keyed by lower-case member name.
	member map[string]struct{}
}

func buildIgnoreIndex(text string) ignoreIndex {
	index := ignoreIndex{member: make(map[string]struct{})}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	inHeader := true

	for i, line := range lines {
		if inHeader && declarationLine.MatchString(line) {
			inHeader = false
		}

		rule, ok := parseIgnoreDirective(line)
		if !ok {
			continue
		}

		if inHeader {
			mergeIgnoreRule(&index.file, rule)
			continue
		}

		// Named directives inside the body act like header ones.
		if !rule.all {
			mergeIgnoreRule(&index.file, rule)
			continue
		}

		if name := nextMemberName(lines[i+1:]); name != "" {
			index.member[strings.ToLower(name)] = struct{}{}
		}
	}

	return index
}

// nextMemberName returns the member declared on the first code line, skipping
// blank lines, comments and attributes.
func nextMemberName(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "[") {
			continue
		}

		match := memberName.FindStringSubmatch(trimmed)
		if match == nil {
			return ""
		}

		return match[1]
	}

	return ""
}

// ApplyIgnoreDirectives drops methods excluded by `// testforge:ignore`
// comments. A bare directive in the file header excludes the whole unit and
// the second result is false. `// testforge:ignore Name1, Name2` excludes
// methods by name. A bare directive directly above a method excludes it.
func ApplyIgnoreDirectives(text string, features m.Features) (m.Features, bool) {
	if !strings.Contains(text, ignoreDirective) {
		return features, true
	}

	index := buildIgnoreIndex(text)
	if index.file.all {
		return features, false
	}

	kept := make([]m.MethodSignature, 0, len(features.Methods))

	for _, method := range features.Methods {
		if index.file.ignores(method.Name) {
			continue
		}

		if _, ok := index.member[strings.ToLower(method.Name)]; ok {
			continue
		}

		kept = append(kept, method)
	}

	features.Methods = kept

	return features, true
}
