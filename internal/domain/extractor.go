package domain

import (
	"regexp"
	"strings"

	m "github.com/mouse-blink/testforge/internal/model"
)

// Feature extraction is a set of independent pattern matchers, not a C#
// grammar. Every matcher runs over text whose comments and string literals
// have been blanked out, so offsets line up with the raw source.
var (
	namespacePattern  = regexp.MustCompile(`(?m)^[ \t]*namespace\s+([\w.]+)`)
	usingPattern      = regexp.MustCompile(`(?m)^[ \t]*(?:global\s+)?using\s+(static\s+)?(?:(\w+)\s*=\s*)?([\w.]+(?:<[\w.,<>\s]*>)?)\s*;`)
	typePattern       = regexp.MustCompile(`\b(?:class|record|struct|interface)\s+([A-Za-z_]\w*)`)
	dependencyPattern = regexp.MustCompile(`(?m)^[ \t]*private\s+(?:readonly\s+)?(I[A-Z]\w*(?:\s*<[\w.,<>\[\]?\s]*>)?)\s+\w+\s*[;=]`)
	methodHeadPattern = regexp.MustCompile(
		`\bpublic\s+((?:(?:static|async|virtual|override|sealed|new|abstract|extern|unsafe|partial)\s+)*)` +
			`([\w.]+(?:\s*<[\w.,<>\[\]?\s]*>)?(?:\[[\s,]*\])*\??)\s+` +
			`([A-Za-z_]\w*)\s*(?:<[\w,\s]*>)?\s*\(`)
)

// notReturnTypes are keywords that can sit where methodHeadPattern expects a
// return type but never start a method.
var notReturnTypes = map[string]struct{}{
	"class": {}, "record": {}, "struct": {}, "interface": {}, "enum": {},
	"delegate": {}, "event": {}, "operator": {}, "implicit": {}, "explicit": {},
	"const": {}, "return": {}, "new": {},
}

// ExtractFeatures turns raw C# text into a Features description. It never
// fails: fields whose pattern does not match are left empty.
func ExtractFeatures(text string) m.Features {
	code := blankNonCode(text)
	typeName := extractTypeName(code)

	return m.Features{
		Namespace:         extractNamespace(code),
		Imports:           extractImports(code),
		TypeName:          typeName,
		ConstructorParams: extractConstructorParams(text, code, typeName),
		Methods:           extractMethods(text, code),
		DependencyTypes:   extractDependencies(code),
	}
}

func extractNamespace(code string) string {
	match := namespacePattern.FindStringSubmatch(code)
	if match == nil {
		return ""
	}

	return match[1]
}

func extractImports(code string) []string {
	var imports []string

	for _, match := range usingPattern.FindAllStringSubmatch(code, -1) {
		name := collapseSpace(match[3])

		switch {
		case match[2] != "":
			name = match[2] + " = " + name
		case match[1] != "":
			name = "static " + name
		}

		imports = append(imports, name)
	}

	return imports
}

func extractTypeName(code string) string {
	match := typePattern.FindStringSubmatch(code)
	if match == nil {
		return ""
	}

	return match[1]
}

// extractConstructorParams returns the parameters of the constructor with the
// most parameters, which is the one a DI container would call.
func extractConstructorParams(text, code, typeName string) []string {
	if typeName == "" {
		return nil
	}

	name := regexp.QuoteMeta(typeName)
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`\b(?:public|internal|protected|private)\s+` + name + `\s*\(`),
		regexp.MustCompile(`\b(?:class|record|struct)\s+` + name + `\s*(?:<[\w,\s]*>)?\s*\(`),
	}

	var best []string

	for _, pattern := range patterns {
		for _, loc := range pattern.FindAllStringIndex(code, -1) {
			open := loc[1] - 1

			closeIdx := matchingParen(code, open)
			if closeIdx < 0 {
				continue
			}

			params := splitParams(text[open+1 : closeIdx])
			if len(params) > len(best) {
				best = params
			}
		}
	}

	return best
}

func extractMethods(text, code string) []m.MethodSignature {
	var methods []m.MethodSignature

	for _, loc := range methodHeadPattern.FindAllStringSubmatchIndex(code, -1) {
		returnType := collapseSpace(code[loc[4]:loc[5]])
		name := code[loc[6]:loc[7]]

		if _, skip := notReturnTypes[returnType]; skip {
			continue
		}

		open := loc[1] - 1

		closeIdx := matchingParen(code, open)
		if closeIdx < 0 {
			continue
		}

		if !startsMemberBody(code[closeIdx+1:]) {
			continue
		}

		methods = append(methods, m.MethodSignature{
			Name:       name,
			ReturnType: returnType,
			Parameters: strings.Join(splitParams(text[open+1:closeIdx]), ", "),
		})
	}

	return methods
}

func extractDependencies(code string) []string {
	seen := make(map[string]struct{})

	var deps []string

	for _, match := range dependencyPattern.FindAllStringSubmatch(code, -1) {
		dep := collapseSpace(match[1])
		if _, ok := seen[dep]; ok {
			continue
		}

		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}

	return deps
}

// startsMemberBody reports whether rest, the text after a parameter list,
// continues as a method body, an expression body, a declaration terminator or
// a generic constraint.
func startsMemberBody(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")

	switch {
	case strings.HasPrefix(rest, "{"), strings.HasPrefix(rest, "=>"), strings.HasPrefix(rest, ";"):
		return true
	case strings.HasPrefix(rest, "where") && len(rest) > 5 && (rest[5] == ' ' || rest[5] == '\t' || rest[5] == '\n' || rest[5] == '\r'):
		return true
	}

	return false
}

// matchingParen returns the index of the ')' closing the '(' at open, or -1.
func matchingParen(code string, open int) int {
	depth := 0

	for i := open; i < len(code); i++ {
		switch code[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		case '{', ';':
			// a parameter list never contains a block or statement end
			return -1
		}
	}

	return -1
}

// splitParams splits a raw parameter list on top-level commas.
func splitParams(raw string) []string {
	var (
		params []string
		depth  int
		start  int
	)

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '<', '[', '{':
			depth++
		case ')', '>', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				params = appendParam(params, raw[start:i])
				start = i + 1
			}
		}
	}

	return appendParam(params, raw[start:])
}

func appendParam(params []string, raw string) []string {
	param := collapseSpace(raw)
	if param == "" {
		return params
	}

	return append(params, param)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blankNonCode replaces comments and string/char literal contents with spaces,
// keeping newlines and byte offsets intact.
//
//nolint:cyclop // small lexer, one case per literal kind
func blankNonCode(text string) string {
	out := []byte(text)
	n := len(out)

	blank := func(from, to int) {
		for k := from; k < to && k < n; k++ {
			if out[k] != '\n' && out[k] != '\r' {
				out[k] = ' '
			}
		}
	}

	for i := 0; i < n; {
		c := text[i]

		switch {
		case c == '/' && i+1 < n && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = n - i
			}

			blank(i, i+end)
			i += end
		case c == '/' && i+1 < n && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				blank(i, n)
				return string(out)
			}

			blank(i, i+2+end+2)
			i += 2 + end + 2
		case strings.HasPrefix(text[i:], `"""`):
			end := strings.Index(text[i+3:], `"""`)
			if end < 0 {
				blank(i, n)
				return string(out)
			}

			blank(i, i+3+end+3)
			i += 3 + end + 3
		case c == '"':
			verbatim := i > 0 && (text[i-1] == '@' || (text[i-1] == '$' && i > 1 && text[i-2] == '@'))
			end := skipString(text, i+1, verbatim)
			blank(i, end)
			i = end
		case c == '\'':
			end := skipChar(text, i+1)
			blank(i, end)
			i = end
		default:
			i++
		}
	}

	return string(out)
}

// skipString returns the index just past the closing quote of a string
// literal whose body starts at i.
func skipString(text string, i int, verbatim bool) int {
	for i < len(text) {
		switch text[i] {
		case '\\':
			if !verbatim {
				i += 2
				continue
			}
		case '"':
			if verbatim && i+1 < len(text) && text[i+1] == '"' {
				i += 2
				continue
			}

			return i + 1
		case '\n':
			if !verbatim {
				return i
			}
		}

		i++
	}

	return len(text)
}

func skipChar(text string, i int) int {
	for k := i; k < len(text) && k < i+8; k++ {
		switch text[k] {
		case '\\':
			k++
		case '\'':
			return k + 1
		case '\n':
			return k
		}
	}

	// not a char literal after all; leave the quote alone
	return i
}
