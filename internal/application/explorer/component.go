package explorer

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// MainComponent is the file picked for "copy component".
type MainComponent struct {
	Path string
	Name string
	Code string
}

var configFiles = map[string]bool{
	"next.config.ts":     true,
	"next.config.js":     true,
	"next.config.mjs":    true,
	"tailwind.config.ts": true,
	"tailwind.config.js": true,
	"postcss.config.js":  true,
	"postcss.config.mjs": true,
	"tsconfig.json":      true,
	"package.json":       true,
	"components.json":    true,
	"next-env.d.ts":      true,
	"globals.css":        true,
}

// ExtractMainComponent picks the first .tsx file (by sorted path), preferring files under app/ or
// components/ that are not page.tsx or layout.tsx. Framework and config files are never picked.
func ExtractMainComponent(files map[string]string) (*MainComponent, bool) {
	var candidates []string
	for p := range files {
		base := path.Base(p)
		if configFiles[base] || !strings.HasSuffix(base, ".tsx") {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Strings(candidates)

	pick := firstMatch(candidates, func(p string) bool { return !isRouteFile(p) && underComponentDir(p) })
	if pick == "" {
		pick = firstMatch(candidates, func(p string) bool { return !isRouteFile(p) })
	}
	if pick == "" {
		pick = candidates[0]
	}
	return &MainComponent{
		Path: pick,
		Name: strings.TrimSuffix(path.Base(pick), ".tsx"),
		Code: files[pick],
	}, true
}

func firstMatch(paths []string, ok func(string) bool) string {
	for _, p := range paths {
		if ok(p) {
			return p
		}
	}
	return ""
}

func isRouteFile(p string) bool {
	base := path.Base(p)
	return base == "page.tsx" || base == "layout.tsx"
}

func underComponentDir(p string) bool {
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "app" || seg == "components" {
			return true
		}
	}
	return false
}

var (
	aliasImport     = regexp.MustCompile(`from\s+["']@/`)
	sideEffectAlias = regexp.MustCompile(`^import\s+["']@/`)
	sideEffect      = regexp.MustCompile(`^import\s+["']`)
	importKeyword   = regexp.MustCompile(`^import[\s{*"']`)
	importFrom      = regexp.MustCompile(`from\s+["'][^"']+["']`)
	componentDecl   = regexp.MustCompile(`(?m)^(export\s+(default\s+)?)?(function\s+[A-Z]|const\s+[A-Z][A-Za-z0-9_]*\s*(:[^=]+)?=)`)
)

// FormatComponentForCopy drops "@/" alias imports, trims the code to the first top-level component
// declaration, and prefixes a "// <name>.tsx" header.
func FormatComponentForCopy(code, name string) string {
	stripped := stripAliasImports(code)
	if loc := componentDecl.FindStringIndex(stripped); loc != nil {
		stripped = stripped[loc[0]:]
	}
	return "// " + name + ".tsx\n" + strings.TrimSpace(stripped) + "\n"
}

func stripAliasImports(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if !importKeyword.MatchString(trimmed) {
			out = append(out, line)
			continue
		}
		stmt := []string{line}
		for !importComplete(strings.Join(stmt, "\n")) && i+1 < len(lines) {
			i++
			stmt = append(stmt, lines[i])
		}
		joined := strings.TrimSpace(strings.Join(stmt, "\n"))
		if aliasImport.MatchString(joined) || sideEffectAlias.MatchString(joined) {
			continue
		}
		out = append(out, stmt...)
	}
	return strings.Join(out, "\n")
}

// importComplete reports whether an import statement has reached its module specifier.
func importComplete(stmt string) bool {
	s := strings.TrimSpace(stmt)
	return sideEffect.MatchString(s) || importFrom.MatchString(s)
}
