// Package codegen emits target-language codec source from a loaded
// schema, per spec.md §4.6.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/laundrevity/xbcodec/pkg/schema"
)

// Language identifies a target code generation language.
type Language string

const (
	LanguageGo         Language = "go"
	LanguageTypeScript Language = "typescript"
)

// Options configures a single generation run.
type Options struct {
	// Package names the generated package (Go) or module (TypeScript).
	// Defaults to the schema's own name if empty.
	Package string
}

// Generator produces target-language source from a Schema. Each
// registered Generator emits three artifacts per spec.md §6: the codec
// itself, an example-main entry point, and a round-trip test suite.
type Generator interface {
	Language() Language
	FileExtension() string

	// GenerateCodec writes the enum/message/dispatcher codec.
	GenerateCodec(w io.Writer, s *schema.Schema, opts Options) error

	// GenerateExampleMain writes an executable entry point that
	// constructs one example instance per message format and writes
	// each framed encoding to "<schema>_<messageName>.xb".
	GenerateExampleMain(w io.Writer, s *schema.Schema, opts Options) error

	// GenerateTestSuite writes the round-trip test file.
	GenerateTestSuite(w io.Writer, s *schema.Schema, opts Options) error
}

var registry = make(map[Language]Generator)

// Register adds a Generator to the registry, keyed by its Language.
func Register(gen Generator) {
	registry[gen.Language()] = gen
}

// Get returns the registered Generator for lang, if any.
func Get(lang Language) (Generator, bool) {
	gen, ok := registry[lang]
	return gen, ok
}

// Languages returns every registered Language.
func Languages() []Language {
	langs := make([]Language, 0, len(registry))
	for lang := range registry {
		langs = append(langs, lang)
	}
	return langs
}

var titleCaser = cases.Title(language.English)

// ToPascalCase converts a schema identifier to PascalCase.
func ToPascalCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = titleCaser.String(strings.ToLower(p))
	}
	return strings.Join(parts, "")
}

// ToCamelCase converts a schema identifier to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return ""
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a schema identifier to snake_case.
func ToSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, "_")
}

// ToUpperSnakeCase converts a schema identifier to UPPER_SNAKE_CASE.
func ToUpperSnakeCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p)
	}
	return strings.Join(parts, "_")
}

func splitName(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var current strings.Builder
	for i, r := range s {
		if r == '_' || r == '-' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			continue
		}
		if i > 0 && isUpper(r) && !isUpper(rune(s[i-1])) {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Indent indents every non-empty line of s by the given number of tabs.
func Indent(s string, tabs int) string {
	indent := strings.Repeat("\t", tabs)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// GoComment wraps text as a Go doc comment, one "//" line per input line.
func GoComment(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "// " + line
	}
	return strings.Join(lines, "\n")
}

// EmitError is an EmitFailure per spec.md §7: the emitter could not
// produce code for a schema it had already validated at load time.
type EmitError struct {
	Message  string
	Position schema.Position
}

func (e *EmitError) Error() string {
	if e.Position.Filename == "" {
		return fmt.Sprintf("emit failure: %s", e.Message)
	}
	return fmt.Sprintf("emit failure at %s: %s", e.Position, e.Message)
}

func packageName(s *schema.Schema, opts Options) string {
	if opts.Package != "" {
		return opts.Package
	}
	return ToSnakeCase(s.Name)
}
