// Command xbc compiles an XB schema file into a target-language binary
// codec.
//
// Usage:
//
//	xbc [options] <schema-file>
//
// Options:
//
//	-out string       Output directory (default ".")
//	-lang string      Comma-separated target languages: go, typescript (default "go")
//	-package string   Override the generated package/module name
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmlog "charm.land/log/v2"

	"github.com/laundrevity/xbcodec/pkg/codegen"
	"github.com/laundrevity/xbcodec/pkg/schema"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := charmlog.New(os.Stderr)

	fs := flag.NewFlagSet("xbc", flag.ContinueOnError)
	outDir := fs.String("out", ".", "output directory")
	lang := fs.String("lang", "go", "comma-separated target languages: go, typescript")
	pkg := fs.String("package", "", "override the generated package/module name")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: xbc [options] <schema-file>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	schemaPath := fs.Arg(0)

	langs, err := parseLanguages(*lang)
	if err != nil {
		logger.Error("unsupported target language", "lang", *lang, "error", err)
		return 1
	}

	s, err := schema.Load(schemaPath)
	if err != nil {
		logger.Error("schema load failed", "file", schemaPath, "error", err)
		return 1
	}
	logger.Info("schema loaded", "name", s.Name, "messages", len(s.MessageFormats), "enums", len(s.Enums))

	if err := os.RemoveAll(*outDir); err != nil {
		logger.Error("could not clear output directory", "dir", *outDir, "error", err)
		return 1
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("could not create output directory", "dir", *outDir, "error", err)
		return 1
	}

	opts := codegen.Options{Package: *pkg}

	// A single requested language writes straight into outDir, matching
	// prior behavior; multiple languages each get their own subdirectory
	// so e.g. a Go codec and a TypeScript codec never collide on name.
	for _, gen := range langs {
		langDir := *outDir
		if len(langs) > 1 {
			langDir = filepath.Join(*outDir, string(gen.Language()))
			if err := os.MkdirAll(langDir, 0o755); err != nil {
				logger.Error("could not create language output directory", "dir", langDir, "error", err)
				return 1
			}
		}
		if err := generateOne(logger, gen, s, opts, langDir); err != nil {
			return 1
		}
	}

	return 0
}

// parseLanguages splits a comma-separated -lang value into registered
// generators, preserving the caller's order.
func parseLanguages(spec string) ([]codegen.Generator, error) {
	var gens []codegen.Generator
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		gen, ok := codegen.Get(codegen.Language(tok))
		if !ok {
			return nil, fmt.Errorf("no generator registered for %q", tok)
		}
		gens = append(gens, gen)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("no target languages given")
	}
	return gens, nil
}

func generateOne(logger *charmlog.Logger, gen codegen.Generator, s *schema.Schema, opts codegen.Options, outDir string) error {
	baseName := s.Name
	codecPath := filepath.Join(outDir, baseName+gen.FileExtension())
	if err := writeGenerated(codecPath, func(w *os.File) error {
		return gen.GenerateCodec(w, s, opts)
	}); err != nil {
		logger.Error("codec generation failed", "file", codecPath, "error", err)
		return err
	}
	logger.Info("wrote codec", "file", codecPath)

	mainPath := filepath.Join(outDir, baseName+"_example", "main"+gen.FileExtension())
	if gen.Language() == codegen.LanguageTypeScript {
		mainPath = filepath.Join(outDir, baseName+"_example"+gen.FileExtension())
	} else if err := os.MkdirAll(filepath.Dir(mainPath), 0o755); err != nil {
		logger.Error("could not create example directory", "dir", filepath.Dir(mainPath), "error", err)
		return err
	}
	if err := writeGenerated(mainPath, func(w *os.File) error {
		return gen.GenerateExampleMain(w, s, opts)
	}); err != nil {
		logger.Error("example-main generation failed", "file", mainPath, "error", err)
		return err
	}
	logger.Info("wrote example entry point", "file", mainPath)

	testSuffix := "_test" + gen.FileExtension()
	if gen.Language() == codegen.LanguageTypeScript {
		testSuffix = ".test" + gen.FileExtension()
	}
	testPath := filepath.Join(outDir, baseName+testSuffix)
	if err := writeGenerated(testPath, func(w *os.File) error {
		return gen.GenerateTestSuite(w, s, opts)
	}); err != nil {
		logger.Error("test suite generation failed", "file", testPath, "error", err)
		return err
	}
	logger.Info("wrote test suite", "file", testPath)

	return nil
}

func writeGenerated(path string, generate func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := generate(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
