package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-catsform/pkg/openapi"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint OpenAPI documents for misused form extensions. Lints the embedded document when no paths are given.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	ctx := context.Background()

	var docs []openapi.Document
	if flag.NArg() == 0 {
		doc, err := openapi.DefaultDocument()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load embedded document: %v\n", err)
			os.Exit(1)
		}
		docs = append(docs, doc)
	}
	for _, path := range flag.Args() {
		doc, err := openapi.DocumentFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		docs = append(docs, doc)
	}

	failed := false
	for _, doc := range docs {
		violations, err := openapi.Lint(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", doc.Location(), err)
			os.Exit(1)
		}
		for _, v := range violations {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %s\n", doc.Location(), v)
		}
	}
	if failed {
		os.Exit(1)
	}
}
