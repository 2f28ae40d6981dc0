package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-catsform/internal/logging"
	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/tui"
)

func main() {
	locale := flag.String("locale", render.DefaultLocale, "message locale (en, uk)")
	format := flag.String("format", string(tui.OutputFormatPrettyText), "output format: json, form, pretty")
	output := flag.String("output", "", "output file (stdout if empty)")
	attempts := flag.Int("attempts", 0, "max prompts per field, 0 for unlimited")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	closeLogs, err := logging.Setup(logging.Config{Level: *logLevel})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = closeLogs() }()

	translator := render.NewCatalogTranslator()
	d, err := dispatch.New(dispatch.Config{
		Form:     form.MustDeclare(),
		Messages: render.NewMessages(translator.Match(*locale), translator),
	})
	if err != nil {
		log.Fatalf("Failed to build dispatcher: %v", err)
	}

	r, err := tui.New(d,
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithMaxAttempts(*attempts),
		tui.WithTheme(tui.Theme{InfoPrefix: "✔ ", ErrorPrefix: "✘ "}),
	)
	if err != nil {
		log.Fatalf("Failed to build session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := r.Render(ctx)
	if errors.Is(err, tui.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("Session failed: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Values written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}
