// Command leadform serves the apartment-search intake form and offers offline
// helpers around the intake engine.
//
//	leadform serve   [-addr :8080] [-base /] [-ui-schema-dir dir]
//	leadform tui     [-format json|form|pretty]
//	leadform replay  -events file.jsonl
//	leadform render  [-events file.jsonl] [-preset preset.yaml] [-theme name] [-variant name] [-output file]
//	leadform schema  [-format openapi|jsonschema|event] [-base /]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/openapi"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
	"github.com/goliatone/go-leadform/pkg/themes"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "serve":
		err = runServe(args)
	case "tui":
		err = runTUI(args)
	case "replay":
		err = runReplay(args)
	case "render":
		err = runRender(args)
	case "schema":
		err = runSchema(args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("leadform %s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: leadform <serve|tui|replay|render|schema> [flags]")
}

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	format := fs.String("format", string(tui.OutputFormatPrettyText), "output format: json, form or pretty")
	confirm := fs.Bool("confirm", true, "ask for confirmation before submitting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	outputFormat, ok := tui.ParseOutputFormat(*format)
	if !ok {
		return fmt.Errorf("unknown output format %q", *format)
	}
	renderer, err := tui.New(
		tui.WithOutputFormat(outputFormat),
		tui.WithConfirmSubmit(*confirm),
	)
	if err != nil {
		return err
	}

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	)

	out, err := orch.Render(context.Background(), orchestrator.Request{})
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	events := fs.String("events", "", "newline-delimited JSON events (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *events == "" {
		return fmt.Errorf("-events is required")
	}

	snap, err := replay(*events)
	if err != nil {
		return err
	}
	return printJSON(snap)
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	events := fs.String("events", "", "newline-delimited JSON events to replay before rendering")
	preset := fs.String("preset", "", "YAML or JSON preset applied to the form model")
	themeName := fs.String("theme", "", "theme name (default theme when empty)")
	variant := fs.String("variant", "", "theme variant")
	assets := fs.String("assets", "/assets", "URL prefix the stylesheet and runtime are served under")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap := intake.New().Snapshot()
	if *events != "" {
		replayed, err := replay(*events)
		if err != nil {
			return err
		}
		snap = replayed
	}

	catalog, err := themes.NewDefaultCatalog(*assets)
	if err != nil {
		return err
	}
	options := []orchestrator.Option{
		orchestrator.WithThemeSelector(catalog),
		orchestrator.WithThemeDefaults(themes.DefaultName, ""),
	}
	if *preset != "" {
		data, err := os.ReadFile(*preset)
		if err != nil {
			return err
		}
		transformer, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}

	out, err := orchestrator.New(options...).Render(context.Background(), orchestrator.Request{
		Snapshot:      snap,
		ThemeName:     *themeName,
		ThemeVariant:  *variant,
		RenderOptions: render.RenderOptions{Endpoints: render.Endpoints{Assets: *assets}},
	})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("Form written to %s\n", *output)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func runSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	format := fs.String("format", "openapi", "openapi, jsonschema (submission) or event")
	base := fs.String("base", "/", "base path the HTTP routes are mounted under")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch *format {
	case "openapi":
		data, err = openapi.MarshalDocument(context.Background(), *base)
	case "jsonschema":
		data, err = openapi.MarshalSchema(openapi.SubmissionSchema())
	case "event":
		data, err = openapi.MarshalSchema(openapi.EventSchema())
	default:
		return fmt.Errorf("unknown schema format %q", *format)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// replay applies the events in path to a fresh engine. Rejections are part of
// the replay; only undecodable or unsupported events abort it.
func replay(path string) (intake.Snapshot, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return intake.Snapshot{}, err
		}
		defer f.Close()
		in = f
	}

	events, err := intake.DecodeEvents(in)
	if err != nil {
		return intake.Snapshot{}, err
	}
	engine := intake.New()
	if _, err := engine.ApplyAll(events); err != nil {
		return intake.Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
