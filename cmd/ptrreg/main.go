package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/registry"
	"github.com/quiverbridge/ptrreg/tagset"
)

func main() {
	// Best effort: a local .env may carry PTRREG_* defaults.
	_ = godotenv.Load()

	var (
		manifestPath = flag.String("manifest", os.Getenv("PTRREG_MANIFEST"), "Path to tag manifest (YAML)")
		schema       = flag.Bool("schema", false, "Print the manifest JSON Schema and exit")
		interactive  = flag.Bool("i", false, "Interactive console")
		debug        = flag.Bool("debug", os.Getenv("PTRREG_DEBUG") != "", "Enable debug logging")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		registry.SetLogger(logger)
		tagset.SetLogger(logger)
	}

	if *schema {
		out, err := tagset.Schema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	if *manifestPath == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: ptrreg -manifest <tags.yaml> [-i]")
		fmt.Fprintln(os.Stderr, "       ptrreg -schema")
		fmt.Fprintln(os.Stderr, "       ptrreg -i  (interactive console)")
		os.Exit(1)
	}

	reg := registry.New()
	if *manifestPath != "" {
		m, err := tagset.Load(*manifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := m.Apply(reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runConsole(reg, *manifestPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Show what the manifest set up.
	fmt.Printf("Manifest: %s\n", *manifestPath)

	edges := reg.Subtags()
	fmt.Printf("Subtag edges: %d\n", len(edges))
	for _, e := range edges {
		fmt.Printf("  %s -> %s\n", e.Sub, e.Super)
	}

	pins := reg.Enumerate(ptrreg.NoTag)
	fmt.Printf("Pinned addresses: %d\n", len(pins))
	for _, p := range pins {
		fmt.Printf("  %s\n", p)
	}
}
