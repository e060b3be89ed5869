package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

const (
	exitError       = 1
	exitUnsupported = 2
)

// run extracts the invoice from the block stream at path ("-" for stdin)
// and writes it as JSON to stdout
func run(path string, pretty bool, stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening block stream: %w", err)
		}
		defer f.Close()
		in = f
	}

	blocks, err := document.Decode(in)
	if err != nil {
		return err
	}

	inv, err := extraction.Extract(blocks)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(inv)
}

func main() {
	fs := ff.NewFlagSet("invoice-extract")
	var (
		pretty      = fs.BoolLong("pretty", "Indent the JSON output")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_EXTRACT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitError)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs, "invoice-extract [--pretty] <blocks.json|->"))
		os.Exit(exitError)
	}

	if err := run(args[0], *pretty, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, extraction.ErrUnsupportedVendor) {
			os.Exit(exitUnsupported)
		}
		os.Exit(exitError)
	}
}
