// Package main provides the CLI entrypoint for opwire.
//
// opwire runs a declarative pipeline manifest over a record:
//   - Loads a YAML manifest and validates it structurally
//   - Builds the syntax tree and assembles the operation graph
//   - Reads the input record from YAML, runs the pipeline, writes the
//     output record back as YAML
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"opwire/manifest"
	"opwire/op"
	"opwire/record"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the pipeline manifest (required)")
	inPath := flag.String("in", "", "path to the input record YAML (default: stdin)")
	outPath := flag.String("out", "", "path for the output record YAML (default: stdout)")
	debug := flag.Bool("debug", false, "dump the assembled operation contract and exit")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "opwire: -manifest is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*manifestPath, *inPath, *outPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, "opwire:", err)
		os.Exit(1)
	}
}

func run(manifestPath, inPath, outPath string, debug bool) error {
	f, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return err
	}

	node, err := manifest.Build(f)
	if err != nil {
		return err
	}

	operation, err := node.Assemble()
	if err != nil {
		return err
	}

	if debug {
		dumpContract(operation)
		return nil
	}

	rec, err := readRecord(inPath)
	if err != nil {
		return err
	}

	out, err := operation.Call(rec)
	if err != nil {
		return err
	}

	return writeRecord(outPath, out)
}

func dumpContract(o *op.Operation) {
	fmt.Printf("operation %s (append=%v extend=%v)\n", o.Name(), o.Append(), o.Extend())
	fmt.Println("input tree:")
	spew.Dump(o.InputTree())
	fmt.Println("output tree:")
	spew.Dump(o.OutputTree())
}

func readRecord(path string) (record.Record, error) {
	var (
		data []byte
		err  error
	)

	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input record: %w", err)
	}

	rec := record.Record{}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse input record: %w", err)
	}

	return rec, nil
}

func writeRecord(path string, rec record.Record) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal output record: %w", err)
	}

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output record %s: %w", path, err)
	}

	return nil
}
