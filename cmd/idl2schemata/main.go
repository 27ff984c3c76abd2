// Command idl2schemata compiles an Avro IDL file and writes one standalone
// schema file per named type it declares (or imports) into an output
// directory.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/avdl/compiler"
	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/log"
	"go.jacobcolvin.com/avdl/profile"
	"go.jacobcolvin.com/avdl/serialize"
	"go.jacobcolvin.com/avdl/version"
)

// ErrReadInput indicates a failure reading or compiling the input.
var ErrReadInput = errors.New("reading input")

// ErrWriteOutput indicates a failure writing an output schema file.
var ErrWriteOutput = errors.New("writing output")

// ErrNotADirectory indicates OUTPUT_DIR exists but is not a directory.
var ErrNotADirectory = errors.New("output path exists and is not a directory")

func main() {
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	var importDirs []string

	rootCmd := &cobra.Command{
		Use:   "idl2schemata INPUT OUTPUT_DIR",
		Short: "Compile an Avro IDL file and split it into one schema per named type",
		Long: `idl2schemata compiles an Avro Interface Definition Language (.avdl) file and
writes one standalone schema file (OUTPUT_DIR/<simple_name>.avsc) per named
type it declares or imports.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, logCfg, profileCfg, importDirs)
		},
	}

	rootCmd.Flags().StringArrayVar(&importDirs, "import-dir", nil,
		"additional directory to search for imports (repeatable)")

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profileCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(version.NewCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string, logCfg *log.Config, profileCfg *profile.Config, importDirs []string) error {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	prof := profileCfg.NewProfiler()

	if startErr := prof.Start(); startErr != nil {
		return startErr
	}

	defer func() {
		if stopErr := prof.Stop(); stopErr != nil {
			slog.Error("stop profiling", "error", stopErr)
		}
	}()

	input := args[0]
	outputDir := args[1]

	if info, statErr := os.Stat(outputDir); statErr == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotADirectory, outputDir)
		}
	} else if os.IsNotExist(statErr) {
		if mkErr := os.MkdirAll(outputDir, 0o755); mkErr != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, mkErr)
		}
	} else {
		return fmt.Errorf("%w: %w", ErrReadInput, statErr)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	baseDir := filepath.Dir(input)

	named, warnings, fatal, err := compiler.CompileSchemata(filepath.Base(input), baseDir, importDirs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if fatal != nil {
		printDiagnostic(input, data, fatal)

		return errors.New("compilation failed")
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}

	for name, v := range serialize.Schemata(named) {
		out, marshalErr := json.MarshalIndent(v, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, marshalErr)
		}

		out = append(out, '\n')

		path := filepath.Join(outputDir, name+".avsc")

		if writeErr := os.WriteFile(path, out, 0o644); writeErr != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, writeErr)
		}
	}

	return nil
}

// printDiagnostic renders d with a source-underlined excerpt, reading the
// named buffer back from source/data since [diag.Diagnostic] itself never
// formats terminal output.
func printDiagnostic(source string, data []byte, d *diag.Diagnostic) {
	renderOne(source, data, d, 0)

	for _, rel := range d.Related {
		renderOne(source, data, rel, 1)
	}
}

func renderOne(source string, data []byte, d *diag.Diagnostic, indent int) {
	prefix := ""
	for range indent {
		prefix += "  "
	}

	fmt.Fprintf(os.Stderr, "%serror: %s\n", prefix, d.Message)

	if d.Span == nil {
		return
	}

	if d.Span.Source != "" && d.Span.Source != source {
		fmt.Fprintf(os.Stderr, "%s  --> %s@%d\n", prefix, d.Span.Source, d.Span.Offset)
	} else {
		line, col, text := excerpt(data, d.Span.Offset)

		fmt.Fprintf(os.Stderr, "%s  --> %s:%d:%d\n", prefix, source, line, col)
		fmt.Fprintf(os.Stderr, "%s  %s\n", prefix, text)
		fmt.Fprintf(os.Stderr, "%s  %s^\n", prefix, spaces(col-1))
	}

	if d.Help != "" {
		fmt.Fprintf(os.Stderr, "%shelp: %s\n", prefix, d.Help)
	}
}

// excerpt returns the 1-based line/column of offset within data, plus the
// full text of that line (without its terminator).
func excerpt(data []byte, offset int) (line, col int, text string) {
	line, col = 1, 1
	lineStart := 0

	for i := 0; i < offset && i < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
			lineStart = i + 1
		} else {
			col++
		}
	}

	lineEnd := lineStart

	for lineEnd < len(data) && data[lineEnd] != '\n' {
		lineEnd++
	}

	return line, col, string(data[lineStart:lineEnd])
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}

	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}

	return string(b)
}
