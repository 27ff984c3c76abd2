// Command idl compiles an Avro IDL file into a protocol (.avpr) or
// standalone schema (.avsc), depending on the shape of the input file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/avdl/compiler"
	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/log"
	"go.jacobcolvin.com/avdl/profile"
	"go.jacobcolvin.com/avdl/serialize"
	"go.jacobcolvin.com/avdl/version"
)

// ErrReadInput indicates a failure reading the compiler's input.
var ErrReadInput = errors.New("reading input")

// ErrWriteOutput indicates a failure writing the compiler's output.
var ErrWriteOutput = errors.New("writing output")

func main() {
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	var importDirs []string

	rootCmd := &cobra.Command{
		Use:   "idl [INPUT] [OUTPUT]",
		Short: "Compile an Avro IDL file to a protocol or schema",
		Long: `idl compiles an Avro Interface Definition Language (.avdl) file into a
protocol description (.avpr) or a standalone schema (.avsc), depending on
the shape of the input file.`,
		Args:          cobra.MaximumNArgs(2),
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

	input := "-"
	if len(args) > 0 {
		input = args[0]
	}

	output := "-"
	if len(args) > 1 {
		output = args[1]
	}

	source, data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	baseDir := "."
	if input != "-" {
		absInput, absErr := filepath.Abs(input)
		if absErr != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, absErr)
		}

		input = absInput
		baseDir = filepath.Dir(input)
	}

	if input == "-" {
		tmp, tmpErr := os.CreateTemp("", "idl-stdin-*.avdl")
		if tmpErr != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, tmpErr)
		}

		defer func() {
			must(os.Remove(tmp.Name()))
		}()

		if _, writeErr := tmp.Write(data); writeErr != nil {
			must(tmp.Close())

			return fmt.Errorf("%w: %w", ErrReadInput, writeErr)
		}

		must(tmp.Close())

		input = tmp.Name()
	}

	res, fatal, err := compiler.Compile(input, baseDir, importDirs)

	if errors.Is(err, compiler.ErrNotAProtocol) {
		res, fatal, err = compiler.CompileSchema(input, baseDir, importDirs)

		if errors.Is(err, compiler.ErrNotASchema) {
			return errors.New("input is a bag of named schemas; use idl2schemata instead")
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if fatal != nil {
		printDiagnostic(source, data, fatal)

		return errors.New("compilation failed")
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}

	rendered, err := serialize.File(res.File)
	if err != nil {
		return err
	}

	return writeOutput(output, rendered)
}

func readInput(input string) (source string, data []byte, err error) {
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, err
		}

		return "<stdin>", data, nil
	}

	data, err = os.ReadFile(input)
	if err != nil {
		return "", nil, err
	}

	return input, data, nil
}

func writeOutput(output string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	out = append(out, '\n')

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(out)
		if err != nil {
			if errors.Is(err, syscall.EPIPE) {
				return nil
			}

			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
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

func must(err error) {
	if err != nil {
		panic(err)
	}
}
