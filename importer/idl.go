package importer

import (
	"os"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/internal/grammar"
	"go.jacobcolvin.com/avdl/walker"
)

// LoadIDL reads and parses the IDL file at canonicalPath and walks it into a
// tentative model. The compiler is responsible for recursing into the
// returned Walked's own import items (an idl import can itself import
// further files) and for folding its named declarations and messages into
// the importing file's registration order.
func LoadIDL(canonicalPath string) (*walker.Walked, []diag.Warning, *diag.Diagnostic, error) {
	data, err := os.ReadFile(canonicalPath)
	if err != nil {
		return nil, nil, nil, err
	}

	file, warnings, fatal := grammar.Parse(data, canonicalPath)
	if fatal != nil {
		return nil, warnings, fatal, nil
	}

	w := walker.New()

	walked, werr := w.Walk(file, nil)
	if werr != nil {
		return nil, warnings, werr, nil
	}

	return walked, warnings, nil, nil
}
