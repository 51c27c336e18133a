package common

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ErrSourceNotFound is wrapped by every KindMissingSource error
var ErrSourceNotFound = errors.New("source icon not found")

// ErrorKind separates a missing source from every other failure
type ErrorKind int

const (
	KindMissingSource ErrorKind = iota + 1
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingSource:
		return "missing-source"
	case KindUnexpected:
		return "unexpected-failure"
	default:
		return "none"
	}
}

// GenerateError is returned by Generator.Generate
type GenerateError struct {
	Kind    ErrorKind
	Path    string // file being read or written when the run stopped
	BaseDir string
	Size    int // target size being produced, 0 outside the resize loop
	Err     error
}

func (e *GenerateError) Error() string {
	if e.Kind == KindMissingSource {
		return fmt.Sprintf("source icon '%s' not found", e.Path)
	}
	if e.Size > 0 {
		return fmt.Sprintf("icon %dx%d: %v", e.Size, e.Size, e.Err)
	}
	return e.Err.Error()
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that are not a *GenerateError count as
// unexpected; nil has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var genErr *GenerateError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindUnexpected
}

var errorColor = color.New(color.FgRed)

// Report writes the console report for a failed run. sourceName is the
// configured source file name.
func Report(w io.Writer, sourceName string, err error) {
	var genErr *GenerateError
	if errors.As(err, &genErr) && genErr.Kind == KindMissingSource {
		errorColor.Fprintf(w, "Error: Source icon '%s' not found.\n", genErr.Path)
		fmt.Fprintf(w, "No icons were generated. Please ensure '%s' exists in the directory: '%s'.\n", sourceName, genErr.BaseDir)
		return
	}

	errorColor.Fprintf(w, "An unexpected error occurred during icon resizing: %v\n", err)
	fmt.Fprintln(w, "Icon resizing failed.")
}
