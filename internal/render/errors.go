package render

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a job failure.
type Kind int

const (
	// KindConfiguration is an invalid request rejected before synthesis.
	KindConfiguration Kind = iota + 1
	// KindIO is a directory or file write failure.
	KindIO
	// KindSynthesis is a generator invariant violation.
	KindSynthesis
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindSynthesis:
		return "synthesis"
	}
	return "unknown"
}

// Error is a classified render failure. The context fields are filled in as
// the error travels up from the generator to the batch runner.
type Error struct {
	Kind      Kind
	Op        string
	Category  string
	Label     string
	Hz        float64
	Generator string
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func configError(op, format string, args ...any) *Error {
	return newError(KindConfiguration, op, fmt.Errorf(format, args...))
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }
func IsIO(err error) bool            { return KindOf(err) == KindIO }
func IsSynthesis(err error) bool     { return KindOf(err) == KindSynthesis }

// Annotate attaches the spec identity and generator to a classified error.
// Unclassified errors are returned unchanged.
func Annotate(err error, spec FrequencySpec, generator string) error {
	var re *Error
	if !errors.As(err, &re) {
		return err
	}
	if re.Category == "" {
		re.Category = spec.Category
	}
	if re.Label == "" {
		re.Label = spec.Label
	}
	if re.Hz == 0 {
		re.Hz = spec.TargetHz
	}
	if re.Generator == "" {
		re.Generator = generator
	}
	return err
}
