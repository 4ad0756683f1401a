package run

import "fmt"

// ModelImportError is returned when a task's model file cannot be read or
// parsed in the declared language.
type ModelImportError struct {
	Source string
	Err    error
}

func (e *ModelImportError) Error() string {
	return fmt.Sprintf("model file %s could not be imported: %v", e.Source, e.Err)
}

func (e *ModelImportError) Unwrap() error {
	return e.Err
}

// UnsupportedLanguageError is returned when a model declares a language
// other than SBML.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("model language %q is not supported. Language must be SBML (urn:sedml:language:sbml)", e.Language)
}

// TimeCourseError is returned when a uniform time course cannot be mapped
// onto an engine run: a non-zero initial time, or output times that do not
// divide the full simulation window into an integer number of steps.
type TimeCourseError struct {
	Reason string
}

func (e *TimeCourseError) Error() string {
	return e.Reason
}

// UnsupportedSymbolError is returned when a variable uses a symbol other
// than time.
type UnsupportedSymbolError struct {
	Variable string
	Symbol   string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("symbol %q of variable %q is not supported. Symbols must be %q",
		e.Symbol, e.Variable, symbolTime)
}

// UnsupportedTargetError is returned when a variable target does not
// address a species of the model.
type UnsupportedTargetError struct {
	Variable string
	Target   string
	Reason   string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("target %q of variable %q is not supported (%s). Targets must be species of the form %s",
		e.Target, e.Variable, e.Reason, speciesTargetForm)
}
