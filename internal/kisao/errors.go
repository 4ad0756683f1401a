package kisao

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported marks errors about algorithm or parameter ids outside the
// registry, for errors.Is checks that do not care which kind.
var ErrUnsupported = errors.New("unsupported KiSAO id")

// UnsupportedAlgorithmError is returned when a simulation requests a KiSAO
// algorithm id outside the registry.
type UnsupportedAlgorithmError struct {
	KisaoID string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("algorithm with KiSAO id %q is not supported. Algorithm must be one of %s",
		e.KisaoID, strings.Join(AlgorithmIDs(), ", "))
}

func (e *UnsupportedAlgorithmError) Is(target error) bool {
	return target == ErrUnsupported
}

// UnsupportedParameterError is returned when an algorithm parameter change
// names a KiSAO id the algorithm does not accept.
type UnsupportedParameterError struct {
	Algorithm *Algorithm
	KisaoID   string
}

func (e *UnsupportedParameterError) Error() string {
	ids := e.Algorithm.ParameterIDs()
	if len(ids) == 0 {
		return fmt.Sprintf("parameter with KiSAO id %q is not supported. Algorithm %s accepts no parameters",
			e.KisaoID, e.Algorithm.KisaoID)
	}
	return fmt.Sprintf("parameter with KiSAO id %q is not supported. Parameter must be one of %s",
		e.KisaoID, strings.Join(ids, ", "))
}

func (e *UnsupportedParameterError) Is(target error) bool {
	return target == ErrUnsupported
}

// InvalidParameterValueError is returned when a parameter value cannot be
// parsed as the parameter's declared kind.
type InvalidParameterValueError struct {
	Parameter Parameter
	Value     string
	Reason    error
}

func (e *InvalidParameterValueError) Error() string {
	return e.Reason.Error()
}

func (e *InvalidParameterValueError) Unwrap() error {
	return e.Reason
}
