package schema

import "errors"

// Sentinel errors returned by schema construction and validation helpers.
// Callers typically wrap these with [go.jacobcolvin.com/avdl/diag.New] to
// attach a source span before surfacing them.
var (
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrReservedTypeName   = errors.New("reserved type name")
	ErrReservedProperty   = errors.New("reserved property name")
	ErrUnionNesting       = errors.New("union may not directly contain another union")
	ErrUnionDuplicate     = errors.New("union contains duplicate member type")
	ErrEnumDefault        = errors.New("enum default is not a declared symbol")
	ErrFixedSize          = errors.New("fixed size must be non-negative")
	ErrDecimalPrecision   = errors.New("decimal precision must be at least 1")
	ErrDecimalScale       = errors.New("decimal scale must be between 0 and precision")
	ErrNullableOnNull     = errors.New("nullable shorthand applied to null")
	ErrAnnotationOnRef    = errors.New("annotation on type reference")
)
