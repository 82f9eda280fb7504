// Package cpackerrors defines the engine's typed error kinds, grounded
// on the teacher's internal/errors.IndexingError shape: a struct
// carrying a Kind, contextual fields, and an unwrappable underlying
// cause, so callers can use errors.Is/As against the sentinel Kinds.
package cpackerrors

import (
	"fmt"
)

// Kind enumerates the known fault conditions from the error-handling design.
type Kind string

const (
	// BadTarget: nedb option with a non-.db target (compile) or
	// non-.db source (extract).
	BadTarget Kind = "bad_target"
	// MissingType: log-store extract without a resolvable collection.
	MissingType Kind = "missing_type"
	// DuplicateKey: two source entries share the same _key during compile.
	DuplicateKey Kind = "duplicate_key"
	// ParseFailure: a source file fails JSON/YAML parse during compile.
	ParseFailure Kind = "parse_failure"
	// LockedPack: the file-lock probe indicates the pack is in use.
	LockedPack Kind = "locked_pack"
)

// Error is the engine's single error type; all fault conditions above
// are reported through it so callers can branch on Kind or use
// errors.Is against the package-level sentinel values below.
type Error struct {
	Kind       Kind
	Operation  string
	Path       string
	Key        string
	Underlying error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Key != "":
		return fmt.Sprintf("%s: %s failed for %s (key %s): %v", e.Kind, e.Operation, e.Path, e.Key, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Kind, e.Operation, e.Path, e.Underlying)
	case e.Key != "":
		return fmt.Sprintf("%s: %s failed for key %s: %v", e.Kind, e.Operation, e.Key, e.Underlying)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Underlying)
	}
}

func (e *Error) Unwrap() error { return e.Underlying }

// Is lets errors.Is(err, cpackerrors.DuplicateKeyErr) work by
// comparing Kind, since distinct *Error values are otherwise unequal.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(kind Kind, op string) *Error {
	return &Error{Kind: kind, Operation: op}
}

// NewBadTarget reports a nedb-mode operation targeting a non-.db path.
func NewBadTarget(op, path string) *Error {
	return &Error{Kind: BadTarget, Operation: op, Path: path, Underlying: fmt.Errorf("nedb mode requires a .db target, got %q", path)}
}

// NewMissingType reports a log-store extract with no resolvable collection.
func NewMissingType(op string) *Error {
	return &Error{Kind: MissingType, Operation: op, Underlying: fmt.Errorf("nedb extract requires documentType or collection")}
}

// NewDuplicateKey reports two source entries sharing the same _key.
func NewDuplicateKey(op, key, path string) *Error {
	return &Error{Kind: DuplicateKey, Operation: op, Key: key, Path: path, Underlying: fmt.Errorf("key %q already written to this pack", key)}
}

// NewParseFailure wraps a JSON/YAML parse error from a source file.
func NewParseFailure(op, path string, cause error) *Error {
	return &Error{Kind: ParseFailure, Operation: op, Path: path, Underlying: cause}
}

// NewLockedPack reports a pack held by another process.
func NewLockedPack(op, path string) *Error {
	return &Error{Kind: LockedPack, Operation: op, Path: path, Underlying: fmt.Errorf("pack is locked by another process")}
}

// sentinels usable with errors.Is(err, cpackerrors.BadTargetErr) etc.
var (
	BadTargetErr    = newErr(BadTarget, "")
	MissingTypeErr  = newErr(MissingType, "")
	DuplicateKeyErr = newErr(DuplicateKey, "")
	ParseFailureErr = newErr(ParseFailure, "")
	LockedPackErr   = newErr(LockedPack, "")
)
