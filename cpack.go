// Package cpack is the library surface of the compendium pack codec: two
// operations, CompilePack and ExtractPack, plus an optional RepairPack,
// each a thin wrapper over internal/pack's orchestrators. The package
// never parses CLI arguments or reads configuration itself — that is
// cmd/cpack's job.
package cpack

import (
	"github.com/packsmith/cpack/internal/docvalue"
	"github.com/packsmith/cpack/internal/pack"
	"github.com/packsmith/cpack/internal/serializer"
)

// Doc is the dynamic document value every hook in this package exchanges.
type Doc = docvalue.Doc

// Logger, EntryTransform, NameTransform, and FolderNameTransform mirror
// internal/pack's option hook types so callers never import internal/pack.
type (
	Logger              = pack.Logger
	EntryTransform      = pack.EntryTransform
	NameTransform       = pack.NameTransform
	FolderNameTransform = pack.FolderNameTransform
)

// YAMLOptions and JSONOptions configure the serializer used on extract.
type (
	YAMLOptions = serializer.YAMLOptions
	JSONOptions = serializer.JSONOptions
)

// CompileOptions configures CompilePack.
type CompileOptions = pack.CompileOptions

// ExtractOptions configures ExtractPack.
type ExtractOptions = pack.ExtractOptions

// RepairOptions configures RepairPack.
type RepairOptions = pack.RepairOptions

// CompilePack reads a directory of source documents at src and writes a
// compiled pack (sorted store, or log store when opts.NeDB is set) to dest.
func CompilePack(src, dest string, opts CompileOptions) error {
	return pack.Compile(src, dest, opts)
}

// ExtractPack reads a compiled pack at src and writes a directory of
// source documents to dest.
func ExtractPack(src, dest string, opts ExtractOptions) error {
	return pack.Extract(src, dest, opts)
}

// RepairPack runs the sorted store's on-disk recovery routine against src.
// Neither CompilePack nor ExtractPack invoke it automatically.
func RepairPack(src string, opts RepairOptions) error {
	return pack.Repair(src, opts)
}
