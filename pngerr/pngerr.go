// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngerr defines the closed error taxonomy shared by every PNGine
// package. A Code identifies the role an error plays (input-shape,
// integrity, version, codec, missing-artifact, dispatcher or resource
// error); CodedError pairs a Code with the underlying cause so that
// callers can switch on Code while still keeping the wrapped error chain
// intact for %w/errors.As.
package pngerr

import "fmt"

// Code is a role label for an error, not a type identifier. The same
// Code may be produced by several packages (e.g. CompressionFailed can
// come from pngcodec or from pngenc).
type Code int

const (
	// OK is the zero Code, meaning no error has occurred. Diagnostics
	// getters that report a "last error" use it as their reset value.
	OK Code = iota

	// Input-shape errors.
	InvalidSignature
	InvalidPng
	InvalidWasm
	InvalidPngbFormat
	InvalidPngrFormat
	BytecodeTooSmall
	RuntimeTooSmall
	InvalidPixelDataSize
	ChunkTooLarge

	// Integrity errors.
	InvalidCrc
	UnexpectedEof

	// Version errors.
	InvalidPngbVersion
	InvalidPngrVersion

	// Codec errors.
	CompressionFailed
	DecompressionFailed
	UnsupportedBlockType

	// Missing-artifact errors.
	MissingIEND
	NoPngbChunk
	NoPngrChunk
	ResourceNotFound

	// Dispatcher errors.
	InvalidState
	InvalidArgument
	PipelineCreate
	ShaderCompile
	SurfaceFailed
	TextureUnavailable
	RenderFailed
	ComputeFailed

	// Resource errors.
	OutOfMemory
	AlreadyInitialized
	NotInitialized
)

var names = map[Code]string{
	OK:                   "OK",
	InvalidSignature:     "InvalidSignature",
	InvalidPng:           "InvalidPng",
	InvalidWasm:          "InvalidWasm",
	InvalidPngbFormat:    "InvalidPngbFormat",
	InvalidPngrFormat:    "InvalidPngrFormat",
	BytecodeTooSmall:     "BytecodeTooSmall",
	RuntimeTooSmall:      "RuntimeTooSmall",
	InvalidPixelDataSize: "InvalidPixelDataSize",
	ChunkTooLarge:        "ChunkTooLarge",
	InvalidCrc:           "InvalidCrc",
	UnexpectedEof:        "UnexpectedEof",
	InvalidPngbVersion:   "InvalidPngbVersion",
	InvalidPngrVersion:   "InvalidPngrVersion",
	CompressionFailed:    "CompressionFailed",
	DecompressionFailed:  "DecompressionFailed",
	UnsupportedBlockType: "UnsupportedBlockType",
	MissingIEND:          "MissingIEND",
	NoPngbChunk:          "NoPngbChunk",
	NoPngrChunk:          "NoPngrChunk",
	ResourceNotFound:     "ResourceNotFound",
	InvalidState:         "InvalidState",
	InvalidArgument:      "InvalidArgument",
	PipelineCreate:       "PipelineCreate",
	ShaderCompile:        "ShaderCompile",
	SurfaceFailed:        "SurfaceFailed",
	TextureUnavailable:   "TextureUnavailable",
	RenderFailed:         "RenderFailed",
	ComputeFailed:        "ComputeFailed",
	OutOfMemory:          "OutOfMemory",
	AlreadyInitialized:   "AlreadyInitialized",
	NotInitialized:       "NotInitialized",
}

// String returns the role name of c, or "Unknown" if c is not a member
// of the taxonomy.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "Unknown"
}

// CodedError pairs a taxonomy Code with the error that caused it.
type CodedError struct {
	Code Code
	Err  error
}

func (e *CodedError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CodedError) Unwrap() error { return e.Err }

// New returns a *CodedError wrapping err under code. If err is nil, the
// returned error's message is just the Code's name.
func New(code Code, err error) *CodedError { return &CodedError{Code: code, Err: err} }

// CodeOf extracts the Code from err, unwrapping through any Unwrap
// chain, or OK if err is nil or carries no Code at all.
func CodeOf(err error) Code {
	for e := err; e != nil; {
		if ce, ok := e.(*CodedError); ok {
			return ce.Code
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return OK
}

// Is reports whether err is a *CodedError carrying code.
func Is(err error, code Code) bool {
	var ce *CodedError
	for err != nil {
		if c, ok := err.(*CodedError); ok {
			ce = c
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ce != nil && ce.Code == code
}
