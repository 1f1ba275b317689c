// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngine is the host-facing surface of the toolchain: a
// Runtime owns a pluggable GPU backend factory, and each Animation it
// creates wraps one dispatch.Dispatcher driving one deserialized PNGB
// module. Every call on a nil *Animation is a safe no-op (or a
// documented zero/nonzero return), so host bindings never need a
// separate liveness check before calling into it.
package pngine
