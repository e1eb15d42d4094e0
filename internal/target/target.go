// Package target answers the few platform questions the native backend has.
package target

import (
	"fmt"
	"runtime"
)

// CallingConvention is the convention used for every emitted function.
func CallingConvention() string {
	return "ccc"
}

// DefaultTriple returns the LLVM triple of the host.
func DefaultTriple() string {
	triple, err := Triple(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "x86_64-unknown-linux-gnu"
	}
	return triple
}

// IsWindows reports whether the host is Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

var archNames = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"arm":     "armv7",
	"riscv64": "riscv64",
	"wasm":    "wasm32",
}

var osSuffixes = map[string]string{
	"linux":   "unknown-linux-gnu",
	"darwin":  "apple-darwin",
	"windows": "pc-windows-msvc",
	"freebsd": "unknown-freebsd",
	"js":      "unknown-unknown",
	"wasip1":  "unknown-wasi",
}

// Triple maps a GOOS/GOARCH pair to an LLVM target triple.
func Triple(goos, goarch string) (string, error) {
	arch, ok := archNames[goarch]
	if !ok {
		return "", fmt.Errorf("target: unsupported architecture %q", goarch)
	}
	suffix, ok := osSuffixes[goos]
	if !ok {
		return "", fmt.Errorf("target: unsupported os %q", goos)
	}
	return arch + "-" + suffix, nil
}
