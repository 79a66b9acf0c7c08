// Package record defines the data structures accumulated while a test runs.
package record

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

// CodeInfo is static source-location metadata for a function or module.
type CodeInfo struct {
	Name      string `json:"name" yaml:"name"`
	Docstring string `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Line      int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// ForFunction returns the CodeInfo of fn. Non-function values yield an empty CodeInfo.
func ForFunction(fn any) CodeInfo {
	if fn == nil {
		return CodeInfo{}
	}

	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.IsNil() {
		return CodeInfo{}
	}

	f := runtime.FuncForPC(value.Pointer())
	if f == nil {
		return CodeInfo{}
	}

	file, line := f.FileLine(f.Entry())

	return CodeInfo{
		Name: shortFuncName(f.Name()),
		File: file,
		Line: line,
	}
}

// ForModuleFromStack returns the CodeInfo of the caller levelsUp frames above
// the function that calls ForModuleFromStack. The name is the caller's package.
func ForModuleFromStack(levelsUp int) CodeInfo {
	// 0 would be ForModuleFromStack itself.
	pc, file, line, ok := runtime.Caller(levelsUp)
	if !ok {
		return CodeInfo{}
	}

	name := filepath.Base(file)
	if f := runtime.FuncForPC(pc); f != nil {
		name = packageName(f.Name())
	}

	return CodeInfo{
		Name: name,
		File: file,
		Line: line,
	}
}

// shortFuncName strips the import path from a fully qualified function name,
// e.g. "htf.dev/pkg/htf/internal/domain.PowerOn" becomes "PowerOn".
func shortFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}

	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}

	return full
}

// packageName extracts the package path from a fully qualified function name.
func packageName(full string) string {
	slash := strings.LastIndex(full, "/")

	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return full
	}

	return full[:slash+1+dot]
}
