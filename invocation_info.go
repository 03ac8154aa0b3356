package hfsm

import (
	"reflect"
	"runtime"
	"strings"
)

// InvocationInfo describes a method - either an action or a guard condition.
type InvocationInfo struct {
	// MethodName is the name of the invoked method.
	MethodName string
	// description is the user-specified description (can be empty).
	description string
}

// DefaultFunctionDescription is the text returned for compiler-generated functions
// where the caller has not specified a description.
var DefaultFunctionDescription = "Function"

// NullString is the string representation of a null value.
const NullString = "<null>"

// CreateInvocationInfo creates InvocationInfo from a function and description.
func CreateInvocationInfo(fn any, description string) InvocationInfo {
	return InvocationInfo{
		MethodName:  getFunctionName(fn),
		description: description,
	}
}

// Description returns the description of the invoked method.
// Returns:
// 1. The user-specified description, if any
// 2. Otherwise, if the method name is compiler-generated, returns DefaultFunctionDescription
// 3. Otherwise, the method name
func (i InvocationInfo) Description() string {
	if i.description != "" {
		return i.description
	}
	if i.MethodName == "" {
		return NullString
	}
	// Closures are named like pkg.Outer.func1
	if strings.Contains(i.MethodName, ".func") {
		return DefaultFunctionDescription
	}
	if idx := strings.LastIndex(i.MethodName, "."); idx >= 0 {
		return i.MethodName[idx+1:]
	}
	return i.MethodName
}

// getFunctionName returns the name of a function.
func getFunctionName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	// Extract just the function name from the full path
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
