//go:build darwin

// Package macselection bridges richclip to the macOS general pasteboard
// through direct Objective-C runtime calls against an ordered multi-offer,
// multi-UTI-per-offer model.
package macselection

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

func init() {
	_, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		panic(fmt.Errorf("macselection: failed to load AppKit: %w", err))
	}
}

func makeNSString(cls objc.Class, str string) objc.ID {
	sel := objc.RegisterName("stringWithUTF8String:")
	return objc.ID(cls).Send(sel, str)
}

func cStringToGoBytes(ptr uintptr) []byte {
	s := cStringToGoString(ptr)
	if s == "" {
		return nil
	}
	return []byte(s)
}

func cStringToGoString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var length int
	for {
		if *(*byte)(unsafe.Pointer(ptr + uintptr(length))) == 0 {
			break
		}
		length++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length))
}
