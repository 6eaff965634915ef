//go:build darwin

package macselection

import "strings"

// textUTIs are the pasteboard types whose value is read and written through
// NSString, not NSData. Any type not listed here is treated as binary.
var textUTIs = map[string]bool{
	"public.utf8-plain-text": true,
	"public.plain-text":      true,
	"public.file-url":        true,
}

// mimeToUTI maps the handful of MIME types with a well-known pasteboard
// equivalent. Anything else is published under its own MIME string: macOS
// pasteboard types are just identifier strings and tolerate an unregistered
// one fine, which keeps arbitrary richclip payloads round-trippable without
// inventing a private UTI registry.
var mimeToUTI = map[string]string{
	"text/plain":      "public.utf8-plain-text",
	"text/plain;charset=utf-8": "public.utf8-plain-text",
	"UTF8_STRING":     "public.utf8-plain-text",
	"STRING":          "public.utf8-plain-text",
	"TEXT":            "public.utf8-plain-text",
	"image/png":       "public.png",
	"text/uri-list":   "public.file-url",
}

var utiToMime = map[string]string{
	"public.utf8-plain-text": "text/plain",
	"public.plain-text":      "text/plain",
	"public.png":             "image/png",
	"public.file-url":        "text/uri-list",
}

func utiForMime(mime string) string {
	if uti, ok := mimeToUTI[mime]; ok {
		return uti
	}
	return mime
}

func mimeForUTI(uti string) string {
	if mime, ok := utiToMime[uti]; ok {
		return mime
	}
	return uti
}

func isTextUTI(uti string) bool {
	if textUTIs[uti] {
		return true
	}
	return strings.HasPrefix(uti, "public.") && strings.Contains(uti, "text")
}
