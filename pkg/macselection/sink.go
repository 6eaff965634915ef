//go:build darwin

package macselection

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego/objc"

	"github.com/labi-le/richclip/internal/clipsource"
	"github.com/labi-le/richclip/internal/selection"
)

// Sink implements selection.Sink over the general NSPasteboard. macOS has
// no separate primary selection; Publish treats selection.Primary as an
// alias for the same pasteboard.
type Sink struct{}

func (Sink) Publish(_ context.Context, src *clipsource.Source, _ selection.Role) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clsNSPasteboard := objc.GetClass("NSPasteboard")
	clsNSString := objc.GetClass("NSString")
	clsNSData := objc.GetClass("NSData")

	selGeneralPasteboard := objc.RegisterName("generalPasteboard")
	selClearContents := objc.RegisterName("clearContents")
	selSetString := objc.RegisterName("setString:forType:")
	selSetData := objc.RegisterName("setData:forType:")
	selDataWithBytes := objc.RegisterName("dataWithBytes:length:")

	pb := objc.ID(clsNSPasteboard).Send(selGeneralPasteboard)
	pb.Send(selClearContents)

	// Offer order sets priority: publish in reverse so that when two
	// offers share a UTI, the earlier offer's write is the last one
	// applied and therefore the one the pasteboard actually keeps —
	// matching clipsource.Source.Lookup's first-offer-wins contract.
	offers := src.Offers()
	for i := len(offers) - 1; i >= 0; i-- {
		offer := offers[i]
		for _, mime := range offer.MimeTypes {
			nsType := makeNSString(clsNSString, utiForMime(mime))
			content, ok := src.Lookup(mime)
			if !ok {
				continue
			}

			if isTextUTI(utiForMime(mime)) {
				nsStr := makeNSString(clsNSString, string(content))
				pb.Send(selSetString, nsStr, nsType)
				continue
			}

			var bytesPtr unsafe.Pointer
			if len(content) > 0 {
				bytesPtr = unsafe.Pointer(&content[0])
			}
			nsData := objc.ID(clsNSData).Send(selDataWithBytes, uintptr(bytesPtr), uintptr(len(content)))
			pb.Send(selSetData, nsData, nsType)
		}
	}

	return nil
}
