//go:build darwin

package macselection

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego/objc"

	"github.com/labi-le/richclip/internal/rcerrors"
	"github.com/labi-le/richclip/internal/selection"
)

// Paste implements selection.Source over the general NSPasteboard. As with
// Sink, selection.Primary is treated as an alias for the same pasteboard.
type Paste struct{}

func (Paste) List(_ context.Context, _ selection.Role) ([]string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	nsTypes, count, err := pasteboardTypes()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	selObjectAtIndex := objc.RegisterName("objectAtIndex:")
	selUTF8String := objc.RegisterName("UTF8String")

	mimes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		nsType := nsTypes.Send(selObjectAtIndex, uintptr(i))
		ptr := nsType.Send(selUTF8String)
		if ptr == 0 {
			continue
		}
		mimes = append(mimes, mimeForUTI(cStringToGoString(uintptr(ptr))))
	}
	return mimes, nil
}

func (Paste) Fetch(_ context.Context, _ selection.Role, mime string) ([]byte, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clsNSString := objc.GetClass("NSString")
	selObjectAtIndex := objc.RegisterName("objectAtIndex:")
	selUTF8String := objc.RegisterName("UTF8String")
	selStringForType := objc.RegisterName("stringForType:")
	selDataForType := objc.RegisterName("dataForType:")
	selBytes := objc.RegisterName("bytes")
	selLength := objc.RegisterName("length")
	selGeneralPasteboard := objc.RegisterName("generalPasteboard")

	nsTypes, count, err := pasteboardTypes()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if mime != "" {
			return nil, rcerrors.ErrNoSuchMime
		}
		return nil, nil
	}

	var chosenUTI string
	if mime != "" {
		for i := 0; i < count; i++ {
			nsType := nsTypes.Send(selObjectAtIndex, uintptr(i))
			ptr := nsType.Send(selUTF8String)
			if ptr == 0 {
				continue
			}
			uti := cStringToGoString(uintptr(ptr))
			if mimeForUTI(uti) == mime {
				chosenUTI = uti
				break
			}
		}
		if chosenUTI == "" {
			return nil, rcerrors.ErrNoSuchMime
		}
	} else {
		nsType := nsTypes.Send(selObjectAtIndex, uintptr(0))
		ptr := nsType.Send(selUTF8String)
		if ptr == 0 {
			return nil, nil
		}
		chosenUTI = cStringToGoString(uintptr(ptr))
	}

	clsNSPasteboard := objc.GetClass("NSPasteboard")
	pb := objc.ID(clsNSPasteboard).Send(selGeneralPasteboard)
	nsTypeStr := makeNSString(clsNSString, chosenUTI)

	if isTextUTI(chosenUTI) {
		nsStr := pb.Send(selStringForType, nsTypeStr)
		if nsStr == 0 {
			return nil, nil
		}
		ptr := nsStr.Send(selUTF8String)
		return cStringToGoBytes(uintptr(ptr)), nil
	}

	nsData := pb.Send(selDataForType, nsTypeStr)
	if nsData == 0 {
		return nil, nil
	}
	length := int(nsData.Send(selLength))
	if length == 0 {
		return nil, nil
	}
	bytesPtr := nsData.Send(selBytes)
	data := unsafe.Slice((*byte)(unsafe.Pointer(bytesPtr)), length)
	out := make([]byte, length)
	copy(out, data)
	return out, nil
}

// pasteboardTypes returns the general pasteboard's NSArray of declared
// types and its count, or (0, 0, nil) when the pasteboard is empty.
func pasteboardTypes() (objc.ID, int, error) {
	clsNSPasteboard := objc.GetClass("NSPasteboard")
	selGeneralPasteboard := objc.RegisterName("generalPasteboard")
	selTypes := objc.RegisterName("types")
	selCount := objc.RegisterName("count")

	pb := objc.ID(clsNSPasteboard).Send(selGeneralPasteboard)
	nsTypes := pb.Send(selTypes)
	if nsTypes == 0 {
		return 0, 0, nil
	}
	count := int(nsTypes.Send(selCount))
	return nsTypes, count, nil
}
