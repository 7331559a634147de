//go:build windows

package apps

import (
	"fmt"
	"golang.org/x/sys/windows"
	"unsafe"
)

// productName reads ProductName from the first translation in the file's
// version resource.
func productName(path string) string {
	size, err := windows.GetFileVersionInfoSize(path, nil)
	if err != nil || size == 0 {
		return ""
	}

	data := make([]byte, size)
	if err := windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&data[0])); err != nil {
		return ""
	}

	var (
		translation *struct{ Language, CodePage uint16 }
		length      uint32
	)
	err = windows.VerQueryValue(unsafe.Pointer(&data[0]), `\VarFileInfo\Translation`, unsafe.Pointer(&translation), &length)
	if err != nil || length == 0 || translation == nil {
		return ""
	}

	var (
		value *uint16
		chars uint32
	)
	sub := fmt.Sprintf(`\StringFileInfo\%04x%04x\ProductName`, translation.Language, translation.CodePage)
	if err := windows.VerQueryValue(unsafe.Pointer(&data[0]), sub, unsafe.Pointer(&value), &chars); err != nil || chars == 0 || value == nil {
		return ""
	}
	return windows.UTF16PtrToString(value)
}
