package utils

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLimit caps how much of a file is read when probing for binary content.
const sniffLimit = 8000

// IsBinary reports whether data looks like binary content: the bytes are not
// valid UTF-8 or contain a NUL byte.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}

// IsFileBinary sniffs the opening bytes of the file at filePath. Unreadable
// files are treated as text so their failures surface through the normal read
// diagnostics instead of being silently classified.
func IsFileBinary(filePath string) bool {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	sniffBuffer := make([]byte, sniffLimit)
	bytesRead, readError := fileHandle.Read(sniffBuffer)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(sniffBuffer[:bytesRead])
}
