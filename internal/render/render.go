// Package render turns individual files into fenced Markdown sections.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repopac/repopac/internal/tokenizer"
	"github.com/repopac/repopac/internal/types"
	"github.com/repopac/repopac/internal/utils"
)

const (
	fileHeaderFormat = "### File: %s\n"
	fenceOpenFormat  = "```%s\n"
	fenceClose       = "```\n\n"
	// truncationNoticeFormat reports the original size and the number of bytes shown.
	truncationNoticeFormat = "\n... (truncated; original %d bytes, showing first %d bytes)\n"

	warningOpenFileFormat   = "Warning: could not open file %s: %v\n"
	warningReadFileFormat   = "Warning: could not read file %s: %v\n"
	warningTokenCountFormat = "Warning: failed to count tokens for %s: %v\n"
)

// Renderer appends fenced file sections to a report buffer. A failed read
// degrades to an empty section and a stderr diagnostic; it never aborts the run.
type Renderer struct {
	Stderr       io.Writer
	ByteCap      int
	TokenCounter tokenizer.Counter
}

// NewRenderer constructs a Renderer with the fixed content byte cap.
func NewRenderer(stderr io.Writer) *Renderer {
	return &Renderer{Stderr: stderr, ByteCap: types.ContentByteCap}
}

// RenderFile appends the section for filePath to buffer: a header line, a
// fenced block tagged by extension, at most ByteCap bytes of content, and a
// truncation notice when the file is larger than the cap. Truncation cuts at
// the exact byte boundary regardless of encoding.
func (renderer *Renderer) RenderFile(buffer *bytes.Buffer, filePath string) types.FileRender {
	result := types.FileRender{Path: filePath}

	fmt.Fprintf(buffer, fileHeaderFormat, filePath)
	fmt.Fprintf(buffer, fenceOpenFormat, LanguageTag(filePath))

	content, totalSize, readError := renderer.readCapped(filePath)
	if readError != nil {
		result.Failed = true
		buffer.WriteString(fenceClose)
		return result
	}
	result.SizeBytes = totalSize
	result.Shown = len(content)

	buffer.Write(content)
	if totalSize > int64(renderer.ByteCap) {
		result.Truncated = true
		fmt.Fprintf(buffer, truncationNoticeFormat, totalSize, renderer.ByteCap)
	} else {
		buffer.WriteByte('\n')
	}
	buffer.WriteString(fenceClose)

	if renderer.TokenCounter != nil && !utils.IsFileBinary(filePath) {
		tokens, tokenError := renderer.TokenCounter.CountString(string(content))
		if tokenError != nil {
			renderer.warn(warningTokenCountFormat, filePath, tokenError)
		} else {
			result.Tokens = tokens
		}
	}
	return result
}

// readCapped returns at most ByteCap bytes of the file along with its total
// size. The handle is always released before returning.
func (renderer *Renderer) readCapped(filePath string) ([]byte, int64, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		renderer.warn(warningOpenFileFormat, filePath, openError)
		return nil, 0, openError
	}
	defer fileHandle.Close()

	fileInformation, statError := fileHandle.Stat()
	if statError != nil {
		renderer.warn(warningReadFileFormat, filePath, statError)
		return nil, 0, statError
	}
	totalSize := fileInformation.Size()

	limit := int64(renderer.ByteCap)
	if totalSize < limit {
		limit = totalSize
	}
	content := make([]byte, limit)
	bytesRead, readError := io.ReadFull(fileHandle, content)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		renderer.warn(warningReadFileFormat, filePath, readError)
		return nil, 0, readError
	}
	return content[:bytesRead], totalSize, nil
}

func (renderer *Renderer) warn(format string, arguments ...any) {
	if renderer.Stderr == nil {
		return
	}
	fmt.Fprintf(renderer.Stderr, format, arguments...)
}

// LanguageTag infers the fence language identifier from the file extension.
// Unmapped extensions yield an untagged fence.
func LanguageTag(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return "json"
	case ".js":
		return "javascript"
	case ".cpp", ".hpp":
		return "cpp"
	default:
		return ""
	}
}
