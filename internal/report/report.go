// Package report assembles the Markdown document produced for one invocation.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/repopac/repopac/internal/render"
	"github.com/repopac/repopac/internal/types"
	"github.com/repopac/repopac/internal/utils"
	"github.com/repopac/repopac/internal/walk"
)

const (
	repositoryHeading    = "# Repository Context\n\n"
	locationHeading      = "## File System Location\n\n"
	gitInfoHeading       = "## Git Info\n\n"
	notARepositoryNotice = "Not a git repository\n\n"
	structureHeading     = "## Structure\n"
	fileContentsHeading  = "## File Contents\n\n"
	summaryHeading       = "## Summary\n\n"
	structureFenceOpen   = "```\n"
	structureFenceClose  = "```\n\n"
	summaryFilesFormat   = "Files: %d\n"
	summarySizeFormat    = "Total size: %s\n"
	summaryTokensFormat  = "Tokens: %d (%s)\n"
)

// Assembler writes report sections for directory and file roots into a shared
// output buffer. The buffer is owned by the invocation; the assembler only
// appends to it.
type Assembler struct {
	walker   *walk.Walker
	renderer *render.Renderer
}

// NewAssembler constructs an Assembler wiring the walker and renderer to the
// same stderr stream used for diagnostics.
func NewAssembler(stderr io.Writer, renderer *render.Renderer) *Assembler {
	return &Assembler{
		walker:   walk.NewWalker(stderr),
		renderer: renderer,
	}
}

// WriteDirectoryReport appends the full report segment for a directory root:
// heading, location, version-control notice, fenced structure, and the
// contents of every flattened file. It returns the per-file render results.
func (assembler *Assembler) WriteDirectoryReport(buffer *bytes.Buffer, rootPath string) ([]types.FileRender, error) {
	buffer.WriteString(repositoryHeading)

	buffer.WriteString(locationHeading)
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf("abs failed for %s: %w", rootPath, absolutePathError)
	}
	buffer.WriteString(filepath.ToSlash(absoluteRootPath) + "\n\n")

	if IsGitRepository(rootPath) {
		buffer.WriteString(gitInfoHeading)
		// TODO: extract commit and branch details once VCS support lands.
	} else {
		buffer.WriteString(notARepositoryNotice)
	}

	rootNode, buildTreeError := assembler.walker.BuildTree(rootPath)
	if buildTreeError != nil {
		return nil, buildTreeError
	}

	buffer.WriteString(structureHeading)
	buffer.WriteString(structureFenceOpen)
	walk.WriteStructure(buffer, rootNode)
	buffer.WriteString(structureFenceClose)

	filePaths := walk.FlattenFiles(rootNode)
	if len(filePaths) == 0 {
		return nil, nil
	}

	buffer.WriteString(fileContentsHeading)
	results := make([]types.FileRender, 0, len(filePaths))
	for _, filePath := range filePaths {
		results = append(results, assembler.renderer.RenderFile(buffer, filePath))
	}
	return results, nil
}

// WriteFileReport appends the report segment for a single-file root, which
// consists of the file-contents section alone.
func (assembler *Assembler) WriteFileReport(buffer *bytes.Buffer, filePath string) types.FileRender {
	buffer.WriteString(fileContentsHeading)
	return assembler.renderer.RenderFile(buffer, filePath)
}

// WriteSummary appends an aggregate section describing every rendered file.
func WriteSummary(buffer *bytes.Buffer, summary types.ReportSummary) {
	buffer.WriteString(summaryHeading)
	fmt.Fprintf(buffer, summaryFilesFormat, summary.TotalFiles)
	fmt.Fprintf(buffer, summarySizeFormat, utils.FormatFileSize(summary.TotalBytes))
	if summary.TotalTokens > 0 {
		fmt.Fprintf(buffer, summaryTokensFormat, summary.TotalTokens, summary.Model)
	}
	buffer.WriteString("\n")
}

// IsGitRepository reports whether directoryPath contains a .git directory.
func IsGitRepository(directoryPath string) bool {
	gitPath := filepath.Join(directoryPath, utils.GitDirectoryName)
	gitInfo, statError := os.Stat(gitPath)
	return statError == nil && gitInfo.IsDir()
}
