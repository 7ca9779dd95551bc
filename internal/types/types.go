// Package types defines cross-package data structures used by the repopac CLI.
package types

const (
	// NodeTypeFile marks a regular file entry.
	NodeTypeFile = "file"
	// NodeTypeDirectory marks a directory entry.
	NodeTypeDirectory = "directory"

	// ContentByteCap is the maximum number of file content bytes rendered before truncation.
	ContentByteCap = 16 * 1024
)

// ValidatedPath is an input path resolved to absolute form with its classification.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode represents one entry of a walked directory tree. Children are
// ordered lexicographically by name.
type TreeNode struct {
	Path     string
	Name     string
	Type     string
	Children []*TreeNode
}

// FileRender is the rendered outcome for a single regular file.
type FileRender struct {
	Path      string
	SizeBytes int64
	Shown     int
	Tokens    int
	Truncated bool
	Failed    bool
}

// ReportSummary captures aggregate information about rendered files.
type ReportSummary struct {
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
	Model       string
}
