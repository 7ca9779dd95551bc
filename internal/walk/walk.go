// Package walk implements deterministic directory traversal for the repopac tool.
package walk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repopac/repopac/internal/types"
)

const (
	// indentUnit is prepended once per depth level when rendering the structure.
	indentUnit = "  "
	// directorySuffix marks directory names in the rendered structure.
	directorySuffix = "/"

	// warningSkipDirectoryFormat is used when a directory cannot be read.
	warningSkipDirectoryFormat = "Warning: skipping directory %s: %v\n"
)

// Walker builds ordered directory trees. Entries at every level are sorted by
// name so two walks over an unchanged tree produce identical results.
type Walker struct {
	Stderr io.Writer
}

// NewWalker constructs a Walker that reports traversal warnings to stderr.
func NewWalker(stderr io.Writer) *Walker {
	return &Walker{Stderr: stderr}
}

// BuildTree walks the directory rooted at rootDirectoryPath and returns its
// ordered tree. A missing root yields a nil tree rather than an error.
// Entries that are neither directories nor regular files are skipped.
func (walker *Walker) BuildTree(rootDirectoryPath string) (*types.TreeNode, error) {
	rootInfo, rootStatError := os.Stat(rootDirectoryPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat failed for %s: %w", rootDirectoryPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootDirectoryPath)
	}

	rootNode := &types.TreeNode{
		Path: rootDirectoryPath,
		Name: filepath.Base(rootDirectoryPath),
		Type: types.NodeTypeDirectory,
	}
	rootNode.Children = walker.buildChildNodes(rootDirectoryPath)
	return rootNode, nil
}

// buildChildNodes lists the immediate entries of a directory in name order and
// recurses into subdirectories. Unreadable directories are reported to stderr
// and rendered without children.
func (walker *Walker) buildChildNodes(currentDirectoryPath string) []*types.TreeNode {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		walker.warn(warningSkipDirectoryFormat, currentDirectoryPath, readDirectoryError)
		return nil
	}

	var nodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		if directoryEntry.IsDir() {
			childNode := &types.TreeNode{
				Path: childPath,
				Name: directoryEntry.Name(),
				Type: types.NodeTypeDirectory,
			}
			childNode.Children = walker.buildChildNodes(childPath)
			nodes = append(nodes, childNode)
			continue
		}
		// Symlinks, devices, and sockets are neither followed nor listed.
		if !directoryEntry.Type().IsRegular() {
			continue
		}
		nodes = append(nodes, &types.TreeNode{
			Path: childPath,
			Name: directoryEntry.Name(),
			Type: types.NodeTypeFile,
		})
	}
	return nodes
}

func (walker *Walker) warn(format string, arguments ...any) {
	if walker.Stderr == nil {
		return
	}
	fmt.Fprintf(walker.Stderr, format, arguments...)
}

// WriteStructure renders the tree below rootNode as indented text. Each depth
// level indents by two spaces and directory names carry a trailing slash.
func WriteStructure(writer io.Writer, rootNode *types.TreeNode) {
	if rootNode == nil {
		return
	}
	writeStructureLevel(writer, rootNode.Children, 0)
}

func writeStructureLevel(writer io.Writer, nodes []*types.TreeNode, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	for _, node := range nodes {
		if node.Type == types.NodeTypeDirectory {
			fmt.Fprintf(writer, "%s%s%s\n", indent, node.Name, directorySuffix)
			writeStructureLevel(writer, node.Children, depth+1)
			continue
		}
		fmt.Fprintf(writer, "%s%s\n", indent, node.Name)
	}
}

// FlattenFiles returns every regular file reachable from rootNode in
// depth-first, sorted-at-each-level order.
func FlattenFiles(rootNode *types.TreeNode) []string {
	if rootNode == nil {
		return nil
	}
	var filePaths []string
	appendFiles(rootNode.Children, &filePaths)
	return filePaths
}

func appendFiles(nodes []*types.TreeNode, filePaths *[]string) {
	for _, node := range nodes {
		if node.Type == types.NodeTypeDirectory {
			appendFiles(node.Children, filePaths)
			continue
		}
		*filePaths = append(*filePaths, node.Path)
	}
}
