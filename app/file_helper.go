package app

import (
	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/service"
)

// FileHelper provides file collection utilities for use cases. It wraps
// the source file reader so path resolution, pattern matching, and
// gitignore handling live in one place.
type FileHelper struct {
	reader domain.SourceFileReader
}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{reader: service.NewSourceFileReader()}
}

// NewFileHelperWithReader creates a FileHelper backed by the given reader
func NewFileHelperWithReader(reader domain.SourceFileReader) *FileHelper {
	return &FileHelper{reader: reader}
}

// CollectSourceFiles collects supported source files from paths
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	return h.reader.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}

// IsSupportedSourceFile checks if a file's extension maps to a registered
// language
func (h *FileHelper) IsSupportedSourceFile(path string) bool {
	return h.reader.IsSupportedFile(path)
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	return h.reader.FileExists(path)
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return h.reader.ReadFile(path)
}

// ResolveFilePaths resolves input paths to concrete files. Paths that are
// all existing files pass through unchanged; anything else goes through
// collection so directories expand and patterns apply.
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := len(paths) > 0
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectSourceFiles(paths, recursive, includePatterns, excludePatterns)
}
