package service

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/codescan/domain"
	"github.com/ludo-technologies/codescan/internal/config"
	"github.com/ludo-technologies/codescan/internal/lang"
)

// SourceFileReaderImpl implements domain.SourceFileReader. Collection is
// extension-driven: a file counts as source when its extension maps to a
// registered language.
type SourceFileReaderImpl struct {
	respectGitignore bool
}

// NewSourceFileReader creates a file reader with .gitignore filtering enabled
func NewSourceFileReader() *SourceFileReaderImpl {
	return &SourceFileReaderImpl{respectGitignore: true}
}

// NewSourceFileReaderFromConfig creates a file reader from the analysis
// configuration
func NewSourceFileReaderFromConfig(cfg *config.AnalysisConfig) *SourceFileReaderImpl {
	return &SourceFileReaderImpl{respectGitignore: cfg.RespectGitignore}
}

// CollectSourceFiles recursively finds all supported source files in the
// given paths. Explicit file arguments bypass include patterns but still
// honor exclusions. The result is sorted and de-duplicated.
func (r *SourceFileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.NewFileNotFoundError(path, err)
			}
			return nil, domain.NewInvalidInputError("cannot access path: "+path, err)
		}

		if !info.IsDir() {
			if r.IsSupportedFile(path) && !isExcluded(relSlash(filepath.Dir(path), path), excludePatterns) {
				add(path)
			}
			continue
		}

		collected, err := r.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		for _, f := range collected {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

// collectFromDirectory walks one directory root
func (r *SourceFileReaderImpl) collectFromDirectory(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var ignorer *ignore.GitIgnore
	if r.respectGitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			ignorer = gi
		}
	}

	var files []string

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, domain.NewInvalidInputError("cannot read directory: "+root, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if r.acceptFile(root, path, includePatterns, excludePatterns, ignorer) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel := relSlash(root, path)

		if info.IsDir() {
			if path == root {
				return nil
			}
			if isExcludedDir(filepath.Base(path), rel, excludePatterns) {
				return filepath.SkipDir
			}
			if ignorer != nil && ignorer.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if r.acceptFile(root, path, includePatterns, excludePatterns, ignorer) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewInvalidInputError("directory walk failed: "+root, err)
	}

	return files, nil
}

// acceptFile applies the support, include, exclude, and gitignore filters
// to one regular file
func (r *SourceFileReaderImpl) acceptFile(root, path string, includePatterns, excludePatterns []string, ignorer *ignore.GitIgnore) bool {
	if !r.IsSupportedFile(path) {
		return false
	}

	rel := relSlash(root, path)

	if ignorer != nil && ignorer.MatchesPath(rel) {
		return false
	}
	if isExcluded(rel, excludePatterns) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	for _, pattern := range includePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ReadFile reads the content of a file
func (r *SourceFileReaderImpl) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// IsSupportedFile checks whether a file's extension maps to a registered language
func (r *SourceFileReaderImpl) IsSupportedFile(path string) bool {
	return lang.ForExtension(filepath.Ext(path)) != ""
}

// DetectLanguage resolves the language for a path
func (r *SourceFileReaderImpl) DetectLanguage(path string) (domain.Language, bool) {
	language := lang.ForExtension(filepath.Ext(path))
	return language, language != ""
}

// FileExists checks if a path exists and is a regular file
func (r *SourceFileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// relSlash returns path relative to root with forward slashes, suitable for
// glob and gitignore matching
func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// isExcluded reports whether a relative file path matches any exclude
// pattern. Patterns match the full relative path, the base name, or any
// single path segment (bare directory names like "node_modules").
func isExcluded(rel string, excludePatterns []string) bool {
	base := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		base = rel[i+1:]
	}
	for _, pattern := range excludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		for _, seg := range strings.Split(rel, "/") {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}

// isExcludedDir reports whether a directory should be pruned from the walk
func isExcludedDir(name, rel string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if pattern == name {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
