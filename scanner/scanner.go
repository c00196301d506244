// Package scanner discovers the source files a symbol tree is built for.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/arjunmahishi/symtree/lang"
)

// DefaultIgnoreDirs returns the default list of directories to ignore.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":          {},
		".hg":           {},
		".svn":          {},
		".jj":           {},
		"node_modules":  {},
		"vendor":        {},
		"dist":          {},
		"build":         {},
		"target":        {},
		".venv":         {},
		"__pycache__":   {},
		".mypy_cache":   {},
		".pytest_cache": {},
		".next":         {},
		".cache":        {},
		".turbo":        {},
		"coverage":      {},
	}
}

// FileJob is one document to build a tree for.
type FileJob struct {
	AbsPath     string
	DisplayPath string
	Language    lang.Language
}

// Config holds scanner configuration.
type Config struct {
	Root string

	// Language restricts the scan to one language. When nil, every file
	// with a registered extension is collected.
	Language lang.Language

	IgnoreDirs map[string]struct{}

	// MaxBytes skips larger files. 0 disables the limit.
	MaxBytes int64

	// NoGitignore disables matching against Root/.gitignore.
	NoGitignore bool
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg Config
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	return &Scanner{cfg: cfg}
}

// Collect finds all matching files, sorted by display path.
func (s *Scanner) Collect() ([]FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var gi *ignore.GitIgnore
	if !s.cfg.NoGitignore {
		gi = loadGitignore(absRoot)
	}

	var jobs []FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.shouldIgnoreDir(d.Name()) || (gi != nil && gi.MatchesPath(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		language := s.languageFor(d.Name())
		if language == nil {
			return nil
		}

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				return nil
			}
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: rel,
			Language:    language,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].DisplayPath < jobs[j].DisplayPath
	})
	return jobs, nil
}

// CollectSingle returns a single file as a FileJob. The language is the
// configured one, or else picked by extension.
func (s *Scanner) CollectSingle(filePath string) (FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return FileJob{}, fmt.Errorf("resolve path: %w", err)
	}

	language := s.cfg.Language
	if language == nil {
		language = lang.ByExtension(filepath.Ext(absPath))
	}
	if language == nil {
		return FileJob{}, fmt.Errorf("no language for extension %q", filepath.Ext(absPath))
	}

	return FileJob{
		AbsPath:     absPath,
		DisplayPath: filepath.Base(absPath),
		Language:    language,
	}, nil
}

func (s *Scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}

func (s *Scanner) languageFor(name string) lang.Language {
	l := lang.ByExtension(filepath.Ext(name))
	if l == nil {
		return nil
	}
	if s.cfg.Language != nil && s.cfg.Language.Name() != l.Name() {
		return nil
	}
	return l
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
