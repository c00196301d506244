// Package outline builds symbol trees for source files. It is the library
// surface behind the symtree command.
package outline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/arjunmahishi/symtree/lang"
	"github.com/arjunmahishi/symtree/output"
	"github.com/arjunmahishi/symtree/parser"
	"github.com/arjunmahishi/symtree/scanner"
	"github.com/arjunmahishi/symtree/symtree"
)

const defaultMaxBytes = 2 * 1024 * 1024

// Document is one file and its symbol tree.
type Document struct {
	File     string
	Language lang.Language
	Tree     *symtree.Tree
}

// Render converts the document for output.
func (d *Document) Render() output.Document {
	doc := output.FromTree(d.File, d.Language.Name(), d.Tree)
	stats := d.Tree.LastStats()
	doc.Stats = &stats
	return doc
}

// Outline parses a single file and returns its symbol tree.
func Outline(ctx context.Context, opts OutlineOptions) (*Document, error) {
	if opts.File == "" {
		return nil, errors.New("file is required")
	}
	mode, err := symtree.ParseSortMode(opts.Sort)
	if err != nil {
		return nil, err
	}

	job, query, err := single(opts.File, opts.Language)
	if err != nil {
		return nil, err
	}

	tree, err := newTree(job.Language, mode)
	if err != nil {
		return nil, err
	}
	doc := &Document{File: job.DisplayPath, Language: job.Language, Tree: tree}
	if err := doc.refresh(ctx, parser.New(job.Language), query, job); err != nil {
		return nil, err
	}
	return doc, nil
}

// Outlines builds one tree per file under opts.Path with a worker pool.
// Files that fail to parse are skipped. Results are sorted by file.
func Outlines(ctx context.Context, opts SymbolsOptions) ([]*Document, error) {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	mode, err := symtree.ParseSortMode(opts.Sort)
	if err != nil {
		return nil, err
	}

	var language lang.Language
	if opts.Language != "" {
		language = lang.Get(opts.Language)
		if language == nil {
			return nil, errors.New(opts.Language + " language not registered")
		}
	}

	sc := scanner.New(scanner.Config{
		Root:        opts.Path,
		Language:    language,
		MaxBytes:    opts.MaxBytes,
		NoGitignore: opts.NoGitignore,
	})
	files, err := sc.Collect()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []*Document{}, nil
	}

	queries := make(map[string]*parser.Query)
	for _, f := range files {
		name := f.Language.Name()
		if _, ok := queries[name]; ok {
			continue
		}
		q, err := parser.NewQuery(f.Language)
		if err != nil {
			return nil, err
		}
		queries[name] = q
	}

	ws := symtree.NewWorkspace()
	docs := runOutlineWorkers(ctx, ws, queries, files, opts.Jobs, mode)
	sort.Slice(docs, func(i, j int) bool { return docs[i].File < docs[j].File })
	return docs, ctx.Err()
}

// Worker pool for Outlines
func runOutlineWorkers(
	ctx context.Context,
	ws *symtree.Workspace,
	queries map[string]*parser.Query,
	files []scanner.FileJob,
	jobs int,
	mode symtree.SortMode,
) []*Document {
	results := make(chan *Document, 128)
	jobQueue := make(chan scanner.FileJob, 128)
	var wg sync.WaitGroup

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	worker := func() {
		defer wg.Done()
		parsers := make(map[string]*parser.Parser)
		for job := range jobQueue {
			name := job.Language.Name()
			p, ok := parsers[name]
			if !ok {
				p = parser.New(job.Language)
				parsers[name] = p
			}

			tags, err := p.FileTags(ctx, queries[name], job.AbsPath, job.DisplayPath)
			if err != nil {
				continue
			}
			tree, err := ws.Open(job.DisplayPath, job.Language.Layout())
			if err != nil {
				continue
			}
			tree.SetSortMode(mode)
			if err := ws.Reconcile(job.DisplayPath, tags); err != nil {
				continue
			}
			results <- &Document{File: job.DisplayPath, Language: job.Language, Tree: tree}
		}
	}

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go worker()
	}

	go func() {
		defer close(jobQueue)
		for _, f := range files {
			select {
			case jobQueue <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var docs []*Document
	for doc := range results {
		docs = append(docs, doc)
	}

	return docs
}

// Scope returns the innermost scope tag enclosing opts.Line, or nil when
// the line is outside every scope.
func Scope(ctx context.Context, opts ScopeOptions) (*symtree.Tag, error) {
	if opts.Line < 1 {
		return nil, fmt.Errorf("line must be positive, got %d", opts.Line)
	}
	doc, err := Outline(ctx, OutlineOptions{File: opts.File, Language: opts.Language})
	if err != nil {
		return nil, err
	}
	n, ok := doc.Tree.ScopeAt(opts.Line)
	if !ok {
		return nil, nil
	}
	return n.Tag(), nil
}

func single(file, language string) (scanner.FileJob, *parser.Query, error) {
	var l lang.Language
	if language != "" {
		l = lang.Get(language)
		if l == nil {
			return scanner.FileJob{}, nil, errors.New(language + " language not registered")
		}
	}

	sc := scanner.New(scanner.Config{Language: l})
	job, err := sc.CollectSingle(file)
	if err != nil {
		return scanner.FileJob{}, nil, err
	}

	query, err := parser.NewQuery(job.Language)
	if err != nil {
		return scanner.FileJob{}, nil, err
	}
	return job, query, nil
}

func newTree(l lang.Language, mode symtree.SortMode) (*symtree.Tree, error) {
	tree, err := symtree.NewTree(l.Layout())
	if err != nil {
		return nil, err
	}
	tree.SetSortMode(mode)
	return tree, nil
}

// refresh re-parses the document's file and reconciles its tree.
func (d *Document) refresh(ctx context.Context, p *parser.Parser, q *parser.Query, job scanner.FileJob) error {
	tags, err := p.FileTags(ctx, q, job.AbsPath, job.DisplayPath)
	if err != nil {
		return err
	}
	return d.Tree.Reconcile(tags)
}
