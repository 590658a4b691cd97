package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"blend65/internal/ast"
	"blend65/internal/diag"
	"blend65/internal/source"
)

// UnitExt is the wire format extension the loader picks up.
const UnitExt = ".json"

// UnitResult is one loaded compilation unit. Load and decode failures
// ride in the unit's own bag; loading never aborts the batch.
type UnitResult struct {
	Path string
	File source.FileID
	Unit *ast.CompilationUnit
	// Digest is the content hash of the unit file; zero when the file
	// never loaded.
	Digest Digest
	Bag    *diag.Bag
}

// Batch bundles the loaded units with their file set.
type Batch struct {
	FileSet *source.FileSet
	Units   []UnitResult
}

// Decoded returns the units that survived loading, in input order.
func (b *Batch) Decoded() []*ast.CompilationUnit {
	out := make([]*ast.CompilationUnit, 0, len(b.Units))
	for i := range b.Units {
		if b.Units[i].Unit != nil {
			out = append(out, b.Units[i].Unit)
		}
	}
	return out
}

// CleanLoad reports whether every unit loaded and decoded.
func (b *Batch) CleanLoad() bool {
	if len(b.Units) == 0 {
		return false
	}
	for i := range b.Units {
		if b.Units[i].Unit == nil {
			return false
		}
	}
	return true
}

// Digest combines the per-unit content hashes, in input order.
func (b *Batch) Digest() Digest {
	parts := make([]Digest, len(b.Units))
	for i := range b.Units {
		parts[i] = b.Units[i].Digest
	}
	return CombineDigests(parts...)
}

// ListUnitFiles returns the sorted list of unit files beneath dir.
func ListUnitFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, UnitExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir loads every unit file beneath dir in sorted path order.
func LoadDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*Batch, error) {
	files, err := ListUnitFiles(dir)
	if err != nil {
		return nil, err
	}
	batch, err := LoadFiles(ctx, files, maxDiagnostics, jobs)
	if batch != nil {
		batch.FileSet.SetBaseDir(dir)
	}
	return batch, err
}

// LoadFiles loads and decodes an explicit list of unit files in
// parallel. The result slice matches the input order.
func LoadFiles(ctx context.Context, paths []string, maxDiagnostics, jobs int) (*Batch, error) {
	fileSet := source.NewFileSet()
	batch := &Batch{FileSet: fileSet, Units: make([]UnitResult, len(paths))}
	if len(paths) == 0 {
		return batch, nil
	}

	// The FileSet is not safe for concurrent Add, so files are read up
	// front and only decoding fans out.
	fileIDs := make(map[string]source.FileID, len(paths))
	loadErrors := make(map[string]error, len(paths))
	for _, path := range paths {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			res := UnitResult{Path: path, Bag: bag}

			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{},
					"failed to load file: "+loadErr.Error()))
				batch.Units[i] = res
				return nil
			}

			fileID := fileIDs[path]
			file := fileSet.Get(fileID)
			res.File = fileID
			res.Digest = Digest(file.Hash)

			unit, err := ast.DecodeUnit(file.Content, path, fileID)
			if err != nil {
				bag.Add(diag.NewError(diag.IODecodeError, source.Span{File: fileID}, err.Error()))
				batch.Units[i] = res
				return nil
			}

			res.Unit = unit
			batch.Units[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return batch, err
	}
	return batch, nil
}
