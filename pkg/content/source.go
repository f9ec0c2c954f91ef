package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Source lists the raw documents of a kind.
type Source interface {
	List(ctx context.Context, kind Kind) ([]RawDoc, error)
}

// DirSource reads content from a file system tree.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource reads from a directory on disk.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// NewFSSource reads from fsys.
func NewFSSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

// List returns the markdown files in the kind's directory. A missing
// directory is an empty collection.
func (s *DirSource) List(ctx context.Context, kind Kind) ([]RawDoc, error) {
	dir := kind.Dir()
	entries, err := fs.ReadDir(s.fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	docs := make([]RawDoc, 0, len(entries))
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !isMarkdown(de.Name()) {
			continue
		}
		p := path.Join(dir, de.Name())
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return nil, err
		}
		doc := RawDoc{Name: de.Name(), Data: data}
		if info, err := de.Info(); err == nil {
			doc.ModTime = info.ModTime()
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md") && !strings.HasPrefix(name, ".")
}
