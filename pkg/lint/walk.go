package lint

import (
	"context"
	"io/fs"
	"os"
)

// Walk returns the files under root that the rule keeps, relative to root
// and slash separated. Excluded directories are not descended into.
func (f *Filter) Walk(ctx context.Context, root string) ([]string, error) {
	return f.WalkFS(ctx, os.DirFS(root))
}

// WalkFS is Walk over an arbitrary file system.
func (f *Filter) WalkFS(ctx context.Context, fsys fs.FS) ([]string, error) {
	var out []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if d.IsDir() {
			if f.Excluded(p) {
				return fs.SkipDir
			}
			return nil
		}
		if f.Keep(p) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
