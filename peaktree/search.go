package peaktree

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl recursively walks a VFS-addressable tree collecting items whose
// basename matches pattern, adapted from search/search.go's trawl.
func trawl(vfs *tiledb.VFS, pattern, uri string, items []string) ([]string, error) {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return items, err
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return items, err
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		match, err := filepath.Match(pattern, filepath.Base(dir))
		if err != nil {
			return items, err
		}
		if match {
			items = append(items, dir)
			continue
		}
		items, err = trawl(vfs, pattern, dir, items)
		if err != nil {
			return items, err
		}
	}

	return items, nil
}

// FindSpectrumArrays recursively searches uri for TileDB spectrum-source
// array directories (matched by their "*.tdb" basename convention), using
// the TileDB VFS so the search works against local filesystems or object
// stores alike. Adapted from search/search.go's FindGsf.
func FindSpectrumArrays(uri, configURI string) ([]string, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	return trawl(vfs, "*.tdb", uri, make([]string, 0))
}
