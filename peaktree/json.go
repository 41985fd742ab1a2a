package peaktree

import (
	"encoding/json"
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// WriteJson serialises data to a JSON file via the TileDB VFS, so the
// destination can be local, s3, or any other VFS-backed store, adapted from
// json.go's WriteJson.
func WriteJson(fileURI, configURI string, data any) (int, error) {
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
		return 0, errors.Join(ErrMetadata, err)
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return 0, errors.Join(ErrMetadata, err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return 0, errors.Join(ErrMetadata, err)
	}
	defer vfs.Free()

	stream, err := vfs.Open(fileURI, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		return 0, errors.Join(ErrMetadata, err)
	}
	defer stream.Close()

	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	bytesWritten, err := stream.Write(jsn)
	if err != nil {
		return 0, err
	}

	return bytesWritten, nil
}

// JsonDumps constructs a compact JSON string of the supplied data.
func JsonDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}

// JsonIndentDumps constructs a JSON string of the supplied data, indented
// with four spaces.
func JsonIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}

// ReadExternalMetadata loads the site metadata document (description,
// location, institution, contact) accompanying a spectrum file, via the
// TileDB VFS so it can live alongside the source array on any backend.
func ReadExternalMetadata(fileURI, configURI string, out any) error {
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
		return errors.Join(ErrMetadata, err)
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}
	defer vfs.Free()

	fh, err := vfs.Open(fileURI, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}
	defer fh.Close()

	sz, err := vfs.FileSize(fileURI)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}

	buf := make([]byte, sz)
	if _, err = fh.Read(buf, 0, sz); err != nil {
		return errors.Join(ErrMetadata, err)
	}

	if err = json.Unmarshal(buf, out); err != nil {
		return errors.Join(ErrMetadata, err)
	}

	return nil
}
