package peaktree

import (
	"errors"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// ArrayOpen is a helper for opening a TileDB array in the given mode,
// adapted from tiledb.go's ArrayOpen.
func ArrayOpen(ctx *tiledb.Context, uri string, mode tiledb.QueryType) (*tiledb.Array, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, err
	}

	if err = array.Open(mode); err != nil {
		array.Free()
		return nil, err
	}

	return array, nil
}

// AddFilters sequentially appends filters to a filter pipeline list.
func AddFilters(filterList *tiledb.FilterList, filters ...*tiledb.Filter) error {
	for _, filt := range filters {
		if err := filterList.AddFilter(filt); err != nil {
			return err
		}
	}
	return nil
}

// ZstdFilter initialises a Zstandard compression filter at the given level.
func ZstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err = filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// AttachFilters sets the same filter pipeline on a set of attributes.
func AttachFilters(filterList *tiledb.FilterList, attrs ...*tiledb.Attribute) error {
	for _, attr := range attrs {
		if err := attr.SetFilterList(filterList); err != nil {
			return err
		}
	}
	return nil
}

// CreateAttr creates a single TileDB attribute plus its compression filter
// pipeline from struct tags (dtype, ftype, filters); here only int32/uint32/
// float32 attributes are needed by PeakTreeRecord so the dtype switch is
// narrower than a fully general version would be.
func CreateAttr(
	fieldName string,
	filterDefs []stgpsr.Definition,
	tiledbDefs map[string]stgpsr.Definition,
	schema *tiledb.ArraySchema,
	ctx *tiledb.Context,
) error {
	def, status := tiledbDefs["dtype"]
	if !status {
		return errors.Join(ErrCreateAttributeTdb, errors.New("dtype tag not found"))
	}
	dtype, _ := def.Attribute("dtype")

	var tdbDtype tiledb.Datatype
	switch dtype {
	case "int32":
		tdbDtype = tiledb.TILEDB_INT32
	case "uint32":
		tdbDtype = tiledb.TILEDB_UINT32
	case "int64":
		tdbDtype = tiledb.TILEDB_INT64
	case "uint64":
		tdbDtype = tiledb.TILEDB_UINT64
	case "float32":
		tdbDtype = tiledb.TILEDB_FLOAT32
	case "float64":
		tdbDtype = tiledb.TILEDB_FLOAT64
	default:
		return errors.Join(ErrDtype, errors.New(dtype.(string)))
	}

	attrFilts, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}
	defer attrFilts.Free()

	for _, filter := range filterDefs {
		switch filter.Name() {
		case "zstd":
			level, status := filter.Attribute("level")
			if !status {
				return errors.Join(ErrCreateAttributeTdb, errors.New("zstd level not defined"))
			}
			filt, err := ZstdFilter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err = attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		}
	}

	attr, err := tiledb.NewAttribute(ctx, fieldName, tdbDtype)
	if err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}
	defer attr.Free()

	if err = AttachFilters(attrFilts, attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	if err = schema.AddAttributes(attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	return nil
}

// setRecordBuffers wires the flattened PeakTreeRecord slices into a write
// query's data buffers, adapted from setStructFieldBuffers's 1D-slice case
// (PeakTreeRecord only needs int32/uint32/float32 attributes, so the dims==1
// reflection switch here is narrowed to those).
func setRecordBuffers(query *tiledb.Query, rec *PeakTreeRecord) error {
	values := reflect.ValueOf(rec).Elem()
	types := reflect.TypeOf(rec).Elem()

	for i := 0; i < values.NumField(); i++ {
		fld := values.Field(i)
		name := types.Field(i).Name

		var err error
		switch v := fld.Interface().(type) {
		case []int32:
			_, err = query.SetDataBuffer(name, v)
		case []uint32:
			_, err = query.SetDataBuffer(name, v)
		case []float32:
			_, err = query.SetDataBuffer(name, v)
		default:
			return errors.Join(ErrDtype, errors.New(name))
		}
		if err != nil {
			return errors.Join(ErrSetBuff, err, errors.New(name))
		}
	}

	return nil
}

// WriteArrayMetadata writes a JSON-serialised value under key on a TileDB
// array, adapted from tiledb.go's WriteArrayMetadata.
func WriteArrayMetadata(ctx *tiledb.Context, arrayURI, key string, md any) error {
	array, err := ArrayOpen(ctx, arrayURI, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}
	defer array.Free()
	defer array.Close()

	jsn, err := JsonDumps(md)
	if err != nil {
		return errors.Join(ErrMetadata, err)
	}

	if err = array.PutMetadata(key, jsn); err != nil {
		return errors.Join(ErrMetadata, err)
	}

	return nil
}
