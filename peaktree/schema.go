package peaktree

import (
	"errors"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// PeakTreeRecord is the flattened, per-(time,range,node) record written to the
// output array, generalised from svp.go's schemaAttrs/ToTileDB reflection
// pattern to a dense 3D domain. Fixed at MaxNoNodes slots wide per cell;
// unused node slots are filled with NodeIDFill/-999.0.
type PeakTreeRecord struct {
	NodeID     []int32   `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	ParentID   []int32   `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	BoundL     []int32   `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	BoundR     []int32   `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	V          []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Width      []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Skew       []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Z          []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	LDR        []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	LDRMax     []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Prominence []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	Threshold  []float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	NoNodes    []uint32  `tiledb:"dtype=uint32,ftype=attr" filters:"zstd(level=16)"`
}

// NodeIDFill marks an unused node slot within a cell's fixed-width node
// dimension; FloatFill is the corresponding fill value for float attributes.
const (
	NodeIDFill = int32(-999)
	FloatFill  = float32(-999.0)
)

// OutputSchema describes the output array's domain extents: time bins,
// range bins and the fixed per-cell node-slot width.
type OutputSchema struct {
	NTime  uint64
	NRange uint64
	NNodes uint64
}

// CreateOutputArray establishes a dense [time, range, node] TileDB array and
// its PeakTreeRecord attributes, generalising svp_tiledb_array/schemaAttrs to
// three dimensions with positive-delta + zstd dimension filters.
func CreateOutputArray(uri string, ctx *tiledb.Context, dims OutputSchema) error {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return errors.Join(ErrCreateSchemaTdb, err)
	}
	defer domain.Free()

	timeDim, err := dimWithFilters(ctx, "time", dims.NTime)
	if err != nil {
		return errors.Join(ErrCreateDimTdb, err)
	}
	defer timeDim.Free()

	rangeDim, err := dimWithFilters(ctx, "range", dims.NRange)
	if err != nil {
		return errors.Join(ErrCreateDimTdb, err)
	}
	defer rangeDim.Free()

	nodeDim, err := dimWithFilters(ctx, "nodes", dims.NNodes)
	if err != nil {
		return errors.Join(ErrCreateDimTdb, err)
	}
	defer nodeDim.Free()

	if err = domain.AddDimensions(timeDim, rangeDim, nodeDim); err != nil {
		return errors.Join(ErrCreateDimTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return errors.Join(ErrCreateSchemaTdb, err)
	}
	defer schema.Free()

	if err = schema.SetDomain(domain); err != nil {
		return errors.Join(ErrCreateSchemaTdb, err)
	}
	if err = schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateSchemaTdb, err)
	}
	if err = schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrCreateSchemaTdb, err)
	}

	rec := &PeakTreeRecord{}
	if err = recordSchemaAttrs(rec, schema, ctx); err != nil {
		return err
	}

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateOutputTdb, err)
	}
	defer array.Free()

	if err = array.Create(schema); err != nil {
		return errors.Join(ErrCreateOutputTdb, err)
	}

	return nil
}

// dimWithFilters builds a single dense dimension [0, extent-1], tiled at the
// full extent, with the same positive-delta + zstd(16) pipeline svp.go uses
// for its row dimension.
func dimWithFilters(ctx *tiledb.Context, name string, extent uint64) (*tiledb.Dimension, error) {
	dim, err := tiledb.NewDimension(ctx, name, tiledb.TILEDB_UINT64, []uint64{0, extent - 1}, extent)
	if err != nil {
		return nil, err
	}

	filters, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return nil, err
	}
	defer filters.Free()

	dd, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
	if err != nil {
		return nil, err
	}
	defer dd.Free()

	zstd, err := ZstdFilter(ctx, 16)
	if err != nil {
		return nil, err
	}
	defer zstd.Free()

	if err = AddFilters(filters, dd, zstd); err != nil {
		return nil, err
	}
	if err = dim.SetFilterList(filters); err != nil {
		return nil, err
	}

	return dim, nil
}

// recordSchemaAttrs walks PeakTreeRecord's tiledb tags and attaches one
// attribute per field, mirroring SoundVelocityProfile.schemaAttrs.
func recordSchemaAttrs(rec *PeakTreeRecord, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	values := reflect.ValueOf(rec).Elem()
	types := values.Type()

	filtDefs, _ := stgpsr.ParseStruct(rec, "filters")
	tdbDefs, _ := stgpsr.ParseStruct(rec, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name
		fieldFiltDefs := filtDefs[name]

		fieldTdbDefs := make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		if err := CreateAttr(name, fieldFiltDefs, fieldTdbDefs, schema, ctx); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}

	return nil
}
