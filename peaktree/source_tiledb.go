package peaktree

import (
	"errors"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// TileDBSource is a SpectrumSource backed by a TileDB dense array of shape
// [velocity, range, time] with attributes Z, LDR, SNRco, grounded on
// OpenGSF/ArrayOpen's config/context/VFS construction (file.go, tiledb.go).
type TileDBSource struct {
	uri    string
	config *tiledb.Config
	ctx    *tiledb.Context
	array  *tiledb.Array

	timeAxis     []time.Time
	rangeAxis    []float64
	velocityAxis []float64
}

// OpenTileDBSource opens a spectrum-source TileDB array for reading and loads
// its axis metadata, mirroring OpenGSF's config/context construction.
func OpenTileDBSource(uri, configURI string) (*TileDBSource, error) {
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
		return nil, errors.Join(ErrCreateSourceTdb, err)
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, errors.Join(ErrCreateSourceTdb, err)
	}

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, errors.Join(ErrCreateSourceTdb, err)
	}

	err = array.Open(tiledb.TILEDB_READ)
	if err != nil {
		array.Free()
		return nil, errors.Join(ErrCreateSourceTdb, err)
	}

	src := &TileDBSource{uri: uri, config: config, ctx: ctx, array: array}

	timeRaw, rangeRaw, velRaw, err := readAxisMetadata(array)
	if err != nil {
		array.Close()
		array.Free()
		return nil, errors.Join(ErrReadSourceTdb, err)
	}
	src.timeAxis = timeRaw
	src.rangeAxis = rangeRaw
	src.velocityAxis = velRaw

	return src, nil
}

// readAxisMetadata pulls the time/range/velocity axes from array metadata
// keys "time_axis_unix", "range_axis_m", "velocity_axis_ms", written by the
// source producer alongside the Z/LDR/SNRco attributes.
func readAxisMetadata(array *tiledb.Array) ([]time.Time, []float64, []float64, error) {
	timeSecs, err := readFloat64MetadataSlice(array, "time_axis_unix")
	if err != nil {
		return nil, nil, nil, err
	}
	timeAxis := make([]time.Time, len(timeSecs))
	for i, s := range timeSecs {
		timeAxis[i] = time.Unix(int64(s), 0).UTC()
	}

	rangeAxis, err := readFloat64MetadataSlice(array, "range_axis_m")
	if err != nil {
		return nil, nil, nil, err
	}

	velAxis, err := readFloat64MetadataSlice(array, "velocity_axis_ms")
	if err != nil {
		return nil, nil, nil, err
	}

	return timeAxis, rangeAxis, velAxis, nil
}

func readFloat64MetadataSlice(array *tiledb.Array, key string) ([]float64, error) {
	_, _, val, err := array.GetMetadata(key)
	if err != nil {
		return nil, err
	}
	slc, ok := val.([]float64)
	if !ok {
		return nil, errors.Join(ErrReadSourceTdb, errors.New("metadata key is not []float64: "+key))
	}
	return slc, nil
}

func (s *TileDBSource) TimeAxis() []time.Time       { return s.timeAxis }
func (s *TileDBSource) RangeAxis() []float64        { return s.rangeAxis }
func (s *TileDBSource) VelocityAxis() []float64     { return s.velocityAxis }

// Cell reads a single (itime, irange) column of Z, LDR, SNRco across the
// velocity axis using a ranged subarray query, grounded on svp.go's
// ToTileDB subarray/query construction pattern (read direction).
func (s *TileDBSource) Cell(itime, irange int) (z, ldr, snrco []float64, err error) {
	zCols, ldrCols, snrcoCols, err := s.readColumns(itime, itime, irange)
	if err != nil {
		return nil, nil, nil, err
	}
	return columnAt(zCols, 0), columnAt(ldrCols, 0), columnAt(snrcoCols, 0), nil
}

// Window reads the [itimeBegin, itimeEnd] window of columns at irange.
func (s *TileDBSource) Window(itimeBegin, itimeEnd, irange int) (z, ldr, snrco [][]float64, err error) {
	return s.readColumns(itimeBegin, itimeEnd, irange)
}

func columnAt(cols [][]float64, w int) []float64 {
	out := make([]float64, len(cols))
	for i, row := range cols {
		out[i] = row[w]
	}
	return out
}

// readColumns issues one ranged TileDB read query per attribute for the
// [velocity(all), irange, itimeBegin:itimeEnd] subarray, returning
// [Nv][window] slices.
func (s *TileDBSource) readColumns(itimeBegin, itimeEnd, irange int) (z, ldr, snrco [][]float64, err error) {
	nv := len(s.velocityAxis)
	window := itimeEnd - itimeBegin + 1

	subarr, err := s.array.NewSubarray()
	if err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	defer subarr.Free()

	if err = subarr.AddRangeByName("velocity", tiledb.MakeRange(uint64(0), uint64(nv-1))); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if err = subarr.AddRangeByName("range", tiledb.MakeRange(uint64(irange), uint64(irange))); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if err = subarr.AddRangeByName("time", tiledb.MakeRange(uint64(itimeBegin), uint64(itimeEnd))); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}

	query, err := tiledb.NewQuery(s.ctx, s.array)
	if err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	defer query.Free()

	if err = query.SetSubarray(subarr); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if err = query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}

	zBuf := make([]float64, nv*window)
	ldrBuf := make([]float64, nv*window)
	snrcoBuf := make([]float64, nv*window)

	if _, err = query.SetDataBuffer("Z", zBuf); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if _, err = query.SetDataBuffer("LDR", ldrBuf); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if _, err = query.SetDataBuffer("SNRco", snrcoBuf); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}

	if err = query.Submit(); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}
	if err = query.Finalize(); err != nil {
		return nil, nil, nil, errors.Join(ErrReadSourceTdb, err)
	}

	z = unflattenRowMajor(zBuf, nv, window)
	ldr = unflattenRowMajor(ldrBuf, nv, window)
	snrco = unflattenRowMajor(snrcoBuf, nv, window)

	return z, ldr, snrco, nil
}

func unflattenRowMajor(flat []float64, nv, window int) [][]float64 {
	out := make([][]float64, nv)
	for i := 0; i < nv; i++ {
		out[i] = flat[i*window : (i+1)*window]
	}
	return out
}

// Close releases the array, context and config, mirroring GsfFile.Close.
func (s *TileDBSource) Close() error {
	s.array.Close()
	s.array.Free()
	s.ctx.Free()
	s.config.Free()
	return nil
}
