package peaktree

import (
	"context"
	"errors"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/alitto/pond"
	"github.com/samber/lo"
	"github.com/soniakeys/meeus/v3/julian"
)

// beginDateInfo is the day/month/year breakdown of a file's first source
// timestamp, recorded as provenance metadata on the output array.
type beginDateInfo struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// beginDateMetadata derives the Gregorian day/month/year of ts via
// julian.DayOfYearToCalendar, mirroring decode/params.go's reftime parsing
// idiom for expressing a day-of-year timestamp as a calendar date.
func beginDateMetadata(ts time.Time) beginDateInfo {
	year := ts.Year()
	month, day := julian.DayOfYearToCalendar(ts.YearDay(), julian.LeapYearGregorian(year))
	return beginDateInfo{Year: year, Month: month, Day: day}
}

// packedNodeIDs filters ids to those that fit within a cell's max_no_nodes
// slots, without renumbering: a node's slot is its own level-order id, so
// ids are sparse whenever the tree didn't split every branch (e.g. {0,1,2,5,6}
// for a root that only split further on one side). ids >= nNodes are dropped,
// never compacted into the gaps they leave behind.
func packedNodeIDs(ids []int, nNodes int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < nNodes {
			out = append(out, id)
		}
	}
	return out
}

// TimeBin is one output time-grid bin: the half-open source-timestamp range
// it covers, its midpoint, and the [begin,end) source index range folding
// into it. Mirrors the reference implementation's get_time_grid tuple.
type TimeBin struct {
	Begin      time.Time
	End        time.Time
	Mid        time.Time
	IndexBegin int
	IndexEnd   int
}

// buildTimeGrid partitions axis into gridInterval-wide bins spanning
// [axis[0], axis[len(axis)-1]], dropping bins with no source timestamps,
// mirroring get_time_grid(timestamps, ts_range, time_interval, filter_empty=True).
func buildTimeGrid(axis []time.Time, gridInterval time.Duration) []TimeBin {
	start := axis[0]
	end := axis[len(axis)-1]

	var bins []TimeBin
	for binStart := start; !binStart.After(end); binStart = binStart.Add(gridInterval) {
		binEnd := binStart.Add(gridInterval)

		idxBegin := -1
		idxEnd := -1
		for i, ts := range axis {
			if !ts.Before(binStart) && ts.Before(binEnd) {
				if idxBegin == -1 {
					idxBegin = i
				}
				idxEnd = i + 1
			}
		}
		if idxBegin == -1 {
			continue
		}

		bins = append(bins, TimeBin{
			Begin:      binStart,
			End:        binEnd,
			Mid:        binStart.Add(gridInterval / 2),
			IndexBegin: idxBegin,
			IndexEnd:   idxEnd,
		})
	}

	return bins
}

// BuildOptions controls a single assembly run.
type BuildOptions struct {
	OutputURI   string
	ConfigURI   string
	MetadataURI string
	Settings    CampaignSettings
}

// cellJob describes one (time-bin, range) cell's pending work and its slot
// in the flattened output buffers.
type cellJob struct {
	itimeOut int
	irange   int
	itBegin  int
	itEnd    int
}

// Build runs the full pipeline over a spectrum source: time-gridding,
// per-cell peak-tree construction and moment calculation, and writes the
// result to a dense TileDB output array. Grounded on cmd/main.go's
// convert_gsf single-file flow.
func Build(src SpectrumSource, opts BuildOptions) error {
	timeAxis := src.TimeAxis()
	rangeAxis := src.RangeAxis()
	velAxis := src.VelocityAxis()

	var bins []TimeBin
	if opts.Settings.GridTime > 0 {
		interval := time.Duration(opts.Settings.GridTime * float64(time.Second))
		bins = buildTimeGrid(timeAxis, interval)
	} else {
		bins = make([]TimeBin, len(timeAxis))
		for i := range timeAxis {
			bins[i] = TimeBin{Begin: timeAxis[i], End: timeAxis[i], Mid: timeAxis[i], IndexBegin: i, IndexEnd: i + 1}
		}
	}

	for _, b := range bins {
		if b.IndexEnd-1 > b.IndexBegin {
			window := timeAxis[b.IndexEnd-1].Sub(timeAxis[b.IndexBegin])
			if window > 15*time.Second {
				return errors.Join(ErrAveragingWindow, ErrInputShape)
			}
		}
	}

	nTimeOut := len(bins)
	nRange := len(rangeAxis)
	nNodes := opts.Settings.MaxNoNodes

	nodeID := fillInt32(nTimeOut * nRange * nNodes)
	parentID := fillInt32(nTimeOut * nRange * nNodes)
	boundL := fillInt32(nTimeOut * nRange * nNodes)
	boundR := fillInt32(nTimeOut * nRange * nNodes)
	v := fillFloat32(nTimeOut * nRange * nNodes)
	width := fillFloat32(nTimeOut * nRange * nNodes)
	skew := fillFloat32(nTimeOut * nRange * nNodes)
	z := fillFloat32(nTimeOut * nRange * nNodes)
	ldr := fillFloat32(nTimeOut * nRange * nNodes)
	ldrmax := fillFloat32(nTimeOut * nRange * nNodes)
	prominence := fillFloat32(nTimeOut * nRange * nNodes)
	threshold := fillFloat32(nTimeOut * nRange * nNodes)
	noNodes := make([]uint32, nTimeOut*nRange*nNodes)

	jobs := make([]cellJob, 0, nTimeOut*nRange)
	for it, b := range bins {
		for ir := range rangeAxis {
			jobs = append(jobs, cellJob{itimeOut: it, irange: ir, itBegin: b.IndexBegin, itEnd: b.IndexEnd - 1})
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	n := runtime.NumCPU()
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))

	var (
		mu      sync.Mutex
		firstFn error
	)
	nodeCounts := make([]int, nTimeOut*nRange)

	for _, job := range jobs {
		j := job
		pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Println(errors.Join(ErrTreeConstruction, asError(r)))
				}
			}()

			if j.itEnd > j.itBegin && timeAxis[j.itEnd].Sub(timeAxis[j.itBegin]) > 15*time.Second {
				log.Println(errors.Join(ErrAveragingWindow, ErrInputShape))
				return
			}

			zRows, ldrRows, snrcoRows, err := src.Window(j.itBegin, j.itEnd, j.irange)
			if err != nil {
				mu.Lock()
				if firstFn == nil {
					firstFn = err
				}
				mu.Unlock()
				return
			}

			in := PrepareInput{
				Vel:    velAxis,
				Z:      zRows,
				LDR:    ldrRows,
				SNRco:  snrcoRows,
				Ts:     float64(bins[j.itimeOut].Mid.Unix()),
				RangeM: rangeAxis[j.irange],
			}
			spec := PrepareSpectrum(in, opts.Settings)
			nodes := BuildTraversedTree(spec)

			ids := lo.Keys(nodes)

			cellIdx := j.itimeOut*nRange + j.irange
			nodeCounts[cellIdx] = len(ids)

			base := cellIdx * nNodes
			for _, id := range packedNodeIDs(ids, nNodes) {
				node := nodes[id]
				off := base + id
				nodeID[off] = int32(id)
				parentID[off] = int32(node.ParentID)
				boundL[off] = int32(node.Bounds.L)
				boundR[off] = int32(node.Bounds.R)
				v[off] = float32(node.V)
				width[off] = float32(node.Width)
				skew[off] = float32(node.Skew)
				z[off] = float32(10 * math.Log10(node.Z))
				ldr[off] = float32(10 * math.Log10(node.LDR))
				ldrmax[off] = float32(10 * math.Log10(node.LDRMax))
				prominence[off] = float32(10 * math.Log10(node.Prominence))
				threshold[off] = float32(10 * math.Log10(node.Thres))
			}
			for slot := 0; slot < nNodes; slot++ {
				noNodes[base+slot] = uint32(len(ids))
			}
		})
	}

	pool.StopAndWait()
	if firstFn != nil {
		return firstFn
	}

	log.Printf("node count per cell: min=%d max=%d", lo.Min(nodeCounts), lo.Max(nodeCounts))

	var (
		config *tiledb.Config
		err    error
	)
	if opts.ConfigURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(opts.ConfigURI)
	}
	if err != nil {
		return errors.Join(ErrCreateOutputTdb, err)
	}
	defer config.Free()

	tctx, err := tiledb.NewContext(config)
	if err != nil {
		return errors.Join(ErrCreateOutputTdb, err)
	}
	defer tctx.Free()

	if err = CreateOutputArray(opts.OutputURI, tctx, OutputSchema{
		NTime:  uint64(nTimeOut),
		NRange: uint64(nRange),
		NNodes: uint64(nNodes),
	}); err != nil {
		return err
	}

	rec := &PeakTreeRecord{
		NodeID: nodeID, ParentID: parentID, BoundL: boundL, BoundR: boundR,
		V: v, Width: width, Skew: skew, Z: z,
		LDR: ldr, LDRMax: ldrmax, Prominence: prominence, Threshold: threshold,
		NoNodes: noNodes,
	}

	array, err := ArrayOpen(tctx, opts.OutputURI, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(tctx, array)
	if err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}
	defer query.Free()

	if err = query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}

	if err = setRecordBuffers(query, rec); err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}

	if err = query.Submit(); err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}
	if err = query.Finalize(); err != nil {
		return errors.Join(ErrWriteOutputTdb, err)
	}

	var ext ExternalMetadata
	if opts.MetadataURI != "" {
		if err = ReadExternalMetadata(opts.MetadataURI, opts.ConfigURI, &ext); err != nil {
			return err
		}
	}

	begin := beginDateMetadata(timeAxis[0])

	for key, value := range map[string]any{
		"description":   ext.Description,
		"location":      ext.Location,
		"institution":   ext.Institution,
		"contact":       ext.Contact,
		"creation_time": time.Now().UTC().Format(time.RFC3339),
		"settings":      opts.Settings,
		"commit_id":     "",
		"day":           begin.Day,
		"month":         begin.Month,
		"year":          begin.Year,
	} {
		if err = WriteArrayMetadata(tctx, opts.OutputURI, key, value); err != nil {
			return err
		}
	}

	if opts.Settings.HasLDR {
		if err = WriteArrayMetadata(tctx, opts.OutputURI, "decoupling", opts.Settings.Decoupling); err != nil {
			return err
		}
	}

	if err = writeAxisMetadata(tctx, opts.OutputURI, bins, rangeAxis, velAxis, opts.Settings.StationAltitude); err != nil {
		return err
	}

	if _, err = WriteJson(opts.OutputURI+"-settings.json", opts.ConfigURI, opts.Settings); err != nil {
		return err
	}

	return nil
}

// writeAxisMetadata records the output grid's axis arrays as array metadata,
// mirroring source_tiledb.go's readAxisMetadata conventions (time_axis_unix,
// range_axis_m, velocity_axis_ms) rather than TileDB dimension-label arrays,
// which none of the pack's TileDB usage reaches for.
func writeAxisMetadata(ctx *tiledb.Context, outputURI string, bins []TimeBin, rangeAxis, velAxis []float64, stationAltitude float64) error {
	timestampUnix := make([]int64, len(bins))
	timeHours := make([]float32, len(bins))
	for i, b := range bins {
		timestampUnix[i] = b.Mid.Unix()
		midnight := time.Date(b.Mid.Year(), b.Mid.Month(), b.Mid.Day(), 0, 0, 0, 0, time.UTC)
		timeHours[i] = float32(b.Mid.Sub(midnight).Hours())
	}

	rangeM := make([]float32, len(rangeAxis))
	heightM := make([]float32, len(rangeAxis))
	for i, r := range rangeAxis {
		rangeM[i] = float32(r)
		heightM[i] = float32(r + stationAltitude)
	}

	velocityMs := make([]float32, len(velAxis))
	for i, vv := range velAxis {
		velocityMs[i] = float32(vv)
	}

	for key, value := range map[string]any{
		"timestamp_unix": timestampUnix,
		"time_hours":     timeHours,
		"range_m":        rangeM,
		"height_m":       heightM,
		"velocity_ms":    velocityMs,
	} {
		if err := WriteArrayMetadata(ctx, outputURI, key, value); err != nil {
			return err
		}
	}

	return nil
}

func fillInt32(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = NodeIDFill
	}
	return out
}

func fillFloat32(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = FloatFill
	}
	return out
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.New("panic in tree construction worker")
}

// BuildList discovers spectrum-source arrays under uri and runs Build over
// each, using an outer pool of runtime.NumCPU() workers. Grounded on
// cmd/main.go's convert_gsf_list. Per-file errors are collected but do not
// stop the remaining files from processing.
func BuildList(uri, configURI, outdirURI, metadataURI string, settings CampaignSettings) error {
	items, err := FindSpectrumArrays(uri, configURI)
	if err != nil {
		return err
	}

	octx, stop := context.WithCancel(context.Background())
	defer stop()

	n := runtime.NumCPU()
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(octx))

	var (
		mu   sync.Mutex
		errs []error
	)

	for _, item := range items {
		sourceURI := item
		pool.Submit(func() {
			src, err := OpenTileDBSource(sourceURI, configURI)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			defer src.Close()

			outURI := outdirURI + "/" + baseName(sourceURI) + "-peaktree.tdb"
			if err := Build(src, BuildOptions{OutputURI: outURI, ConfigURI: configURI, MetadataURI: metadataURI, Settings: settings}); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}

	pool.StopAndWait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// baseName returns the final path element of a URI, independent of whether
// it uses a local or object-store path separator.
func baseName(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			return uri[i+1:]
		}
	}
	return uri
}
