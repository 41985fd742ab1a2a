package peaktree

import (
	"errors"
)

var ErrUnknownCampaign = errors.New("Unknown Campaign Identifier")
var ErrInputShape = errors.New("Input Shape Error")
var ErrAveragingWindow = errors.New("Averaging Window Exceeds 15 Seconds")
var ErrTreeConstruction = errors.New("Programming Error In Tree Construction")
var ErrCreateSourceTdb = errors.New("Error Opening Spectrum Source TileDB Array")
var ErrReadSourceTdb = errors.New("Error Reading Spectrum Source TileDB Array")
var ErrCreateOutputTdb = errors.New("Error Creating Peak Tree TileDB Array")
var ErrWriteOutputTdb = errors.New("Error Writing Peak Tree TileDB Array")
var ErrCreateAttributeTdb = errors.New("Error Creating Attribute For TileDB Array")
var ErrCreateSchemaTdb = errors.New("Error Creating TileDB Schema")
var ErrCreateDimTdb = errors.New("Error Creating TileDB Dimension")
var ErrAddFilters = errors.New("Error Adding Filter To FilterList")
var ErrDims = errors.New("Error Dims Is > 2")
var ErrDtype = errors.New("Error Slice Datatype Is Unexpected")
var ErrSetBuff = errors.New("Error Setting TileDB Buffer")
var ErrMetadata = errors.New("Error Reading External Metadata Document")
