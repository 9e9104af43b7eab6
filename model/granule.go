package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Instrument is an enum type for the two HLS product families
type Instrument string

// L30 is the Landsat 8/9 OLI product family
const L30 Instrument = "L30"

// S30 is the Sentinel-2 MSI product family
const S30 Instrument = "S30"

// Granule IDs look like HLS.L30.T58UFF.2025105T234951.v2.0: product, tile,
// acquisition timestamp (julian day-of-year), product version.
var granuleIDPattern = regexp.MustCompile(
	`^HLS\.(L30|S30)\.(T[0-9]{2}[A-Z]{3})\.([0-9]{7}T[0-9]{6})\.v([0-9]+\.[0-9]+)$`)

// GranuleID is a parsed HLS granule identifier
type GranuleID struct {
	Instrument  Instrument
	Tile        string
	Acquisition string
	Version     string

	raw string
}

// ParseGranuleID parses a raw granule identifier, accepting only the two
// recognized product families
func ParseGranuleID(raw string) (*GranuleID, error) {
	match := granuleIDPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, &PipelineError{
			Kind:      InvalidGranuleIdentifier,
			GranuleID: raw,
			Err:       fmt.Errorf("identifier %q does not match a recognized HLS product family", raw),
		}
	}
	return &GranuleID{
		Instrument:  Instrument(match[1]),
		Tile:        match[2],
		Acquisition: match[3],
		Version:     match[4],
		raw:         raw,
	}, nil
}

// String returns the original identifier
func (g *GranuleID) String() string { return g.raw }

// VIGranuleID returns the identifier of the derived VI granule
// (HLS.L30.* becomes HLS-VI.L30.*)
func (g *GranuleID) VIGranuleID() string {
	return strings.Replace(g.raw, "HLS", "HLS-VI", 1)
}

// Collection returns the source collection prefix, e.g. HLSL30.020
func (g *GranuleID) Collection() string {
	return fmt.Sprintf("HLS%s.020", g.Instrument)
}

// VICollection returns the derived collection name stamped into manifests,
// e.g. HLSL30_VI
func (g *GranuleID) VICollection() string {
	return fmt.Sprintf("HLS%s_VI", g.Instrument)
}

// AcquisitionDay returns the yyyyddd julian day portion of the acquisition
// timestamp
func (g *GranuleID) AcquisitionDay() string {
	return g.Acquisition[:7]
}

// Bands returns the spectral bands required to compute vegetation indices for
// this granule's product family
func (g *GranuleID) Bands() []string {
	if g.Instrument == L30 {
		return []string{"B02", "B03", "B04", "B05", "B06", "B07"}
	}
	return []string{"B02", "B03", "B04", "B8A", "B11", "B12"}
}

// OutputKeyPrefix returns the destination key prefix under which all VI
// artifacts for this granule are published, e.g.
// L30_VI/data/2025105/HLS-VI.L30.T58UFF.2025105T234951.v2.0
func (g *GranuleID) OutputKeyPrefix() string {
	return fmt.Sprintf("%s_VI/data/%s/%s", g.Instrument, g.AcquisitionDay(), g.VIGranuleID())
}
