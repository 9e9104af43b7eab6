package toolchain

import (
	"os"
	"path/filepath"
	"time"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
	"github.com/NASA-IMPACT/hls-vi-historical/util"
)

// Environment variables overriding the toolchain binary locations
const (
	VI_GENERATE_INDICES_BIN    = "VI_GENERATE_INDICES_BIN"
	VI_GENERATE_METADATA_BIN   = "VI_GENERATE_METADATA_BIN"
	VI_GENERATE_STAC_ITEMS_BIN = "VI_GENERATE_STAC_ITEMS_BIN"
)

// VIIndices are the vegetation index products the index generation stage
// materializes, one raster per index
var VIIndices = []string{"NDVI", "EVI", "SAVI", "MSAVI", "NBR", "NBR2", "TVI"}

func toolPath(envVar, fallback string) string {
	if bin, ok := os.LookupEnv(envVar); ok {
		return bin
	}
	return fallback
}

// NewIndexGenerator wraps the external index computation binary, which reads
// band rasters from the input directory and writes one VI raster per index
func NewIndexGenerator(timeout time.Duration, logCtx util.LogContext) *ProcessCapability {
	return NewProcessCapability(
		"index generation",
		toolPath(VI_GENERATE_INDICES_BIN, "vi_generate_indices"),
		timeout,
		logCtx,
		func(inputDir, outputDir string, g *model.GranuleID) []string {
			return []string{"--input-dir", inputDir, "--output-dir", outputDir, "--id-string", g.String()}
		},
		func(g *model.GranuleID) []string {
			outputs := make([]string, len(VIIndices))
			for i, index := range VIIndices {
				outputs[i] = g.VIGranuleID() + "." + index + ".tif"
			}
			return outputs
		},
	)
}

// NewMetadataGenerator wraps the external metadata completion binary, which
// completes the sanitized CMR template into the VI granule's metadata. It
// must only run after index generation has succeeded: it reads spatial
// extents from the produced rasters.
func NewMetadataGenerator(timeout time.Duration, logCtx util.LogContext) *ProcessCapability {
	return NewProcessCapability(
		"metadata generation",
		toolPath(VI_GENERATE_METADATA_BIN, "vi_generate_metadata"),
		timeout,
		logCtx,
		func(inputDir, outputDir string, g *model.GranuleID) []string {
			return []string{"--input-dir", inputDir, "--output-dir", outputDir}
		},
		func(g *model.GranuleID) []string {
			return []string{g.VIGranuleID() + ".cmr.xml"}
		},
	)
}

// StacItemFilename returns the catalog record file name for a granule
func StacItemFilename(g *model.GranuleID) string {
	return g.VIGranuleID() + "_stac.json"
}

// NewStacItemGenerator wraps the external STAC item generation binary, which
// renders the completed VI metadata into a spatio-temporal catalog record
func NewStacItemGenerator(endpoint, version string, timeout time.Duration, logCtx util.LogContext) *ProcessCapability {
	return NewProcessCapability(
		"catalog record generation",
		toolPath(VI_GENERATE_STAC_ITEMS_BIN, "vi_generate_stac_items"),
		timeout,
		logCtx,
		func(inputDir, outputDir string, g *model.GranuleID) []string {
			return []string{
				"--cmr_xml", filepath.Join(outputDir, g.VIGranuleID()+".cmr.xml"),
				"--out_json", filepath.Join(outputDir, StacItemFilename(g)),
				"--endpoint", endpoint,
				"--version", version,
			}
		},
		func(g *model.GranuleID) []string {
			return []string{StacItemFilename(g)}
		},
	)
}
