package toolchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndexGeneratorContract(t *testing.T) {
	g := testGranule(t)
	generator := NewIndexGenerator(time.Minute, testLogCtx)
	assert.Equal(t, "index generation", generator.Name())

	args := generator.args("/in", "/out", g)
	assert.Equal(t, []string{
		"--input-dir", "/in",
		"--output-dir", "/out",
		"--id-string", "HLS.L30.T58UFF.2025105T234951.v2.0",
	}, args)

	outputs := generator.outputs(g)
	assert.Len(t, outputs, len(VIIndices))
	assert.Contains(t, outputs, "HLS-VI.L30.T58UFF.2025105T234951.v2.0.NDVI.tif")
	assert.Contains(t, outputs, "HLS-VI.L30.T58UFF.2025105T234951.v2.0.TVI.tif")
}

func TestMetadataGeneratorContract(t *testing.T) {
	g := testGranule(t)
	generator := NewMetadataGenerator(time.Minute, testLogCtx)
	assert.Equal(t, "metadata generation", generator.Name())

	args := generator.args("/in", "/out", g)
	assert.Equal(t, []string{"--input-dir", "/in", "--output-dir", "/out"}, args)

	outputs := generator.outputs(g)
	assert.Equal(t, []string{"HLS-VI.L30.T58UFF.2025105T234951.v2.0.cmr.xml"}, outputs)
}

func TestStacItemGeneratorContract(t *testing.T) {
	g := testGranule(t)
	generator := NewStacItemGenerator("data.lpdaac.earthdatacloud.nasa.gov", "020", time.Minute, testLogCtx)
	assert.Equal(t, "catalog record generation", generator.Name())

	args := generator.args("/in", "/out", g)
	assert.Equal(t, []string{
		"--cmr_xml", "/out/HLS-VI.L30.T58UFF.2025105T234951.v2.0.cmr.xml",
		"--out_json", "/out/HLS-VI.L30.T58UFF.2025105T234951.v2.0_stac.json",
		"--endpoint", "data.lpdaac.earthdatacloud.nasa.gov",
		"--version", "020",
	}, args)

	assert.Equal(t, []string{"HLS-VI.L30.T58UFF.2025105T234951.v2.0_stac.json"}, generator.outputs(g))
}

func TestStacItemFilename(t *testing.T) {
	assert.Equal(t, "HLS-VI.L30.T58UFF.2025105T234951.v2.0_stac.json", StacItemFilename(testGranule(t)))
}

func TestToolPathOverride(t *testing.T) {
	t.Setenv(VI_GENERATE_INDICES_BIN, "/opt/tools/custom_indices")
	generator := NewIndexGenerator(time.Minute, testLogCtx)
	assert.Equal(t, "/opt/tools/custom_indices", generator.bin)

	assert.Equal(t, "vi_generate_metadata", NewMetadataGenerator(time.Minute, testLogCtx).bin)
}
