package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("t_ms\n0\n"), 0o644))
	}
}

func TestFindTimeSeriesFile_Lexical(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"loss_steps__static_flexfec__seed2.csv",
		"loss_steps__static_flexfec__seed10.csv",
		"loss_steps__static_flexfec__seed3.csv",
		"loss_steps__adaptive_engine__seed1.csv",
	)

	got, ok := FindTimeSeriesFile(dir, "loss_steps", ModeStatic)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "loss_steps__static_flexfec__seed10.csv"), got, "lexical order puts seed10 before seed2")

	got, ok = FindTimeSeriesFile(dir, "loss_steps", ModeAdaptive)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "loss_steps__adaptive_engine__seed1.csv"), got)
}

func TestLocator_NumericSeedOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"loss_steps__static_flexfec__seed2.csv",
		"loss_steps__static_flexfec__seed10.csv",
		"loss_steps__static_flexfec__seedX.csv",
	)
	got, ok := Locator{Dir: dir, Order: NumericSeedOrder}.Find("loss_steps", ModeStatic)
	require.True(t, ok)
	assert.Equal(t, "loss_steps__static_flexfec__seed2.csv", filepath.Base(got))
}

func TestFindTimeSeriesFile_NoMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"loss_steps__static_flexfec__seed1.txt",
		"loss_steps_extra__static_flexfec__seed1.csv",
		"gilbert_burst__static_flexfec__seed1.csv",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "loss_steps__static_flexfec__seed0.csv"), 0o755))

	_, ok := FindTimeSeriesFile(dir, "loss_steps", ModeStatic)
	assert.False(t, ok)
	_, ok = FindTimeSeriesFile(dir, "loss_steps", ModeAdaptive)
	assert.False(t, ok)
}

func TestFindTimeSeriesFile_MissingDir(t *testing.T) {
	_, ok := FindTimeSeriesFile(filepath.Join(t.TempDir(), "timeseries"), "loss_steps", ModeStatic)
	assert.False(t, ok)
}

func TestFindTimeSeriesFile_GlobCharactersAreLiteral(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "burst[1]__static_flexfec__seed1.csv", "burst1__static_flexfec__seed1.csv")

	got, ok := FindTimeSeriesFile(dir, "burst[1]", ModeStatic)
	require.True(t, ok)
	assert.Equal(t, "burst[1]__static_flexfec__seed1.csv", filepath.Base(got))
}

func TestOrderPolicyByName(t *testing.T) {
	for _, name := range []string{"", "lexical", "Numeric"} {
		_, err := OrderPolicyByName(name)
		assert.NoError(t, err, name)
	}
	_, err := OrderPolicyByName("random")
	assert.Error(t, err)
}

func TestTimeSeriesName(t *testing.T) {
	name := TimeSeriesName("gilbert_burst", ModeAdaptive, 7)
	assert.Equal(t, "gilbert_burst__adaptive_engine__seed7.csv", name)

	dir := t.TempDir()
	touch(t, dir, name)
	got, ok := FindTimeSeriesFile(dir, "gilbert_burst", ModeAdaptive)
	require.True(t, ok)
	assert.Equal(t, name, filepath.Base(got))
}

func TestMode(t *testing.T) {
	assert.True(t, ModeStatic.Known())
	assert.True(t, ModeAdaptive.Known())
	assert.False(t, Mode("fec_off").Known())
	assert.Equal(t, "Static", ModeStatic.Label())
	assert.Equal(t, "fec_off", Mode("fec_off").Label())
}
