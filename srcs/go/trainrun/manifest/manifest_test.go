package manifest

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// keep GPU index remapping out of these tests
	os.Unsetenv(`CUDA_VISIBLE_DEVICES`)
	os.Exit(m.Run())
}

const sampleManifest = `
scripts_root: /opt/models
experiments:
  - family: coarse-all
    gpu: 1
    crop_size: 24
    depth: 16
    width_factor: 6
    coarse_classes: true
  - family: last-minute
    gpu: 0
    crop_size: 16
    depth: 28
    width_factor: 10
    kernel_divisor: 8
`

func writeManifest(t *testing.T, text string) string {
	t.Helper()
	name := path.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(name, []byte(text), 0644))
	return name
}

func Test_Load(t *testing.T) {
	m, err := Load(writeManifest(t, sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, "/opt/models", m.ScriptsRoot)
	require.Len(t, m.Experiments, 2)

	jobs, err := m.Jobs()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`/opt/models/train.py`,
		`--gpu`, `1`,
		`--coarse_classes`,
		`--crop_size`, `24`,
		`--kernel_size`, `6`,
		`--depth`, `16`,
		`--width_factor`, `6`,
	}, jobs[0].Args)
	assert.Equal(t,
		`logs/model/coarse/all/crop24_kernel6_padding3/depth16_width6/model_coarse_all_crop24_kernel6_depth16_width6.log`,
		jobs[0].LogFile)

	// kernel_divisor: 8 selects the /8 derivation rule
	assert.Contains(t, jobs[1].Args, `train_multiclass.py`)
	assert.Equal(t,
		`logs/model/last_minute/multiclass_crop16_depth28_width10.log`,
		jobs[1].LogFile)
}

func Test_LoadRejectsEmpty(t *testing.T) {
	_, err := Load(writeManifest(t, `scripts_root: .`))
	assert.Equal(t, errNoExperiments, err)
}

func Test_GPUConflict(t *testing.T) {
	const text = `
experiments:
  - family: last-minute
    gpu: 1
    crop_size: 24
    depth: 28
    width_factor: 10
  - family: last-minute
    gpu: 1
    crop_size: 16
    depth: 28
    width_factor: 10
`
	m, err := Load(writeManifest(t, text))
	require.NoError(t, err)
	_, err = m.Jobs()
	assert.EqualError(t, err, "GPU 1 assigned to both 24--28-10 and 16--28-10")
}

func Test_UnknownFamily(t *testing.T) {
	const text = `
experiments:
  - family: nope
    crop_size: 24
`
	m, err := Load(writeManifest(t, text))
	require.NoError(t, err)
	_, err = m.Jobs()
	assert.Error(t, err)
}

func Test_Default(t *testing.T) {
	m := Default()
	jobs, err := m.Jobs()
	require.NoError(t, err)
	var names []string
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{`24--28-10`, `24--8-2`, `16--28-10`, `16--8-2`}, names)
}
