package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Resolve(t *testing.T) {
	e := Experiment{Family: CoarseAll, CropSize: 24, Depth: 16, WidthFactor: 6}.Resolve()
	assert.Equal(t, 6, e.KernelSize)
	assert.Equal(t, 3, e.Padding)

	e = Experiment{Family: CoarseAll, CropSize: 24, KernelDivisor: 8, Depth: 16, WidthFactor: 6}.Resolve()
	assert.Equal(t, 3, e.KernelSize)
	assert.Equal(t, 3, e.Padding)

	// explicit values win over derivation
	e = Experiment{Family: CoarseAll, CropSize: 24, KernelSize: 5, Padding: 7}.Resolve()
	assert.Equal(t, 5, e.KernelSize)
	assert.Equal(t, 7, e.Padding)
}

func Test_ResolveFloors(t *testing.T) {
	e := Experiment{Family: CoarseAll, CropSize: 9}.Resolve()
	assert.Equal(t, 2, e.KernelSize)
	assert.Equal(t, 1, e.Padding)

	// bad crop sizes are not rejected, the derivation still floors
	e = Experiment{Family: CoarseAll, CropSize: -9}.Resolve()
	assert.Equal(t, -3, e.KernelSize)
	assert.Equal(t, -2, e.Padding)
}

func Test_LogFile(t *testing.T) {
	e := Experiment{Family: CoarseAllNested, GPU: 1, CropSize: 8, KernelSize: 2, Depth: 16, WidthFactor: 6}.Resolve()
	assert.Equal(t,
		`logs/model/coarse/all/crop8/kernel2/depth16/width6/model_coarse_all_crop8_kernel2_depth16_width6.log`,
		e.LogFile())

	e = Experiment{Family: CoarseAll, CropSize: 24, Depth: 16, WidthFactor: 6}.Resolve()
	assert.Equal(t,
		`logs/model/coarse/all/crop24_kernel6_padding3/depth16_width6/model_coarse_all_crop24_kernel6_depth16_width6.log`,
		e.LogFile())

	e = Experiment{Family: LastMinute, GPU: 0, CropSize: 16, KernelSize: 4, Depth: 28, WidthFactor: 10}.Resolve()
	assert.Equal(t,
		`logs/model/last_minute/multiclass_crop16_depth28_width10.log`,
		e.LogFile())
	assert.Equal(t, `logs/model/last_minute`, e.LogDir())
}

func Test_Args(t *testing.T) {
	e := Experiment{Family: CoarseAll, GPU: 1, CropSize: 24, Depth: 16, WidthFactor: 6, CoarseClasses: true}.Resolve()
	assert.Equal(t, []string{
		`--gpu`, `1`,
		`--coarse_classes`,
		`--crop_size`, `24`,
		`--kernel_size`, `6`,
		`--depth`, `16`,
		`--width_factor`, `6`,
	}, e.Args())

	e = Experiment{Family: LastMinute, GPU: 0, CropSize: 16, Depth: 28, WidthFactor: 10}.Resolve()
	assert.Equal(t, []string{
		`--gpu`, `0`,
		`--crop_size`, `16`,
		`--depth`, `28`,
		`--width_factor`, `10`,
	}, e.Args())
}

func Test_Name(t *testing.T) {
	e := Experiment{Family: LastMinute, CropSize: 24, Depth: 28, WidthFactor: 10}
	assert.Equal(t, `24--28-10`, e.Name())
}

func Test_Entrypoints(t *testing.T) {
	assert.Equal(t, `train.py`, Experiment{Family: CoarseAll}.Resolve().Entrypoint)
	assert.Equal(t, `train_alternative.py`, Experiment{Family: CoarseAllNested}.Resolve().Entrypoint)
	assert.Equal(t, `train_multiclass.py`, Experiment{Family: LastMinute}.Resolve().Entrypoint)
}

func Test_Grid(t *testing.T) {
	es := Grid(LastMinute, nil, []int{24, 16}, [][2]int{{28, 10}, {8, 2}})
	var names []string
	for _, e := range es {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{`24--28-10`, `24--8-2`, `16--28-10`, `16--8-2`}, names)
}

func Test_ParseFamily(t *testing.T) {
	f, err := ParseFamily(`last-minute`)
	assert.NoError(t, err)
	assert.Equal(t, LastMinute, f)

	_, err = ParseFamily(`nope`)
	assert.Error(t, err)
}
