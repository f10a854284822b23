package experiment

import (
	"fmt"
	"path"
	"strconv"
)

// Family selects the script family a run belongs to. The family decides
// the training entrypoint, the log path layout and which flags are
// passed to the training program.
type Family string

const (
	CoarseAll       Family = `coarse-all`
	CoarseAllNested Family = `coarse-all-nested`
	LastMinute      Family = `last-minute`
)

var Families = []Family{
	CoarseAll,
	CoarseAllNested,
	LastMinute,
}

func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown experiment family: %q", s)
}

const (
	DefaultKernelDivisor = 4
	paddingDivisor       = 8
)

// Experiment is one run configuration of the external training program.
// KernelSize and Padding are derived from CropSize when left zero;
// explicit values always win. KernelDivisor names the rule used for the
// derivation, since the script families never agreed on one.
type Experiment struct {
	Family        Family
	Entrypoint    string
	GPU           int
	CropSize      int
	KernelSize    int
	Padding       int
	Depth         int
	WidthFactor   int
	CoarseClasses bool
	KernelDivisor int
}

var entrypoints = map[Family]string{
	CoarseAll:       `train.py`,
	CoarseAllNested: `train_alternative.py`,
	LastMinute:      `train_multiclass.py`,
}

// Resolve fills in every derived field. It is pure arithmetic and cannot
// fail; out of range values propagate to the training program untouched.
func (e Experiment) Resolve() Experiment {
	if e.KernelDivisor == 0 {
		e.KernelDivisor = DefaultKernelDivisor
	}
	if e.KernelSize == 0 {
		e.KernelSize = floorDiv(e.CropSize, e.KernelDivisor)
	}
	if e.Padding == 0 {
		e.Padding = floorDiv(e.CropSize, paddingDivisor)
	}
	if len(e.Entrypoint) == 0 {
		e.Entrypoint = entrypoints[e.Family]
	}
	return e
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

var str = strconv.Itoa

// Name identifies the run, also used as the background session name.
func (e Experiment) Name() string {
	return fmt.Sprintf("%d--%d-%d", e.CropSize, e.Depth, e.WidthFactor)
}

// Args builds the flag list for the training program.
func (e Experiment) Args() []string {
	args := []string{`--gpu`, str(e.GPU)}
	if e.CoarseClasses {
		args = append(args, `--coarse_classes`)
	}
	args = append(args, `--crop_size`, str(e.CropSize))
	if e.Family != LastMinute {
		args = append(args, `--kernel_size`, str(e.KernelSize))
	}
	args = append(args, `--depth`, str(e.Depth), `--width_factor`, str(e.WidthFactor))
	return args
}

// LogFile returns the log path encoding the run parameters. The coarse
// families nest under logs/model/coarse/all, one with underscore-joined
// directory names and one with a directory level per field; the
// last-minute family shares one flat directory.
func (e Experiment) LogFile() string {
	switch e.Family {
	case CoarseAllNested:
		return path.Join(
			`logs`, `model`, `coarse`, `all`,
			fmt.Sprintf("crop%d", e.CropSize),
			fmt.Sprintf("kernel%d", e.KernelSize),
			fmt.Sprintf("depth%d", e.Depth),
			fmt.Sprintf("width%d", e.WidthFactor),
			e.coarseLogName(),
		)
	case LastMinute:
		return path.Join(
			`logs`, `model`, `last_minute`,
			fmt.Sprintf("multiclass_crop%d_depth%d_width%d.log", e.CropSize, e.Depth, e.WidthFactor),
		)
	default:
		return path.Join(
			`logs`, `model`, `coarse`, `all`,
			fmt.Sprintf("crop%d_kernel%d_padding%d", e.CropSize, e.KernelSize, e.Padding),
			fmt.Sprintf("depth%d_width%d", e.Depth, e.WidthFactor),
			e.coarseLogName(),
		)
	}
}

func (e Experiment) coarseLogName() string {
	return fmt.Sprintf("model_coarse_all_crop%d_kernel%d_depth%d_width%d.log",
		e.CropSize, e.KernelSize, e.Depth, e.WidthFactor)
}

func (e Experiment) LogDir() string {
	return path.Dir(e.LogFile())
}

// Grid generates the cartesian product of crop sizes and (depth, width)
// pairs within one family.
func Grid(f Family, gpus []int, crops []int, sizes [][2]int) []Experiment {
	var es []Experiment
	var i int
	for _, cr := range crops {
		for _, s := range sizes {
			e := Experiment{
				Family:      f,
				CropSize:    cr,
				Depth:       s[0],
				WidthFactor: s[1],
			}
			if len(gpus) > 0 {
				e.GPU = gpus[i%len(gpus)]
			} else {
				e.GPU = -1
			}
			i++
			es = append(es, e.Resolve())
		}
	}
	return es
}
