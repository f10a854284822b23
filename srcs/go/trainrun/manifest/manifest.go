// Package manifest externalizes run configurations as enumerable
// records, one per experiment, consumed by the generic launcher.
package manifest

import (
	"errors"

	"github.com/smplab/trainrun/srcs/go/trainrun/experiment"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/spf13/viper"
)

// Record is one experiment entry of a manifest file. A nil GPU means
// auto-select (the training program picks the first available device).
type Record struct {
	Family        string `mapstructure:"family"`
	Entrypoint    string `mapstructure:"entrypoint"`
	GPU           *int   `mapstructure:"gpu"`
	CropSize      int    `mapstructure:"crop_size"`
	KernelSize    int    `mapstructure:"kernel_size"`
	Padding       int    `mapstructure:"padding"`
	Depth         int    `mapstructure:"depth"`
	WidthFactor   int    `mapstructure:"width_factor"`
	CoarseClasses bool   `mapstructure:"coarse_classes"`
	KernelDivisor int    `mapstructure:"kernel_divisor"`
	Host          string `mapstructure:"host"`
}

type Manifest struct {
	ScriptsRoot string   `mapstructure:"scripts_root"`
	Experiments []Record `mapstructure:"experiments"`
}

func (r Record) gpu() int {
	if r.GPU == nil {
		return -1
	}
	return *r.GPU
}

func (r Record) Experiment() (experiment.Experiment, error) {
	f, err := experiment.ParseFamily(r.Family)
	if err != nil {
		return experiment.Experiment{}, err
	}
	e := experiment.Experiment{
		Family:        f,
		Entrypoint:    r.Entrypoint,
		GPU:           r.gpu(),
		CropSize:      r.CropSize,
		KernelSize:    r.KernelSize,
		Padding:       r.Padding,
		Depth:         r.Depth,
		WidthFactor:   r.WidthFactor,
		CoarseClasses: r.CoarseClasses,
		KernelDivisor: r.KernelDivisor,
	}
	return e.Resolve(), nil
}

var errNoExperiments = errors.New("manifest has no experiments")

// Load reads a manifest file (any format viper understands).
func Load(filename string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, err
	}
	if len(m.Experiments) == 0 {
		return nil, errNoExperiments
	}
	return &m, nil
}

// Jobs resolves every record and rejects GPU assignments claimed by
// more than one of them.
func (m *Manifest) Jobs() ([]job.Job, error) {
	var jobs []job.Job
	for _, r := range m.Experiments {
		e, err := r.Experiment()
		if err != nil {
			return nil, err
		}
		j := job.FromExperiment(e, m.ScriptsRoot)
		j.Host = r.Host
		jobs = append(jobs, j)
	}
	if err := job.CheckConflicts(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func intp(n int) *int { return &n }

// Default is the stock sweep: crop sizes 24 and 16, each trained with
// the big and the small multiclass model, one GPU per run.
func Default() *Manifest {
	var records []Record
	var gpu int
	for _, cr := range []int{24, 16} {
		for _, s := range [][2]int{{28, 10}, {8, 2}} {
			records = append(records, Record{
				Family:      string(experiment.LastMinute),
				GPU:         intp(gpu),
				CropSize:    cr,
				Depth:       s[0],
				WidthFactor: s[1],
			})
			gpu++
		}
	}
	return &Manifest{ScriptsRoot: `.`, Experiments: records}
}
