package job

import (
	"fmt"
	"os"
	"path"

	"github.com/smplab/trainrun/srcs/go/proc"
	"github.com/smplab/trainrun/srcs/go/trainrun/config"
	"github.com/smplab/trainrun/srcs/go/trainrun/experiment"
)

const DefaultProg = `python3`

// Job is one launchable training run.
type Job struct {
	Name    string
	Prog    string
	Args    []string
	GPU     int
	Host    string
	LogDir  string
	LogFile string
}

// FromExperiment resolves e and binds it to the training entrypoint
// under scriptsRoot. The GPU index is remapped through
// CUDA_VISIBLE_DEVICES if the launcher itself runs restricted.
func FromExperiment(e experiment.Experiment, scriptsRoot string) Job {
	e = e.Resolve()
	e.GPU = getCudaIndex(e.GPU)
	return Job{
		Name:    e.Name(),
		Prog:    DefaultProg,
		Args:    append([]string{path.Join(scriptsRoot, e.Entrypoint)}, e.Args()...),
		GPU:     e.GPU,
		LogDir:  e.LogDir(),
		LogFile: e.LogFile(),
	}
}

func (j Job) NewProc() proc.Proc {
	envs := proc.Merge(getConfigEnvs(), proc.Envs{
		`CUDA_DEVICE_ORDER`: `PCI_BUS_ID`,
	})
	envs.AddIfMissing(`PYTHONUNBUFFERED`, `1`)
	return proc.Proc{
		Name:     j.Name,
		Prog:     j.Prog,
		Args:     j.Args,
		Envs:     envs,
		Hostname: j.Host,
		LogDir:   j.LogDir,
		LogFile:  j.LogFile,
	}
}

func getConfigEnvs() proc.Envs {
	envs := make(proc.Envs)
	for _, k := range config.ConfigEnvKeys {
		if val := os.Getenv(k); len(val) > 0 {
			envs[k] = val
		}
	}
	return envs
}

func (j Job) DebugString() string {
	return fmt.Sprintf("job{prog=%s, args=%q, log=%s}", j.Prog, j.Args, j.LogFile)
}
