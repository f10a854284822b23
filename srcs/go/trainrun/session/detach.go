package session

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/smplab/trainrun/srcs/go/trainrun/job"
)

// DefaultStateDir holds the pid files of detached sessions.
const DefaultStateDir = `logs/sessions`

// Detached is a background session that outlives the launcher process.
// Its output goes straight to the run's log file; only liveness can be
// polled afterwards, the exit status belongs to the session alone.
type Detached struct {
	Name string
	PID  int
}

func (d Detached) Alive() bool {
	p, err := os.FindProcess(d.PID)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}

func (d Detached) String() string {
	state := `exited`
	if d.Alive() {
		state = `running`
	}
	return fmt.Sprintf("%s\tpid=%d\t%s", d.Name, d.PID, state)
}

func pidFile(stateDir, name string) string {
	return path.Join(stateDir, name+".pid")
}

// Detach starts j as a named background session and returns without
// waiting. A name whose previous session is still alive is an error.
func Detach(stateDir string, j job.Job) (*Detached, error) {
	if err := os.MkdirAll(stateDir, os.ModePerm); err != nil {
		return nil, err
	}
	pf := pidFile(stateDir, j.Name)
	if old, err := readPidFile(pf); err == nil && old.Alive() {
		return nil, fmt.Errorf("session %s is already running with pid %d", j.Name, old.PID)
	}
	if err := os.MkdirAll(j.LogDir, os.ModePerm); err != nil {
		return nil, err
	}
	lf, err := os.OpenFile(j.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	defer lf.Close()
	cmd := j.NewProc().Cmd()
	cmd.Stdout = lf
	cmd.Stderr = lf
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	d := &Detached{Name: j.Name, PID: cmd.Process.Pid}
	if err := os.WriteFile(pf, []byte(strconv.Itoa(d.PID)+"\n"), 0644); err != nil {
		return nil, err
	}
	cmd.Process.Release()
	return d, nil
}

func readPidFile(filename string) (*Detached, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(bs)))
	if err != nil {
		return nil, fmt.Errorf("invalid pid file %s: %v", filename, err)
	}
	name := strings.TrimSuffix(path.Base(filename), ".pid")
	return &Detached{Name: name, PID: pid}, nil
}

// ListDetached returns the sessions recorded under stateDir.
func ListDetached(stateDir string) ([]Detached, error) {
	files, err := filepath.Glob(path.Join(stateDir, "*.pid"))
	if err != nil {
		return nil, err
	}
	var ds []Detached
	for _, f := range files {
		d, err := readPidFile(f)
		if err != nil {
			return nil, err
		}
		ds = append(ds, *d)
	}
	return ds, nil
}
