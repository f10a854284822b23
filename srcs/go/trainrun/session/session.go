package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/smplab/trainrun/srcs/go/log"
	"github.com/smplab/trainrun/srcs/go/trainrun/job"
	"github.com/smplab/trainrun/srcs/go/trainrun/runner/local"
	"github.com/smplab/trainrun/srcs/go/utils/xterm"
)

type State string

const (
	Running   State = `running`
	Succeeded State = `succeeded`
	Failed    State = `failed`
)

// Session is the handle of one background run. The submitter never
// needs to wait on it; once started, the run goes to completion on its
// own even after the submitting command returns.
type Session struct {
	ID   string
	Name string
	Job  job.Job

	mu    sync.Mutex
	state State
	err   error
	done  chan struct{}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the run's exit error, valid once Done is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Wait() error {
	<-s.done
	return s.Err()
}

func (s *Session) String() string {
	return fmt.Sprintf("session{%s, %s}", s.Name, s.State())
}

// Manager starts named background sessions and keeps their handles.
type Manager struct {
	sync.Mutex
	VerboseLog bool

	byName map[string]*Session
	order  []*Session
}

func NewManager() *Manager {
	return &Manager{byName: make(map[string]*Session)}
}

// Start submits j as a named background session and returns its handle
// immediately. A duplicate name is an error.
func (m *Manager) Start(j job.Job) (*Session, error) {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.byName[j.Name]; ok {
		return nil, fmt.Errorf("session %s already exists", j.Name)
	}
	s := &Session{
		ID:    uuid.NewString(),
		Name:  j.Name,
		Job:   j,
		state: Running,
		done:  make(chan struct{}),
	}
	m.byName[j.Name] = s
	m.order = append(m.order, s)
	go m.run(s, len(m.order)-1)
	return s, nil
}

// StartAll submits every job without waiting for any of them. On a
// duplicate name it stops submitting and returns the handles started
// so far; already started sessions keep running.
func (m *Manager) StartAll(jobs []job.Job) ([]*Session, error) {
	var ss []*Session
	for _, j := range jobs {
		s, err := m.Start(j)
		if err != nil {
			return ss, err
		}
		ss = append(ss, s)
	}
	return ss, nil
}

func (m *Manager) Get(name string) (*Session, bool) {
	m.Lock()
	defer m.Unlock()
	s, ok := m.byName[name]
	return s, ok
}

// List returns the handles in submit order.
func (m *Manager) List() []*Session {
	m.Lock()
	defer m.Unlock()
	ss := make([]*Session, len(m.order))
	copy(ss, m.order)
	return ss
}

func (m *Manager) run(s *Session, i int) {
	r := local.Runner{
		Name:       s.Name,
		Color:      xterm.BasicColors.Choose(i),
		LogFile:    s.Job.LogFile,
		VerboseLog: m.VerboseLog,
	}
	// sessions outlive the submitter, so no caller context reaches here
	err := r.Run(context.Background(), s.Job.NewProc())
	s.mu.Lock()
	s.err = err
	if err != nil {
		s.state = Failed
	} else {
		s.state = Succeeded
	}
	s.mu.Unlock()
	close(s.done)
	if err != nil {
		log.Errorf("#<%s> exited with error: %v", s.Name, err)
	} else {
		log.Debugf("#<%s> finished successfully", s.Name)
	}
}
