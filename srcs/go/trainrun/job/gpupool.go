package job

import (
	"fmt"
	"sync"
)

// GPUPool manages GPU ids
type GPUPool struct {
	sync.Mutex
	cap  int
	mask []bool
}

// NewGPUPool create a new GPUPool of given size
func NewGPUPool(n int) *GPUPool {
	var mask []bool
	for i := 0; i < n; i++ {
		mask = append(mask, true)
	}
	return &GPUPool{cap: n, mask: mask}
}

// Get returns the smallest GPU id that is available, -1 if none.
func (p *GPUPool) Get() int {
	p.Lock()
	defer p.Unlock()
	for i := range p.mask {
		if p.mask[i] {
			p.mask[i] = false
			return i
		}
	}
	return -1
}

// Put puts an GPU id back to the pool
func (p *GPUPool) Put(id int) error {
	p.Lock()
	defer p.Unlock()
	if 0 <= id && id < p.cap {
		if p.mask[id] {
			return fmt.Errorf("GPU %d was not allocated", id)
		}
		p.mask[id] = true
	}
	return nil
}

// CheckConflicts reports GPU indices claimed by more than one job.
// Negative indices mean auto-select and never conflict here.
func CheckConflicts(jobs []Job) error {
	seen := make(map[int]string)
	for _, j := range jobs {
		if j.GPU < 0 {
			continue
		}
		if first, ok := seen[j.GPU]; ok {
			return fmt.Errorf("GPU %d assigned to both %s and %s", j.GPU, first, j.Name)
		}
		seen[j.GPU] = j.Name
	}
	return nil
}
