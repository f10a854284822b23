package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

func LogArgs() {
	for i, a := range os.Args {
		fmt.Printf("[arg] [%d]=%s\n", i, a)
	}
}

func LogEnvWithPrefix(prefix string, logPrefix string) {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			fmt.Printf("[%s]: %s\n", logPrefix, kv)
		}
	}
}

func LogCudaEnv() {
	LogEnvWithPrefix(`CUDA_`, `cuda-env`)
}

func Measure(f func() error) (time.Duration, error) {
	t0 := time.Now()
	err := f()
	d := time.Since(t0)
	return d, err
}

// ListNvidiaGPUNames returns the nvidia device names under /dev.
func ListNvidiaGPUNames() []string {
	const prefix = `/dev/`
	files, err := filepath.Glob(prefix + `nvidia*`)
	if err != nil {
		return nil
	}
	var names []string
	for _, file := range files {
		name := strings.TrimPrefix(file, prefix)
		var x int
		n, err := fmt.Sscanf(name, "nvidia%d", &x)
		if n == 1 && err == nil && fmt.Sprintf("nvidia%d", x) == name {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func pluralize(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}

func Pluralize(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, pluralize(n, singular, plural))
}
