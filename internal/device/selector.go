// Package device picks the compute backend reported for model inference by
// probing accelerator capabilities in a fixed preference order.
package device

import (
	"os"
	"os/exec"
	"runtime"
)

// Backend identifies a compute backend.
type Backend string

const (
	CUDA Backend = "cuda"
	MPS  Backend = "mps"
	CPU  Backend = "cpu"
)

// Probe is a single capability check.
type Probe struct {
	Kind      Backend
	Available func() bool
}

// Selector returns the first available backend from an ordered probe list.
type Selector struct {
	probes []Probe
}

// NewSelector builds the default selector: cuda, then mps, with cpu as the
// unconditional fallback.
func NewSelector() *Selector {
	return &Selector{probes: []Probe{
		{Kind: CUDA, Available: cudaAvailable},
		{Kind: MPS, Available: mpsAvailable},
	}}
}

// NewSelectorWithProbes builds a selector with a custom probe order.
func NewSelectorWithProbes(probes ...Probe) *Selector {
	return &Selector{probes: probes}
}

// Select returns the first backend whose probe reports available, or CPU.
// It never fails: the generic fallback always exists.
func (s *Selector) Select() Backend {
	for _, p := range s.probes {
		if p.Available() {
			return p.Kind
		}
	}
	return CPU
}

func cudaAvailable() bool {
	if _, err := os.Stat("/proc/driver/nvidia/version"); err == nil {
		return true
	}
	_, err := exec.LookPath("nvidia-smi")
	return err == nil
}

func mpsAvailable() bool {
	return runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
}
