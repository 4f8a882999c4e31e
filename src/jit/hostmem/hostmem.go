// Package hostmem implements the jit.MemoryManager contract on top of a
// hosted operating system, using mmap/mprotect to allocate pages and
// flip their protection between writable (while the encoder fills them)
// and executable (once a function is finalized). The mmap/mprotect
// sequence is grounded on the memcp JIT reference file
// (other_examples/33950481_launix-de-memcp__scm-jit.go.go's allocExec/
// makeRX), ported from raw syscall numbers to golang.org/x/sys/unix for
// portability across the BSD/Linux targets that package supports.
package hostmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Manager allocates page-aligned, anonymous, process-private memory for
// JIT-compiled code.
type Manager struct {
	pageSize int
}

// New returns a Manager sized to the host's actual page size.
func New() *Manager {
	return &Manager{pageSize: unix.Getpagesize()}
}

// PageSize returns the host's memory page size in bytes.
func (m *Manager) PageSize() int { return m.pageSize }

// AllocPageAligned reserves n bytes rounded up to a whole number of
// pages, initially readable and writable so the encoder can fill it.
func (m *Manager) AllocPageAligned(n int) ([]byte, error) {
	size := m.roundUp(n)
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("hostmem: mmap %d bytes: %w", size, err)
	}
	return b, nil
}

// Dealloc releases memory previously returned by AllocPageAligned.
func (m *Manager) Dealloc(b []byte) error {
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("hostmem: munmap: %w", err)
	}
	return nil
}

// SetR marks b read-only: used once a region (e.g. a pooled float
// constant table) has been fully written and will never be executed.
func (m *Manager) SetR(b []byte) error {
	return m.protect(b, unix.PROT_READ)
}

// SetRW marks b read-write, re-opening it for the encoder to patch (for
// example, a call-site address patched in by the linker after SetRX had
// already been applied once).
func (m *Manager) SetRW(b []byte) error {
	return m.protect(b, unix.PROT_READ|unix.PROT_WRITE)
}

// SetRX marks b read-execute: the final state of a finished function's
// code buffer before it is called.
func (m *Manager) SetRX(b []byte) error {
	return m.protect(b, unix.PROT_READ|unix.PROT_EXEC)
}

func (m *Manager) protect(b []byte, prot int) error {
	if err := unix.Mprotect(b, prot); err != nil {
		return fmt.Errorf("hostmem: mprotect: %w", err)
	}
	return nil
}

func (m *Manager) roundUp(n int) int {
	return (n + m.pageSize - 1) &^ (m.pageSize - 1)
}
