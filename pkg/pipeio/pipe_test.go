//go:build unix

package pipeio_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/labi-le/richclip/pkg/pipeio"
)

func TestFromPipe(t *testing.T) {
	sizes := []int{0, 1, 4096, 64 * 1024, 1 << 20}

	for _, size := range sizes {
		t.Run(sizeName(size), func(t *testing.T) {
			want := make([]byte, size)
			rand.New(rand.NewSource(int64(size) + 1)).Read(want)

			p, err := pipeio.New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer p.Close()

			done := make(chan error, 1)
			go func() {
				_, werr := p.Fd().Write(want)
				done <- werr
				done <- p.Fd().Close()
			}()

			got, err := pipeio.FromPipe(p.ReadFd())
			if err != nil {
				t.Fatalf("FromPipe: %v", err)
			}
			if werr := <-done; werr != nil {
				t.Fatalf("write: %v", werr)
			}

			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("FromPipe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromPipeNilPipe(t *testing.T) {
	if _, err := pipeio.FromPipe(nil); err == nil {
		t.Error("expected error for nil pipe")
	}
}

func sizeName(n int) string {
	if n == 0 {
		return "empty"
	}
	if n < 1<<20 {
		return strconv.Itoa(n/1024) + "KB"
	}
	return strconv.Itoa(n/(1<<20)) + "MB"
}
