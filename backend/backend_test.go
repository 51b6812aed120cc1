package backend

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

type stubBackend struct {
	name string
	err  error
}

func (b stubBackend) Name() string { return b.name }

func (b stubBackend) Open(context.Context, *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	return nil, b.err
}

func register(t *testing.T, name string, err error) {
	t.Helper()
	Register(name, func() gpucore.Backend { return stubBackend{name: name, err: err} })
	t.Cleanup(func() { Unregister(name) })
}

func TestRegisterAndGet(t *testing.T) {
	register(t, "stub-a", nil)

	if !IsRegistered("stub-a") {
		t.Fatal("IsRegistered(stub-a) = false")
	}
	if !slices.Contains(Available(), "stub-a") {
		t.Errorf("Available() = %v, want stub-a", Available())
	}
	b, err := Get("stub-a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Name() != "stub-a" {
		t.Errorf("Name() = %q, want stub-a", b.Name())
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("no-such-backend"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(unknown) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefaultPriority(t *testing.T) {
	register(t, NameSoftware, nil)
	if got := DefaultName(); got != NameSoftware && got != NameWGPU {
		t.Errorf("DefaultName() = %q", got)
	}

	register(t, NameWGPU, nil)
	if got := DefaultName(); got != NameWGPU {
		t.Errorf("DefaultName() = %q, want %q", got, NameWGPU)
	}
	b, err := Get("")
	if err != nil || b.Name() != NameWGPU {
		t.Errorf("Get(\"\") = %v, %v; want wgpu", b, err)
	}
}

func TestOpenClassifiesErrors(t *testing.T) {
	register(t, "stub-fail", errors.New("adapter request failed"))

	_, err := Open(context.Background(), "stub-fail", &gpucore.DeviceDescriptor{})
	if got := meshview.KindOf(err); got != meshview.KindInit {
		t.Errorf("KindOf(Open error) = %v, want init", got)
	}

	_, err = Open(context.Background(), "missing", &gpucore.DeviceDescriptor{})
	if !errors.Is(err, meshview.ErrNoDevice) {
		t.Errorf("Open(missing) = %v, want ErrNoDevice", err)
	}
}

func TestOpenKeepsClassifiedErrors(t *testing.T) {
	register(t, "stub-nodev", meshview.Errorf(meshview.KindNoDevice, "request adapter", errors.New("none")))

	_, err := Open(context.Background(), "stub-nodev", &gpucore.DeviceDescriptor{})
	if got := meshview.KindOf(err); got != meshview.KindNoDevice {
		t.Errorf("KindOf() = %v, want no-device", got)
	}
}
