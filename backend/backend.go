package backend

import (
	"context"
	"errors"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/gpucore"
)

// Backend name constants.
const (
	// NameWGPU is the name of the GPU backend built on gogpu/wgpu.
	NameWGPU = "wgpu"
	// NameSoftware is the name of the CPU backend with an asynchronous
	// queue goroutine.
	NameSoftware = "software"
)

// ErrBackendNotAvailable is returned when a requested backend is not registered.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Open selects a backend by name and opens a device on it. Failures are
// reported as fatal init errors.
func Open(ctx context.Context, name string, desc *gpucore.DeviceDescriptor) (gpucore.Device, error) {
	b, err := Get(name)
	if err != nil {
		return nil, meshview.Errorf(meshview.KindNoDevice, "select backend", err)
	}
	dev, err := b.Open(ctx, desc)
	if err != nil {
		if meshview.KindOf(err) != 0 {
			return nil, err
		}
		return nil, meshview.Errorf(meshview.KindInit, "open "+b.Name(), err)
	}
	meshview.Logger().Info("backend: device opened", "backend", b.Name(), "adapter", dev.Info().String())
	return dev, nil
}
