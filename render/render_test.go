package render

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/meshview"
	"github.com/gogpu/meshview/backend/software"
	"github.com/gogpu/meshview/frame"
	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/mesh"
	"github.com/gogpu/meshview/mesh/obj"
)

func newRenderer(t *testing.T, m *mesh.Mesh, b *software.Backend, opts ...meshview.Option) *Renderer {
	t.Helper()
	base := []meshview.Option{
		meshview.WithSize(64, 48),
		meshview.WithBackend("software"),
		meshview.WithFenceTimeout(5 * time.Second),
	}
	cfg := meshview.NewConfig(append(base, opts...)...)
	r, err := New(context.Background(), b, gpucore.WindowHandle{}, m, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(context.Background()); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return r
}

func softwareDevice(t *testing.T, r *Renderer) *software.Device {
	t.Helper()
	d, ok := r.Context().Device.(*software.Device)
	if !ok {
		t.Fatalf("device is %T, want *software.Device", r.Context().Device)
	}
	return d
}

func TestRenderer_StartupSignalsOne(t *testing.T) {
	r := newRenderer(t, mesh.Cube(), software.New())
	if got := r.Context().Info().Backend; got != "software" {
		t.Errorf("Info().Backend = %q, want software", got)
	}

	if got := r.Submissions(); got != 1 {
		t.Errorf("Submissions() = %d, want 1", got)
	}
	s := r.Synchronizer()
	if got := s.LastSignaled(); got != 1 {
		t.Errorf("LastSignaled() = %d, want 1", got)
	}
	if got := r.Context().Fence.Completed(); got != 1 {
		t.Errorf("Completed() = %d, want 1", got)
	}
	for i := range r.Context().FrameCount() {
		st := softwareDevice(t, r).SoftwareSurface().Target(i).State()
		if st != gpucore.StatePresent {
			t.Errorf("target %d state = %v, want %v", i, st, gpucore.StatePresent)
		}
	}
}

func TestRenderer_DoubleBufferedHundredTicks(t *testing.T) {
	r := newRenderer(t, mesh.Cube(), software.New(software.WithLatency(200*time.Microsecond)))
	ctx := context.Background()

	for i := range 100 {
		if err := r.Tick(ctx); err != nil {
			t.Fatalf("Tick() #%d error = %v", i, err)
		}
	}

	s := r.Synchronizer()
	if s.LastSignaled() != r.Submissions() {
		t.Errorf("LastSignaled() = %d, Submissions() = %d, want equal", s.LastSignaled(), r.Submissions())
	}
	if got := r.Submissions(); got != 101 {
		t.Errorf("Submissions() = %d, want 101", got)
	}
	if h := softwareDevice(t, r).Hazards(); h != 0 {
		t.Errorf("Hazards() = %d, want 0", h)
	}
	st := r.Stats()
	if st.Frames != 100 || st.DrawCalls != 100 {
		t.Errorf("Stats() = %+v, want 100 frames and 100 draws", st)
	}
}

func TestRenderer_TripleBufferedOutOfOrder(t *testing.T) {
	b := software.New(software.WithLatency(100*time.Microsecond), software.WithPresentOrder(2, 0, 1))
	r := newRenderer(t, mesh.Triangle(), b, meshview.WithFrameCount(3))
	ctx := context.Background()

	prev := make([]uint64, 3)
	for i := range 30 {
		if err := r.Tick(ctx); err != nil {
			t.Fatalf("Tick() #%d error = %v", i, err)
		}
		s := r.Synchronizer()
		for slot := range 3 {
			if v := s.Required(slot); v < prev[slot] {
				t.Fatalf("Required(%d) went from %d to %d", slot, prev[slot], v)
			}
			prev[slot] = s.Required(slot)
		}
	}
	if h := softwareDevice(t, r).Hazards(); h != 0 {
		t.Errorf("Hazards() = %d, want 0", h)
	}
}

func TestRenderer_RecordsOneDrawBracketed(t *testing.T) {
	m, err := obj.Load("../mesh/obj/testdata/three.obj")
	if err != nil {
		t.Fatalf("obj.Load() error = %v", err)
	}
	if len(m.Vertices) != 9 {
		t.Fatalf("len(Vertices) = %d, want 9", len(m.Vertices))
	}
	r := newRenderer(t, m, software.New())

	slot := r.Synchronizer().Index()
	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	list := r.Context().Slots[slot].Commands.(*software.CommandList)
	ops := list.Ops()
	var draws []int
	toRT, toPresent := -1, -1
	for i, op := range ops {
		switch op.Kind {
		case software.OpDraw:
			draws = append(draws, i)
			if op.VertexCount != 9 || op.InstanceCount != 1 {
				t.Errorf("Draw(%d, %d), want Draw(9, 1)", op.VertexCount, op.InstanceCount)
			}
		case software.OpTransition:
			if op.Target != slot {
				t.Errorf("transition on target %d, want %d", op.Target, slot)
			}
			switch {
			case op.From == gpucore.StatePresent && op.To == gpucore.StateRenderTarget:
				toRT = i
			case op.From == gpucore.StateRenderTarget && op.To == gpucore.StatePresent:
				toPresent = i
			}
		}
	}
	if len(draws) != 1 {
		t.Fatalf("recorded %d draws, want 1", len(draws))
	}
	if toRT < 0 || toPresent < 0 || !(toRT < draws[0] && draws[0] < toPresent) {
		t.Errorf("transitions at %d and %d do not bracket draw at %d", toRT, toPresent, draws[0])
	}
}

func TestRenderer_SnapshotShowsMesh(t *testing.T) {
	r := newRenderer(t, mesh.Cube(), software.New())
	ctx := context.Background()
	for range 3 {
		if err := r.Tick(ctx); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}
	if err := r.Synchronizer().WaitForGPUIdle(ctx); err != nil {
		t.Fatalf("WaitForGPUIdle() error = %v", err)
	}

	img := softwareDevice(t, r).SoftwareSurface().Snapshot()
	if img == nil {
		t.Fatal("Snapshot() = nil after presenting")
	}
	bg := color.RGBA{0, 51, 102, 255}
	b := img.Bounds()
	center := img.RGBAAt(b.Dx()/2, b.Dy()/2)
	if center == bg {
		t.Errorf("center pixel = %v, want mesh color", center)
	}
	corner := img.RGBAAt(0, 0)
	if corner != bg {
		t.Errorf("corner pixel = %v, want clear color %v", corner, bg)
	}
}

func TestRenderer_RotateKeyDownUp(t *testing.T) {
	r := newRenderer(t, mesh.Cube(), software.New())
	ctx := context.Background()

	r.Input.KeyDown(gpucontext.KeyRight)
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	yaw := r.Camera.Yaw
	if yaw <= 0 {
		t.Errorf("Yaw = %v after rotate right, want > 0", yaw)
	}

	r.Input.KeyUp(gpucontext.KeyRight)
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if r.Camera.Rotation != 0 {
		t.Errorf("Rotation = %v after key up, want 0", r.Camera.Rotation)
	}
	if r.Camera.Yaw != yaw {
		t.Errorf("Yaw = %v, want %v", r.Camera.Yaw, yaw)
	}
}

type countingPump struct {
	polls int
	limit int
}

func (p *countingPump) PollEvents()       { p.polls++ }
func (p *countingPump) ShouldClose() bool { return p.polls > p.limit }

func TestRenderer_RunStopsOnPump(t *testing.T) {
	r := newRenderer(t, mesh.Triangle(), software.New())
	pump := &countingPump{limit: 10}

	if err := r.Run(context.Background(), pump); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := r.Stats().Frames; got != 10 {
		t.Errorf("Frames = %d, want 10", got)
	}
	if got, want := r.Context().Fence.Completed(), r.Synchronizer().LastSignaled(); got != want {
		t.Errorf("Completed() = %d after Run, want %d", got, want)
	}
}

func TestRenderer_RunHonorsMaxFrames(t *testing.T) {
	r := newRenderer(t, mesh.Triangle(), software.New(), meshview.WithMaxFrames(7))
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := r.Stats().Frames; got != 7 {
		t.Errorf("Frames = %d, want 7", got)
	}
}

func TestRenderer_RunStopsOnEscape(t *testing.T) {
	r := newRenderer(t, mesh.Triangle(), software.New())
	r.Input.KeyDown(gpucontext.KeyEscape)
	if err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := r.Stats().Frames; got != 0 {
		t.Errorf("Frames = %d, want 0", got)
	}
}

func TestRenderer_TickAfterClose(t *testing.T) {
	cfg := meshview.NewConfig(meshview.WithSize(16, 16))
	r, err := New(context.Background(), software.New(), gpucore.WindowHandle{}, mesh.Triangle(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(context.Background()); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	err = r.Tick(context.Background())
	if !errors.Is(err, gpucore.ErrDestroyed) {
		t.Errorf("Tick() after Close error = %v, want ErrDestroyed", err)
	}
}

func TestNew_InvalidFrameCount(t *testing.T) {
	cfg := meshview.NewConfig(meshview.WithFrameCount(1))
	_, err := New(context.Background(), software.New(), gpucore.WindowHandle{}, mesh.Triangle(), cfg)
	if !meshview.IsInit(err) {
		t.Errorf("New() error = %v, want init error", err)
	}
}

func TestNew_MissingShaderDir(t *testing.T) {
	cfg := meshview.NewConfig(meshview.WithSize(16, 16), meshview.WithShaderDir(t.TempDir()))
	_, err := New(context.Background(), software.New(), gpucore.WindowHandle{}, mesh.Triangle(), cfg)
	if !meshview.IsInit(err) {
		t.Errorf("New() error = %v, want init error", err)
	}
}

func TestRenderer_DeviceLostOnStall(t *testing.T) {
	b := software.New(software.WithLatency(200 * time.Millisecond))
	cfg := meshview.NewConfig(meshview.WithSize(16, 16), meshview.WithFenceTimeout(time.Second))
	r, err := New(context.Background(), b, gpucore.WindowHandle{}, mesh.Triangle(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.sync = mustSync(t, r, frame.WithTimeout(time.Millisecond))

	ctx := context.Background()
	for range 4 {
		if err = r.Tick(ctx); err != nil {
			break
		}
	}
	if !errors.Is(err, meshview.ErrDeviceLost) {
		t.Fatalf("Tick() error = %v, want device lost", err)
	}
	if !errors.Is(err, frame.ErrTimeout) {
		t.Errorf("Tick() error = %v, want ErrTimeout in chain", err)
	}
	if err := r.Close(ctx); err != nil {
		t.Errorf("Close() after device lost error = %v", err)
	}
}

// mustSync replaces the renderer's synchronizer, carrying over the fence
// value the startup wait left behind.
func mustSync(t *testing.T, r *Renderer, opts ...frame.Option) *frame.Synchronizer {
	t.Helper()
	c := r.Context()
	s, err := frame.NewSynchronizer(c.Queue, c.Surface, c.Fence, c.FrameCount(), opts...)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}
	if err := s.WaitForGPUIdle(context.Background()); err != nil {
		t.Fatalf("WaitForGPUIdle() error = %v", err)
	}
	return s
}

func TestRenderer_CloseDrainsAfterCanceledWait(t *testing.T) {
	r := newRenderer(t, mesh.Cube(), software.New(software.WithLatency(100*time.Millisecond)))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var err error
	for range 4 {
		if err = r.Tick(ctx); err != nil {
			break
		}
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Tick() error = %v, want context.DeadlineExceeded", err)
	}

	s := r.Synchronizer()
	fence := r.Context().Fence
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close() after canceled wait error = %v", err)
	}
	if got, want := fence.Completed(), s.LastSignaled(); got < want {
		t.Errorf("Completed() = %d after Close, want >= %d", got, want)
	}
}
