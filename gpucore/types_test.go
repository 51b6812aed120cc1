package gpucore

import "testing"

func TestAlignUp(t *testing.T) {
	tests := []struct {
		size, align, want uint64
	}{
		{64, 256, 256},
		{0, 256, 0},
		{256, 256, 256},
		{257, 256, 512},
		{28, 4, 28},
		{30, 0, 30},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.size, tt.align); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.size, tt.align, got, tt.want)
		}
	}
}

func TestVertexBufferViewCount(t *testing.T) {
	v := VertexBufferView{Stride: 28, Size: 9 * 28}
	if got := v.Count(); got != 9 {
		t.Errorf("Count() = %d, want 9", got)
	}
	if got := (VertexBufferView{Size: 10}).Count(); got != 0 {
		t.Errorf("zero stride Count() = %d, want 0", got)
	}
}

func TestResourceStateString(t *testing.T) {
	tests := map[ResourceState]string{
		StateUndefined:    "undefined",
		StatePresent:      "present",
		StateRenderTarget: "render-target",
		ResourceState(9):  "ResourceState(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestBufferUsageHas(t *testing.T) {
	u := BufferUsageUniform | BufferUsageMapWrite
	if !u.Has(BufferUsageUniform) || !u.Has(BufferUsageMapWrite) {
		t.Error("Has() missing set flag")
	}
	if u.Has(BufferUsageVertex) {
		t.Error("Has(Vertex) = true, want false")
	}
}

func TestPipelineDescriptorAttribute(t *testing.T) {
	d := &PipelineDescriptor{Attributes: []VertexAttribute{
		{Format: VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
	}}
	a, ok := d.Attribute(1)
	if !ok || a.Offset != 12 || a.Format.Size() != 16 {
		t.Errorf("Attribute(1) = %+v, %v", a, ok)
	}
	if _, ok := d.Attribute(2); ok {
		t.Error("Attribute(2) found, want missing")
	}
}
