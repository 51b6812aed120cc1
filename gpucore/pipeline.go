package gpucore

// VertexAttribute describes one attribute in the vertex buffer.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint32
	ShaderLocation uint32
}

// PipelineDescriptor configures a render pipeline drawing triangle lists
// with one vertex buffer and one uniform bind group visible to the vertex
// stage.
type PipelineDescriptor struct {
	Label string

	// Source is the WGSL program.
	Source string

	VertexEntry   string
	FragmentEntry string

	VertexStride uint32
	Attributes   []VertexAttribute

	// UniformSize is the minimum binding size of the uniform at
	// group 0, binding 0.
	UniformSize uint64
}

// Pipeline is a compiled render pipeline.
type Pipeline interface {
	Destroy()
}

// Attribute returns the attribute bound to shader location loc.
func (d *PipelineDescriptor) Attribute(loc uint32) (VertexAttribute, bool) {
	for _, a := range d.Attributes {
		if a.ShaderLocation == loc {
			return a, true
		}
	}
	return VertexAttribute{}, false
}
