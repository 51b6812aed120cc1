package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/meshview/gpucore"
	"github.com/gogpu/meshview/shader"
)

// Pipeline is a render pipeline with its single uniform layout.
type Pipeline struct {
	module   *wgpu.ShaderModule
	group    *wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

var _ gpucore.Pipeline = (*Pipeline)(nil)

// Destroy releases the pipeline objects in reverse creation order.
func (p *Pipeline) Destroy() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.group != nil {
		p.group.Release()
		p.group = nil
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

func vertexFormat(f gpucore.VertexFormat) (gputypes.VertexFormat, error) {
	switch f {
	case gpucore.VertexFormatFloat32x3:
		return gputypes.VertexFormatFloat32x3, nil
	case gpucore.VertexFormatFloat32x4:
		return gputypes.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex format %d", f)
	}
}

func vertexLayout(desc *gpucore.PipelineDescriptor) (wgpu.VertexBufferLayout, error) {
	attrs := make([]gputypes.VertexAttribute, 0, len(desc.Attributes))
	for _, a := range desc.Attributes {
		f, err := vertexFormat(a.Format)
		if err != nil {
			return wgpu.VertexBufferLayout{}, err
		}
		if a.Offset+a.Format.Size() > desc.VertexStride {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("attribute %d exceeds stride %d", a.ShaderLocation, desc.VertexStride)
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         f,
			Offset:         uint64(a.Offset),
			ShaderLocation: a.ShaderLocation,
		})
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(desc.VertexStride),
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

// CreatePipeline validates the WGSL program with naga, then builds the
// shader module, the uniform layout at group 0 binding 0 and a triangle
// list pipeline targeting the surface format.
func (d *Device) CreatePipeline(desc *gpucore.PipelineDescriptor) (gpucore.Pipeline, error) {
	if d.dev == nil {
		return nil, gpucore.ErrDestroyed
	}
	if _, err := shader.Validate(desc.Source, desc.VertexEntry, desc.FragmentEntry); err != nil {
		return nil, fmt.Errorf("wgpu: pipeline %q: %w", desc.Label, err)
	}
	vl, err := vertexLayout(desc)
	if err != nil {
		return nil, fmt.Errorf("wgpu: pipeline %q: %w", desc.Label, err)
	}

	p := &Pipeline{}
	if err := d.buildPipeline(p, desc, vl); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("wgpu: pipeline %q: %w", desc.Label, err)
	}
	return p, nil
}

func (d *Device) buildPipeline(p *Pipeline, desc *gpucore.PipelineDescriptor, vl wgpu.VertexBufferLayout) error {
	var err error
	p.module, err = d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSL:  desc.Source,
	})
	if err != nil {
		return fmt.Errorf("shader module: %w", err)
	}

	p.group, err = d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: desc.Label + " transform",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: desc.UniformSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("bind group layout: %w", err)
	}

	p.layout, err = d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.group},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	p.pipeline, err = d.dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: desc.VertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{vl},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: ^uint64(0)},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: desc.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    d.surface.format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}
	return nil
}

// BindGroup binds a uniform range for a pipeline's layout.
type BindGroup struct {
	group *wgpu.BindGroup
}

// Destroy releases the bind group.
func (g *BindGroup) Destroy() {
	if g.group != nil {
		g.group.Release()
		g.group = nil
	}
}

// CreateBindGroup binds desc.Buffer at group 0 binding 0 of desc.Pipeline.
func (d *Device) CreateBindGroup(desc *gpucore.BindGroupDescriptor) (gpucore.BindGroup, error) {
	p, ok := desc.Pipeline.(*Pipeline)
	if !ok {
		return nil, gpucore.ErrForeignObject
	}
	buf, ok := desc.Buffer.(*Buffer)
	if !ok {
		return nil, gpucore.ErrForeignObject
	}
	if !buf.usage.Has(gpucore.BufferUsageUniform) {
		return nil, fmt.Errorf("wgpu: bind group %q: buffer %q lacks uniform usage", desc.Label, buf.label)
	}
	if align := uint64(d.limits.MinUniformBufferOffsetAlignment); desc.Offset%align != 0 {
		return nil, fmt.Errorf("wgpu: bind group %q: offset %d not aligned to %d", desc.Label, desc.Offset, align)
	}
	g, err := d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  desc.Label,
		Layout: p.group,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf.buf,
			Offset:  desc.Offset,
			Size:    desc.Size,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: bind group %q: %w", desc.Label, err)
	}
	return &BindGroup{group: g}, nil
}
