package bind_group_provider

// BufferWrite describes a single GPU buffer write targeting a binding on a
// BindGroupProvider at a byte offset. Writes are staged during frame preparation and
// flushed to the queue before the frame's command buffer is submitted.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
