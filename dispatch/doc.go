// Package dispatch executes synthesized programs on the GPU through
// wgpu/hal compute pipelines.
//
// The host-side layout work (uniform packing, amplitude encoding) lives
// in GPU-independent code so it stays testable without a device; the
// Engine itself builds with the default tags and can be excluded with
// the nogpu build tag. An Engine either owns its Vulkan instance and
// device or borrows them from an external provider via
// SetDeviceProvider.
package dispatch
