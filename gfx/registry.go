package gfx

import "github.com/gogpu/gpucontext"

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend in gfx/software.
	BackendSoftware = "software"
	// BackendNative is the name reserved for a Pure Go GPU backend.
	BackendNative = "native"
	// BackendRust is the name reserved for a wgpu-native backend.
	BackendRust = "rust"
)

// Factory creates a new Device.
type Factory func() Device

// backends holds registered device factories.
// Priority order: Rust > Native > Software.
var backends = gpucontext.NewRegistry[Device](
	gpucontext.WithPriority(BackendRust, BackendNative, BackendSoftware),
)

// Register registers a device factory under name.
// This is typically called from init() functions in backend packages.
// A factory registered under an existing name replaces it.
func Register(name string, factory Factory) {
	backends.Register(name, factory)
}

// Unregister removes a backend. This is useful for testing.
func Unregister(name string) {
	backends.Unregister(name)
}

// IsRegistered reports whether a backend is registered under name.
func IsRegistered(name string) bool {
	return backends.Has(name)
}

// Get returns a new device from the named backend.
func Get(name string) (Device, error) {
	if !backends.Has(name) {
		return nil, ErrBackendNotAvailable
	}
	return backends.Get(name), nil
}

// Default returns a new device from the highest-priority backend.
func Default() (Device, error) {
	name := backends.BestName()
	if name == "" {
		return nil, ErrBackendNotAvailable
	}
	return backends.Get(name), nil
}

// DefaultName returns the name of the backend Default would use, or ""
// when none is registered.
func DefaultName() string {
	return backends.BestName()
}
