// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This interface is the integration point between mandel and GPU
// frameworks like gogpu. A host that already owns a device implements
// DeviceHandle and passes it to NewEngine via WithDeviceProvider, so
// evaluation shares the device instead of opening a second one.
//
// Key principle: the engine RECEIVES the shared device from the host,
// it does not create one in that mode. For device sharing to work the
// handle must also expose the underlying HAL objects through
// HalDevice() any and HalQueue() any, which gogpu device handles do.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with nil implementations. It
// satisfies the interface but carries no device, so handing it to
// WithDeviceProvider fails with mandel.ErrEngineUnavailable. Useful in
// tests and as a placeholder where a handle is required.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
