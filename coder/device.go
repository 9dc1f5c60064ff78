package coder

import "github.com/gogpu/gputypes"

// TextureFormat returns the device texture format backing the pixel
// layout.
func (f PixelFormat) TextureFormat() gputypes.TextureFormat {
	if f == FormatByte {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatRGBA32Float
}

// BytesPerPixel returns the device byte size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatByte {
		return 4
	}
	return 16
}

// ByteSize returns the size of the texture's device buffer.
func (t Texture) ByteSize() uint64 {
	return uint64(t.PixelCount() * t.Format.BytesPerPixel())
}
