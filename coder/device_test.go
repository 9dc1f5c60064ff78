package coder

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDeviceFormats(t *testing.T) {
	if got := FormatFloat4.TextureFormat(); got != gputypes.TextureFormatRGBA32Float {
		t.Errorf("float format: got %v", got)
	}
	if got := FormatByte.TextureFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("byte format: got %v", got)
	}
	tex := Texture{Width: 4, Height: 2, Format: FormatFloat4}
	if got := tex.ByteSize(); got != 128 {
		t.Errorf("float texture byte size: got %d, want 128", got)
	}
	tex.Format = FormatByte
	if got := tex.ByteSize(); got != 32 {
		t.Errorf("byte texture byte size: got %d, want 32", got)
	}
}
