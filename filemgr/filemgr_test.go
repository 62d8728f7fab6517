package filemgr

import (
	"bytes"
	"image"
	"testing"
)

// Every advertised avatar format must have a decoder registered, or
// image.Decode rejects the upload as an unknown format.
func TestAdvertisedFormatsHaveDecoders(t *testing.T) {
	headers := map[string][]byte{
		"jpeg": {0xFF, 0xD8, 0xFF, 0xE0},
		"png":  {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
		"gif":  []byte("GIF89a"),
		"webp": []byte("RIFF\x24\x00\x00\x00WEBPVP8 "),
	}
	for format, header := range headers {
		_, _, err := image.Decode(bytes.NewReader(header))
		if err == image.ErrFormat {
			t.Errorf("%s decoder not registered", format)
		}
	}
}

func TestEnsureSafeFilename(t *testing.T) {
	cases := []struct {
		in, ext, want string
	}{
		{"My Photo.JPG", ".jpg", "my_photo.jpg"},
		{"../../etc/passwd", ".png", "etcpasswd.png"},
		{"shot&<script>", ".gif", "shotscript.gif"},
	}
	for _, c := range cases {
		if got := ensureSafeFilename(c.in, c.ext); got != c.want {
			t.Errorf("ensureSafeFilename(%q, %q) = %q, want %q", c.in, c.ext, got, c.want)
		}
	}
}
