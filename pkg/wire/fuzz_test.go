package wire

import (
	"bytes"
	"testing"
)

// FuzzReadFrame checks that arbitrary byte streams never panic
// ReadFrame, only ever return a clean value or an error.
func FuzzReadFrame(f *testing.F) {
	seed, _ := NewEnvelope(TagFetchBlockHeight, struct{}{})
	var buf bytes.Buffer
	_ = WriteFrame(&buf, seed)
	f.Add(buf.Bytes())
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		env, err := ReadFrame(bytes.NewReader(data))
		if err != nil {
			return
		}
		_ = env.Tag.String()
	})
}
