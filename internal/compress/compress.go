package compress

import "fmt"

// Codec names stored alongside encoded snapshot content.
const (
	CodecNop    = "none"
	CodecGzip   = "gzip"
	CodecBrotli = "brotli"
	CodecLZ4    = "lz4"
)

// Compress encodes snapshot content at rest and decodes it on read.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// New returns the codec registered under name.
func New(name string) (Compress, error) {
	switch name {
	case CodecNop, "":
		return NewNop(), nil
	case CodecGzip:
		return NewGZip(), nil
	case CodecBrotli:
		return NewBrotli(), nil
	case CodecLZ4:
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression codec: %s", name)
	}
}
