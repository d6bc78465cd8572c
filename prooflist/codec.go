package prooflist

// BytesCodec is the identity Codec for raw []byte values, useful for CLI
// tools and tests that don't need a structured value type.
var BytesCodec = Codec[[]byte]{
	Marshal: func(b []byte) ([]byte, error) {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	},
	Unmarshal: func(b []byte) ([]byte, error) {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	},
}
