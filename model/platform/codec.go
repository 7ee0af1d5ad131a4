package platform

// MarshalCanonical serializes a value in the canonical CBOR form used
// everywhere state is persisted or hashed.
func MarshalCanonical(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes canonical CBOR produced by MarshalCanonical.
func Unmarshal(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}
