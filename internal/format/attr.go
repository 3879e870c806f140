package format

// Attribute is a key/value pair from the header attribute block. Both halves
// are stored null-terminated.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EncodedSize is the number of bytes the attribute occupies on disk.
func (a Attribute) EncodedSize() int64 {
	return int64(len(a.Key)) + 1 + int64(len(a.Value)) + 1
}

// EncodedSize sums the on-disk size of attrs.
func EncodedSize(attrs []Attribute) int64 {
	var n int64
	for _, a := range attrs {
		n += a.EncodedSize()
	}
	return n
}

// AppendAttributes serializes attrs onto b.
func AppendAttributes(b []byte, attrs []Attribute) []byte {
	for _, a := range attrs {
		b = append(b, a.Key...)
		b = append(b, 0)
		b = append(b, a.Value...)
		b = append(b, 0)
	}
	return b
}

// IndexOf returns the position of the first attribute with key, or -1.
func IndexOf(attrs []Attribute, key string) int {
	for i, a := range attrs {
		if a.Key == key {
			return i
		}
	}
	return -1
}
