package buffer

// Source is random byte access over a fixed-length span. A buffer picks one
// implementation at load time and replaces it wholesale on reload; the bytes
// behind a Source are never modified.
type Source interface {
	Bytes() []byte
	Len() int
	Mapped() bool
	Close() error
}

type heapSource struct {
	data []byte
}

func newHeapSource(data []byte) *heapSource {
	return &heapSource{data: data}
}

func (s *heapSource) Bytes() []byte { return s.data }
func (s *heapSource) Len() int      { return len(s.data) }
func (s *heapSource) Mapped() bool  { return false }

func (s *heapSource) Close() error {
	s.data = nil
	return nil
}
