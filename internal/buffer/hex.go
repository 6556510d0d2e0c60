package buffer

import (
	"fmt"
	"strings"
)

// HexRowWidth is the number of bytes shown per row for binary content.
const HexRowWidth = 16

// HexRowCount is ceil(size / 16).
func (b *Buffer) HexRowCount() int {
	return (b.Size() + HexRowWidth - 1) / HexRowWidth
}

// HexRow formats row n as "offset  hex bytes  |ascii|".
func (b *Buffer) HexRow(n int) string {
	if b.source == nil || n < 0 {
		return ""
	}
	data := b.source.Bytes()
	start := n * HexRowWidth
	if start >= len(data) {
		return ""
	}
	end := min(start+HexRowWidth, len(data))
	return formatHexRow(start, data[start:end])
}

func formatHexRow(offset int, chunk []byte) string {
	var builder strings.Builder
	builder.Grow(80)
	fmt.Fprintf(&builder, "%08x  ", offset)

	for i := 0; i < HexRowWidth; i++ {
		if i < len(chunk) {
			fmt.Fprintf(&builder, "%02x ", chunk[i])
		} else {
			builder.WriteString("   ")
		}
		if i == 7 {
			builder.WriteByte(' ')
		}
	}

	builder.WriteString("|")
	for _, c := range chunk {
		if c >= 0x20 && c < 0x7f {
			builder.WriteByte(c)
		} else {
			builder.WriteByte('.')
		}
	}
	builder.WriteString("|")
	return builder.String()
}
