package cpp

import (
	"bufio"
	"fmt"
	"io"
)

const (
	indent      = "    "
	bytesPerRow = 16
)

// WriteArray writes b to w as the body of a C byte array initialiser, one
// "0xhh," value per byte and sixteen values per indented line.
func WriteArray(w io.Writer, b []byte) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(indent)
	for i, v := range b {
		if i > 0 && i%bytesPerRow == 0 {
			bw.WriteString("\n" + indent)
		}
		fmt.Fprintf(bw, "0x%02x,", v)
	}
	bw.WriteString("\n")

	return bw.Flush()
}
