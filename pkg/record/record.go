// Package record defines the textual wire format of the capture stream.
//
// One record per frame, comma separated:
//
//	t_us,data_hex,strobe,ack,busy,autofeed,init,selectin,paper_out,select,error
//
// t_us is the decimal microsecond timestamp (unsigned, wraps at 32 bits),
// data_hex is the data byte as two uppercase hex digits, and each status
// column is a single ASCII 0 or 1 in the fixed order of
// [domain.StatusLine]. Lines beginning with '#' are diagnostics, not data.
//
// A Renderer narrows the status columns to an enabled [domain.LineSet] and
// can drop them entirely (data-only mode); Parse inverts Append for the
// same configuration.
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thisoldcpu/opn-paralax/internal/domain"
)

// CommentPrefix marks diagnostic lines in the stream.
const CommentPrefix = "# "

const hexDigits = "0123456789ABCDEF"

// Renderer turns frames into stream records. The zero value renders nothing
// useful; use NewRenderer.
type Renderer struct {
	lines    domain.LineSet
	dataOnly bool
}

// NewRenderer returns a renderer emitting the given status lines.
// With dataOnly set, status columns are omitted entirely.
func NewRenderer(lines domain.LineSet, dataOnly bool) Renderer {
	return Renderer{lines: lines, dataOnly: dataOnly}
}

// Append renders one frame onto dst and returns the extended slice. The
// record is terminated with a newline. Append does not allocate when dst
// has sufficient capacity.
func (r Renderer) Append(dst []byte, f domain.Frame) []byte {
	dst = strconv.AppendUint(dst, uint64(f.TUs), 10)
	dst = append(dst, ',', hexDigits[f.Data>>4], hexDigits[f.Data&0x0F])
	if !r.dataOnly {
		for l := domain.StatusLine(0); int(l) < domain.NumStatusLines; l++ {
			if !r.lines.Has(l) {
				continue
			}
			dst = append(dst, ',', '0'+f.Bits.Bit(l))
		}
	}
	return append(dst, '\n')
}

// Header returns the `#` column header for this renderer's configuration.
func (r Renderer) Header() string {
	var sb strings.Builder
	sb.WriteString(CommentPrefix)
	sb.WriteString("t_us,data_hex")
	if !r.dataOnly {
		for l := domain.StatusLine(0); int(l) < domain.NumStatusLines; l++ {
			if !r.lines.Has(l) {
				continue
			}
			sb.WriteByte(',')
			sb.WriteString(l.String())
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Parse decodes a single record line produced by Append with the same
// configuration. Status lines outside the renderer's set decode as low.
func (r Renderer) Parse(line string) (domain.Frame, error) {
	var f domain.Frame
	line = strings.TrimSuffix(line, "\n")
	fields := strings.Split(line, ",")

	want := 2
	if !r.dataOnly {
		want += r.lines.Count()
	}
	if len(fields) != want {
		return f, fmt.Errorf("record: %d fields, want %d", len(fields), want)
	}

	t, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return f, fmt.Errorf("record: timestamp %q: %w", fields[0], err)
	}
	f.TUs = uint32(t)

	d, err := strconv.ParseUint(fields[1], 16, 8)
	if err != nil {
		return f, fmt.Errorf("record: data byte %q: %w", fields[1], err)
	}
	f.Data = uint8(d)

	if r.dataOnly {
		return f, nil
	}
	i := 2
	for l := domain.StatusLine(0); int(l) < domain.NumStatusLines; l++ {
		if !r.lines.Has(l) {
			continue
		}
		switch fields[i] {
		case "0":
		case "1":
			f.Bits = f.Bits.WithBit(l, true)
		default:
			return f, fmt.Errorf("record: %s column %q, want 0 or 1", l, fields[i])
		}
		i++
	}
	return f, nil
}
