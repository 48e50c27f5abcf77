package record

import (
	"strings"
	"testing"

	"github.com/thisoldcpu/opn-paralax/internal/domain"
)

func TestAppendAllStatusHigh(t *testing.T) {
	// data=0x00, every status line high, timestamp zero.
	f := domain.Frame{TUs: 0, Data: 0x00, Bits: domain.StatusBits(domain.AllLines)}
	r := NewRenderer(domain.AllLines, false)

	got := string(r.Append(nil, f))
	want := "0,00,1,1,1,1,1,1,1,1,1\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAppendFormatting(t *testing.T) {
	r := NewRenderer(domain.AllLines, false)
	cases := []struct {
		frame domain.Frame
		want  string
	}{
		{domain.Frame{TUs: 1234, Data: 0x0A}, "1234,0A,0,0,0,0,0,0,0,0,0\n"},
		{domain.Frame{TUs: 4294967295, Data: 0xFF}, "4294967295,FF,0,0,0,0,0,0,0,0,0\n"},
		{
			domain.Frame{TUs: 7, Data: 0x42, Bits: domain.StatusBits(0).WithBit(domain.LineAck, true).WithBit(domain.LineError, true)},
			"7,42,0,1,0,0,0,0,0,0,1\n",
		},
	}
	for _, c := range cases {
		if got := string(r.Append(nil, c.frame)); got != c.want {
			t.Errorf("frame %+v: got %q, want %q", c.frame, got, c.want)
		}
	}
}

func TestAppendNarrowedLineSet(t *testing.T) {
	lines := domain.LineSet(0).With(domain.LineStrobe).With(domain.LineBusy)
	r := NewRenderer(lines, false)
	f := domain.Frame{TUs: 10, Data: 0x55, Bits: domain.StatusBits(domain.AllLines)}
	if got, want := string(r.Append(nil, f)), "10,55,1,1\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAppendDataOnly(t *testing.T) {
	r := NewRenderer(domain.AllLines, true)
	f := domain.Frame{TUs: 99, Data: 0x80, Bits: domain.StatusBits(domain.AllLines)}
	if got, want := string(r.Append(nil, f)), "99,80\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHeaderMatchesColumns(t *testing.T) {
	r := NewRenderer(domain.AllLines, false)
	want := "# t_us,data_hex,strobe,ack,busy,autofeed,init,selectin,paper_out,select,error\n"
	if got := r.Header(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	r = NewRenderer(domain.LineSet(0).With(domain.LineAck), false)
	if got, want := r.Header(), "# t_us,data_hex,ack\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	r = NewRenderer(domain.AllLines, true)
	if got, want := r.Header(), "# t_us,data_hex\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	r := NewRenderer(domain.AllLines, false)
	frames := []domain.Frame{
		{TUs: 0, Data: 0x00, Bits: domain.StatusBits(domain.AllLines)},
		{TUs: 123456, Data: 0xA5, Bits: domain.StatusBits(0).WithBit(domain.LineStrobe, true)},
		{TUs: ^uint32(0), Data: 0xFF, Bits: 0},
	}
	for _, f := range frames {
		line := string(r.Append(nil, f))
		got, err := r.Parse(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if got != f {
			t.Fatalf("round trip %q: got %+v, want %+v", line, got, f)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	r := NewRenderer(domain.AllLines, false)
	bad := []string{
		"",
		"1,00",                      // too few columns
		"x,00,0,0,0,0,0,0,0,0,0",    // non-numeric timestamp
		"1,GG,0,0,0,0,0,0,0,0,0",    // bad hex
		"1,00,2,0,0,0,0,0,0,0,0",    // bit out of range
		"1,00,0,0,0,0,0,0,0,0,0,0",  // too many columns
		"-1,00,0,0,0,0,0,0,0,0,0",   // negative timestamp
		"4294967296,00,0,0,0,0,0,0,0,0,0", // timestamp beyond 32 bits
	}
	for _, line := range bad {
		if _, err := r.Parse(line); err == nil {
			t.Errorf("parse %q: expected error", line)
		}
	}
}

func TestCommentPrefixDistinguishesDiagnostics(t *testing.T) {
	r := NewRenderer(domain.AllLines, false)
	if !strings.HasPrefix(r.Header(), CommentPrefix) {
		t.Fatal("header must carry the comment prefix")
	}
	f := domain.Frame{TUs: 5, Data: 0x01}
	if strings.HasPrefix(string(r.Append(nil, f)), "#") {
		t.Fatal("data records must not carry the comment prefix")
	}
}
