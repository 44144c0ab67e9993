// Test Zwrap
package zwrap_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/ezsea/seq_colour/pkg/zwrap"
)

const plain = "andrewsayshello\n"

func gzipped(t *testing.T, s string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

type ztest struct {
	data   []byte
	format zwrap.Format
}

func ztests(t *testing.T) []ztest {
	return []ztest{
		{zwrap.Encode([]byte(plain)), zwrap.Zstd},
		{gzipped(t, plain), zwrap.Gzip},
		{[]byte(plain), zwrap.Plain},
	}
}

// writeToTmp writes a byte slice to a temporary file and returns
// a file pointer at the start.
func writeToTmp(t *testing.T, data []byte) *os.File {
	tmpf, err := os.CreateTemp(t.TempDir(), "del_me_testing")
	if err != nil {
		t.Fatal("Fail getting TempFile", err)
	}
	if _, err := tmpf.Write(data); err != nil {
		t.Fatal("fail writing to tempfile", err)
	}
	if _, err := tmpf.Seek(0, io.SeekStart); err != nil {
		t.Fatal("Seek fail on " + tmpf.Name())
	}
	return tmpf
}

func TestSniff(t *testing.T) {
	for _, x := range ztests(t) {
		if got := zwrap.Sniff(x.data); got != x.format {
			t.Errorf("want %v got %v", x.format, got)
		}
	}
	if zwrap.Sniff(nil) != zwrap.Plain {
		t.Error("empty input should be plain")
	}
}

func TestWrap(t *testing.T) {
	for _, x := range ztests(t) {
		tmpr, err := zwrap.Wrap(writeToTmp(t, x.data))
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(tmpr)
		if x.format == zwrap.Zstd {
			if err != nil || string(b) != plain {
				t.Errorf("zstd read got %q, %v", b, err)
			}
		} else if err == nil {
			t.Errorf("%v data read as zstd without error", x.format)
		}
		if err := tmpr.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

// Calling WrapMaybe should not fail since it guesses if the file
// is compressed or not.
func TestWrapMaybe(t *testing.T) {
	for _, x := range ztests(t) {
		tmpr, err := zwrap.WrapMaybe(writeToTmp(t, x.data))
		if err != nil {
			t.Fatalf("Fail on file with format %v: %v", x.format, err)
		}
		if tmpr.Format() != x.format {
			t.Errorf("want format %v got %v", x.format, tmpr.Format())
		}
		if b, err := io.ReadAll(tmpr); err != nil || string(b) != plain {
			t.Errorf("wrong string: %q %v", b, err)
		}
		if err := tmpr.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

func TestWrapMaybeShort(t *testing.T) {
	tmpr, err := zwrap.WrapMaybe(writeToTmp(t, []byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	defer tmpr.Close()
	if b, _ := io.ReadAll(tmpr); string(b) != "x" {
		t.Errorf("got %q", b)
	}
}

func TestDecode(t *testing.T) {
	big := bytes.Repeat([]byte("ACDEFGHIKLMNPQRSTVWY"), 5000)
	z := zwrap.Encode(big)
	if len(z) >= len(big) {
		t.Error("repetitive data did not compress", len(z), len(big))
	}
	got, err := zwrap.Decode(z)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, big) {
		t.Error("round trip changed data")
	}
	if _, err := zwrap.Decode(nil); err == nil {
		t.Error("empty input decoded")
	}
	if _, err := zwrap.Decode([]byte(plain)); err == nil {
		t.Error("plain text decoded as zstd")
	}
	if _, err := zwrap.Decode(z[:len(z)/2]); err == nil {
		t.Error("truncated input decoded")
	}
}
