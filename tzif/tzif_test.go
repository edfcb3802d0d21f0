package tzif

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeader_Write(t *testing.T) {
	buf := bytes.Buffer{}
	header := Header{
		Version:  V2,
		Isutcnt:  1,
		Isstdcnt: 2,
		Leapcnt:  3,
		Timecnt:  4,
		Typecnt:  5,
		Charcnt:  6,
	}
	if err := header.Write(&buf); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	want := []byte{
		// 4 bytes magic
		'T', 'Z', 'i', 'f',
		// 1 byte version
		'2',
		// 15 bytes reserved
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		// 6 4-byte integers
		0, 0, 0, 1, // isutcnt
		0, 0, 0, 2, // isstdcnt
		0, 0, 0, 3, // leapcnt
		0, 0, 0, 4, // timecnt
		0, 0, 0, 5, // typecnt
		0, 0, 0, 6, // charcnt
	}
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("Write() mismatch (-want +got):\n%s", diff)
	}

	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(header, got); diff != "" {
		t.Errorf("ReadHeader() mismatch (-want +got):\n%s", diff)
	}
}

func TestHeader_DataBlockSize(t *testing.T) {
	h := Header{Isutcnt: 2, Isstdcnt: 2, Leapcnt: 1, Timecnt: 2, Typecnt: 2, Charcnt: 8}
	if got := h.DataBlockSize(4); got != 2*4+2+2*6+8+1*8+2+2 {
		t.Errorf("DataBlockSize(4) = %d", got)
	}
	if got := h.DataBlockSize(8); got != 2*8+2+2*6+8+1*12+2+2 {
		t.Errorf("DataBlockSize(8) = %d", got)
	}
}

func TestEncodeReadFooter(t *testing.T) {
	for _, v := range []Version{V2, V3, V4} {
		t.Run(v.String(), func(t *testing.T) {
			var buf bytes.Buffer
			typ := LocalTimeType{Utoff: -18000, Designation: "EST"}
			if err := Encode(&buf, v, typ, "EST5EDT,M3.2.0,M11.1.0"); err != nil {
				t.Fatal(err)
			}
			got, err := ReadFooter(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got != "EST5EDT,M3.2.0,M11.1.0" {
				t.Errorf("ReadFooter() = %q", got)
			}
		})
	}
}

// TestInspect_SkipsDataBlocks builds a file whose blocks contain every kind of record.
func TestInspect_SkipsDataBlocks(t *testing.T) {
	h := Header{Version: V3, Isutcnt: 2, Isstdcnt: 2, Leapcnt: 1, Timecnt: 2, Typecnt: 2, Charcnt: 8}
	var buf bytes.Buffer
	for _, timeSize := range []int64{4, 8} {
		if err := h.Write(&buf); err != nil {
			t.Fatal(err)
		}
		// The footer byte must not be found inside the data.
		buf.Write(bytes.Repeat([]byte{'\n'}, int(h.DataBlockSize(timeSize))))
	}
	buf.WriteString("\n<+0330>-3:30\n")

	got, err := Inspect(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := Info{Version: V3, V1Header: h, V2Header: h, TZString: "<+0330>-3:30"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFooter_EmptyTZString(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, V2, LocalTimeType{Designation: "-00"}, ""); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFooter(&buf)
	if err != nil || got != "" {
		t.Errorf("ReadFooter() = %q, %v", got, err)
	}
}

func TestReadFooter_V1(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, V1, LocalTimeType{Designation: "UTC"}, ""); err != nil {
		t.Fatal(err)
	}
	info, err := Inspect(bytes.NewReader(buf.Bytes()))
	if err != nil || info.Version != V1 {
		t.Fatalf("Inspect() = %+v, %v", info, err)
	}
	if _, err := ReadFooter(&buf); !errors.Is(err, ErrNoFooter) {
		t.Errorf("ReadFooter() error = %v, want ErrNoFooter", err)
	}
}

func TestReadFooter_Invalid(t *testing.T) {
	var valid bytes.Buffer
	if err := Encode(&valid, V2, LocalTimeType{Utoff: 3600, Designation: "CET"}, "CET-1"); err != nil {
		t.Fatal(err)
	}
	b := valid.Bytes()

	cases := map[string][]byte{
		"empty":            nil,
		"bad magic":        append([]byte("TZiF"), b[4:]...),
		"truncated header": b[:20],
		"truncated block":  b[:50],
		"no footer":        b[:len(b)-len("\nCET-1\n")],
		"unterminated":     b[:len(b)-1],
		"nul in footer":    append(append([]byte{}, b[:len(b)-len("CET-1\n")]...), "CE\x00T-1\n"...),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFooter(bytes.NewReader(in))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("ReadFooter() error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestReadFooterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Eastern")
	var buf bytes.Buffer
	if err := Encode(&buf, V2, LocalTimeType{Utoff: -18000, Designation: "EST"}, "EST+05EDT,M4.1.0,M10.5.0"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFooterFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "EST+05EDT,M4.1.0,M10.5.0" {
		t.Errorf("ReadFooterFile() = %q", got)
	}

	if _, err := ReadFooterFile(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFooterFile(missing) error = %v", err)
	}
}
