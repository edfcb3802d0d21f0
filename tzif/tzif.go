// Package tzif reads the footer of TZif files as specified by RFC 8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// Only the footer is of interest: it holds the POSIX TZ string that describes
// local time after the last transition. The data blocks are skipped using the
// counts from their headers.
package tzif

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// NOTE: All multi-octet integer values MUST be stored in network octet
// order format (high-order octet first, otherwise known as big-endian),
// with all bits significant.
var order = binary.BigEndian

var (
	// ErrFormat is returned for data that is not a well-formed TZif file.
	ErrFormat = errors.New("tzif: invalid format")
	// ErrNoFooter is returned for version 1 files, which end after the first data block.
	ErrNoFooter = errors.New("tzif: version 1 file has no footer")
)

// Version represents the version of a TZif file.
// In V1, time values are 32bit (four-octets) and in V2 upwards time values are 64bit (eight-octets).
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 0x00
	// V2 files add a version 2+ header, data block and footer.
	V2 Version = 0x32
	// V3 files may use the TZ string extensions of RFC 8536 Section 3.3.1.
	V3 Version = 0x33 // '3'
	// V4 is specified in the tzfile(5) man page and only changes leap second semantics.
	V4 Version = 0x34 // '4'
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Header is the header of a TZif file.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte
	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// Write writes the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader reads a header including its magic.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("%w: reading magic: %w", ErrFormat, err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, fmt.Errorf("%w: invalid magic: %q", ErrFormat, magic)
	}
	if err := binary.Read(r, order, &h); err != nil {
		return h, fmt.Errorf("%w: reading header: %w", ErrFormat, err)
	}
	return h, nil
}

// DataBlockSize returns the length in octets of the data block following h,
// where timeSize is 4 for the version 1 block and 8 for the version 2+ block.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	|  transition types          (timecnt)                    |
//	|  local time type records   (typecnt x 6)                |
//	|  time zone designations    (charcnt)                    |
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	|  standard/wall indicators  (isstdcnt)                   |
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
func (h Header) DataBlockSize(timeSize int64) int64 {
	return int64(h.Timecnt)*timeSize +
		int64(h.Timecnt) +
		int64(h.Typecnt)*6 +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*(timeSize+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
}

// Info summarizes a TZif file.
type Info struct {
	Version  Version
	V1Header Header
	V2Header Header // zero for V1 files
	TZString string // empty for V1 files
}

// Inspect reads the headers and the footer of a TZif file. Version 1 files are
// returned without error and with an empty TZString.
func Inspect(r io.Reader) (Info, error) {
	var (
		info Info
		err  error
		br   = bufio.NewReader(r)
	)
	info.V1Header, err = ReadHeader(br)
	if err != nil {
		return info, fmt.Errorf("read v1 header: %w", err)
	}
	info.Version = info.V1Header.Version
	if err := skip(br, info.V1Header.DataBlockSize(4)); err != nil {
		return info, fmt.Errorf("skip v1 data block: %w", err)
	}
	if info.Version == V1 {
		return info, nil
	}

	info.V2Header, err = ReadHeader(br)
	if err != nil {
		return info, fmt.Errorf("read v2 header: %w", err)
	}
	if info.V2Header.Version < V2 {
		return info, fmt.Errorf("%w: v2 header has version %v", ErrFormat, info.V2Header.Version)
	}
	if err := skip(br, info.V2Header.DataBlockSize(8)); err != nil {
		return info, fmt.Errorf("skip v2 data block: %w", err)
	}
	info.TZString, err = readFooter(br)
	if err != nil {
		return info, fmt.Errorf("read footer: %w", err)
	}
	return info, nil
}

func skip(r io.Reader, n int64) error {
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

// The footer is structured as follows:
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
func readFooter(r *bufio.Reader) (string, error) {
	c, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("%w: reading newline: %w", ErrFormat, err)
	}
	if c != '\n' {
		return "", fmt.Errorf("%w: expected newline, got %q", ErrFormat, c)
	}
	s, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: reading TZ string: %w", ErrFormat, err)
	}
	s = s[:len(s)-1]
	if strings.IndexByte(s, 0) >= 0 {
		return "", fmt.Errorf("%w: TZ string contains NUL", ErrFormat)
	}
	return s, nil
}

// ReadFooter returns the TZ string from the footer of a version 2+ TZif file.
// Version 1 files yield ErrNoFooter.
func ReadFooter(r io.Reader) (string, error) {
	info, err := Inspect(r)
	if err != nil {
		return "", err
	}
	if info.Version == V1 {
		return "", ErrNoFooter
	}
	return info.TZString, nil
}

// ReadFooterFile is ReadFooter for the named file.
func ReadFooterFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	tz, err := ReadFooter(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return tz, nil
}

// LocalTimeType is a local time type record with its designation resolved.
type LocalTimeType struct {
	Utoff       int32
	Dst         bool
	Designation string
}

// Encode writes a TZif file without transitions that has a single local time type
// and, for versions after V1, the given footer TZ string.
func Encode(w io.Writer, v Version, typ LocalTimeType, tz string) error {
	h := Header{
		Version: v,
		Typecnt: 1,
		Charcnt: uint32(len(typ.Designation) + 1),
	}
	block := func() error {
		if err := h.Write(w); err != nil {
			return err
		}
		if err := binary.Write(w, order, typ.Utoff); err != nil {
			return err
		}
		if err := binary.Write(w, order, typ.Dst); err != nil {
			return err
		}
		if err := binary.Write(w, order, uint8(0)); err != nil {
			return err
		}
		_, err := io.WriteString(w, typ.Designation+"\x00")
		return err
	}
	if err := block(); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if v == V1 {
		return nil
	}
	if err := block(); err != nil {
		return fmt.Errorf("write v2 data: %w", err)
	}
	if _, err := io.WriteString(w, "\n"+tz+"\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}
