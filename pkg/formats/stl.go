package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrInvalidSTLData   = errors.New("invalid STL data")
	ErrEmptySTL         = errors.New("STL contains no triangles")
)

const (
	stlHeaderSize   = 80
	stlCountSize    = 4
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + uint16 attribute
)

// STLTriangle is one facet as stored in the file.
type STLTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16 // Attribute byte count (binary only, usually 0)
}

// STL represents a parsed STL file.
type STL struct {
	Name      string // Header text (binary) or solid name (ASCII)
	Binary    bool
	Triangles []STLTriangle
}

// LoadSTL reads and parses an STL file from disk.
func LoadSTL(path string) (*STL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSTL(data)
}

// ParseSTL parses STL data, detecting the binary or ASCII variant.
// Binary files whose header happens to start with "solid" are recognized by
// their exact size.
func ParseSTL(data []byte) (*STL, error) {
	if looksBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

func looksBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+stlCountSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+stlCountSize+uint64(count)*stlTriangleSize
}

func parseBinarySTL(data []byte) (*STL, error) {
	if len(data) < stlHeaderSize+stlCountSize {
		return nil, ErrTruncatedSTLData
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if count == 0 {
		return nil, ErrEmptySTL
	}
	need := stlHeaderSize + stlCountSize + uint64(count)*stlTriangleSize
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("%w: need %d bytes for %d triangles, have %d",
			ErrTruncatedSTLData, need, count, len(data))
	}

	stl := &STL{
		Name:      strings.TrimRight(string(bytes.TrimRight(data[:stlHeaderSize], "\x00")), " "),
		Binary:    true,
		Triangles: make([]STLTriangle, count),
	}

	off := stlHeaderSize + stlCountSize
	for i := range stl.Triangles {
		rec := data[off : off+stlTriangleSize]
		tri := &stl.Triangles[i]
		tri.Normal = readVec3(rec[0:])
		for v := 0; v < 3; v++ {
			tri.Vertices[v] = readVec3(rec[12+12*v:])
		}
		tri.Attribute = binary.LittleEndian.Uint16(rec[48:])
		off += stlTriangleSize
	}

	return stl, nil
}

func readVec3(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

// asciiReader walks whitespace separated tokens of an ASCII STL.
type asciiReader struct {
	sc   *bufio.Scanner
	line int
}

func (r *asciiReader) next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return r.sc.Text(), true
}

func (r *asciiReader) expect(word string) error {
	tok, ok := r.next()
	if !ok {
		return fmt.Errorf("%w: expected %q", ErrTruncatedSTLData, word)
	}
	if !strings.EqualFold(tok, word) {
		return fmt.Errorf("%w: expected %q, got %q (token %d)", ErrInvalidSTLData, word, tok, r.line)
	}
	return nil
}

func (r *asciiReader) vec3() ([3]float32, error) {
	var v [3]float32
	for i := range v {
		tok, ok := r.next()
		if !ok {
			return v, ErrTruncatedSTLData
		}
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return v, fmt.Errorf("%w: bad number %q (token %d)", ErrInvalidSTLData, tok, r.line)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseASCIISTL(data []byte) (*STL, error) {
	// Solid name is the rest of the first line.
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(first)), "solid"))

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)
	r := &asciiReader{sc: sc}

	stl := &STL{Name: name}

	// Skip "solid" and the name tokens.
	for {
		tok, ok := r.next()
		if !ok {
			return nil, ErrTruncatedSTLData
		}
		if strings.EqualFold(tok, "facet") {
			break
		}
		if strings.EqualFold(tok, "endsolid") {
			return nil, ErrEmptySTL
		}
	}

	for {
		tri, err := r.facet()
		if err != nil {
			return nil, err
		}
		stl.Triangles = append(stl.Triangles, tri)

		tok, ok := r.next()
		if !ok || strings.EqualFold(tok, "endsolid") {
			break
		}
		if !strings.EqualFold(tok, "facet") {
			return nil, fmt.Errorf("%w: expected \"facet\", got %q (token %d)", ErrInvalidSTLData, tok, r.line)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(stl.Triangles) == 0 {
		return nil, ErrEmptySTL
	}
	return stl, nil
}

// facet parses one facet body; the leading "facet" token is already consumed.
func (r *asciiReader) facet() (STLTriangle, error) {
	var tri STLTriangle
	var err error

	if err = r.expect("normal"); err != nil {
		return tri, err
	}
	if tri.Normal, err = r.vec3(); err != nil {
		return tri, err
	}
	if err = r.expect("outer"); err != nil {
		return tri, err
	}
	if err = r.expect("loop"); err != nil {
		return tri, err
	}
	for v := 0; v < 3; v++ {
		if err = r.expect("vertex"); err != nil {
			return tri, err
		}
		if tri.Vertices[v], err = r.vec3(); err != nil {
			return tri, err
		}
	}
	if err = r.expect("endloop"); err != nil {
		return tri, err
	}
	if err = r.expect("endfacet"); err != nil {
		return tri, err
	}
	return tri, nil
}
