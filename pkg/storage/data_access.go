package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	magicBytes   = "NAVLMDA1"
	version      = uint32(1)
	HEADER_SLOTS = 16
	maxPayload   = int64(1) << 40
)

var (
	ErrClosed         = errors.New("data access is closed")
	ErrCorrupted      = errors.New("persisted data is corrupted")
	ErrOutOfBounds    = errors.New("position out of bounds")
	ErrUnknownVersion = errors.New("unsupported data access version")
)

type fileHeader struct {
	Magic   [8]byte
	Version uint32
	Header  [HEADER_SLOTS]int32
	Length  int64
}

// DataAccess. growable byte array with a small int32 header, persisted as
// <magic><version><header><length><payload><crc32>.
type DataAccess struct {
	name   string
	dir    *Directory
	buf    []byte
	header [HEADER_SLOTS]int32
	closed bool
}

func newDataAccess(name string, dir *Directory) *DataAccess {
	return &DataAccess{
		name: name,
		dir:  dir,
		buf:  make([]byte, 0),
	}
}

func (da *DataAccess) GetName() string {
	return da.name
}

// Create allocates bytes zeroed bytes, dropping previous content.
func (da *DataAccess) Create(bytes int64) *DataAccess {
	if bytes < 0 {
		bytes = 0
	}
	da.buf = make([]byte, bytes)
	da.header = [HEADER_SLOTS]int32{}
	da.closed = false
	return da
}

// EnsureCapacity grows the array to at least bytes and reports whether it grew.
func (da *DataAccess) EnsureCapacity(bytes int64) bool {
	if bytes <= int64(len(da.buf)) {
		return false
	}
	grown := make([]byte, bytes)
	copy(grown, da.buf)
	da.buf = grown
	return true
}

func (da *DataAccess) Capacity() int64 {
	return int64(len(da.buf))
}

func (da *DataAccess) SetShort(pos int64, v uint16) {
	binary.LittleEndian.PutUint16(da.buf[pos:pos+2], v)
}

func (da *DataAccess) GetShort(pos int64) uint16 {
	return binary.LittleEndian.Uint16(da.buf[pos : pos+2])
}

func (da *DataAccess) SetInt(pos int64, v int32) {
	binary.LittleEndian.PutUint32(da.buf[pos:pos+4], uint32(v))
}

func (da *DataAccess) GetInt(pos int64) int32 {
	return int32(binary.LittleEndian.Uint32(da.buf[pos : pos+4]))
}

func (da *DataAccess) SetByte(pos int64, v byte) {
	da.buf[pos] = v
}

func (da *DataAccess) GetByte(pos int64) byte {
	return da.buf[pos]
}

func (da *DataAccess) SetHeader(slot int, v int32) {
	da.header[slot] = v
}

func (da *DataAccess) GetHeader(slot int) int32 {
	return da.header[slot]
}

// GetBytes. the raw payload, callers must not modify it.
func (da *DataAccess) GetBytes() []byte {
	return da.buf
}

func (da *DataAccess) IsClosed() bool {
	return da.closed
}

func (da *DataAccess) Close() {
	da.buf = nil
	da.closed = true
}

// Flush persists the array. the content goes to a temporary file first and is renamed over the
// final path only after it was written completely, so readers never observe a partial file.
func (da *DataAccess) Flush() error {
	if da.closed {
		return ErrClosed
	}
	if !da.dir.IsStoring() {
		return nil
	}
	if err := da.dir.ensureExists(); err != nil {
		return err
	}

	path := da.dir.path(da.name)
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}

	hdr := fileHeader{
		Version: version,
		Header:  da.header,
		Length:  int64(len(da.buf)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(&crcWriter, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header of %s: %w", da.name, err)
	}
	if _, err := crcWriter.Write(da.buf); err != nil {
		return fmt.Errorf("write payload of %s: %w", da.name, err)
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32 of %s: %w", da.name, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", da.name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// LoadExisting reads the persisted array. it returns false without error if nothing was persisted.
func (da *DataAccess) LoadExisting() (bool, error) {
	if !da.dir.IsStoring() {
		return false, nil
	}
	f, err := os.Open(da.dir.path(da.name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(&crcReader, binary.LittleEndian, &hdr); err != nil {
		return false, fmt.Errorf("%w: read header of %s: %v", ErrCorrupted, da.name, err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return false, fmt.Errorf("%w: invalid magic bytes %q in %s", ErrCorrupted, hdr.Magic, da.name)
	}
	if hdr.Version != version {
		return false, fmt.Errorf("%w: %d in %s", ErrUnknownVersion, hdr.Version, da.name)
	}
	if hdr.Length < 0 || hdr.Length > maxPayload {
		return false, fmt.Errorf("%w: payload length %d in %s", ErrCorrupted, hdr.Length, da.name)
	}

	buf := make([]byte, hdr.Length)
	if _, err := io.ReadFull(&crcReader, buf); err != nil {
		return false, fmt.Errorf("%w: read payload of %s: %v", ErrCorrupted, da.name, err)
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return false, fmt.Errorf("%w: read CRC32 of %s: %v", ErrCorrupted, da.name, err)
	}
	if storedCRC != expectedCRC {
		return false, fmt.Errorf("%w: CRC32 mismatch in %s: stored=%08x computed=%08x", ErrCorrupted,
			da.name, storedCRC, expectedCRC)
	}

	da.buf = buf
	da.header = hdr.Header
	da.closed = false
	return true, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
