// Package fileutils provides the file operations of the conversion pipeline:
// reading an export as text and writing output in one atomic step.
package fileutils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fjacquet/settle2qif/internal/parsererror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Supported input encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

// PermissionFile is the mode of files written by WriteFileAtomic.
const PermissionFile = 0644

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// IsSupportedEncoding reports whether name is one of the known input encodings.
func IsSupportedEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}

// lookupEncoding returns the decoder for name; nil means UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		return nil, nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252, nil
	case EncodingISO88591, "latin1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ReadText reads filePath and decodes it to a UTF-8 string.
// A missing file yields a *parsererror.MissingInputFileError and invalid
// bytes for enc a *parsererror.EncodingError. A leading UTF-8 byte-order
// mark is dropped.
func ReadText(filePath, enc string) (string, error) {
	decoder, err := lookupEncoding(enc)
	if err != nil {
		return "", &parsererror.ConfigError{Key: "input.encoding", Reason: err.Error()}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &parsererror.MissingInputFileError{FilePath: filePath}
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if decoder == nil {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", &parsererror.EncodingError{
				FilePath: filePath,
				Encoding: EncodingUTF8,
				Err:      errors.New("invalid UTF-8 byte sequence"),
			}
		}
		return string(data), nil
	}

	decoded, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return "", &parsererror.EncodingError{FilePath: filePath, Encoding: enc, Err: err}
	}
	return string(decoded), nil
}

// WriteFileAtomic writes data to filePath through a temporary file in the
// same directory that is renamed into place once fully written. On failure
// filePath is left untouched and the temporary file is removed.
func WriteFileAtomic(filePath string, data []byte) (err error) {
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Chmod(tmpName, PermissionFile); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
