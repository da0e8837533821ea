// Package report defines the messages check behaviors emit and the
// reporters that render them. Every reporter is safe for concurrent use.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// Report is a sink for check messages. GenerateFinalResult is called once,
// after every path was processed, to flush anything the reporter buffered.
type Report interface {
	Report(msg Message) error
	GenerateFinalResult() error
}

// Message is one of Typo, File, FileType, Parse, BinaryFile or Error.
type Message interface {
	Kind() string
}

// Typo is a flagged token. LineNum is 0 when the typo is in the file name,
// in which case ByteOffset is relative to Path instead of Line.
type Typo struct {
	Path        string   `json:"path"`
	LineNum     int      `json:"line_num"`
	ByteOffset  int      `json:"byte_offset"`
	Typo        string   `json:"typo"`
	Corrections []string `json:"corrections"`
	Line        []byte   `json:"-"`
}

func (Typo) Kind() string { return "typo" }

func (m Typo) MarshalJSON() ([]byte, error) {
	type plain Typo
	if m.Corrections == nil {
		m.Corrections = []string{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

// InFilename reports whether the typo was found in the path rather than the
// content.
func (m Typo) InFilename() bool { return m.LineNum == 0 }

// File announces a file that would be checked.
type File struct {
	Path string `json:"path"`
}

func (File) Kind() string { return "file" }

func (m File) MarshalJSON() ([]byte, error) {
	type plain File
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

// FileType reports the type a file resolved to.
type FileType struct {
	Path     string `json:"path"`
	FileType string `json:"file_type,omitempty"`
}

func (FileType) Kind() string { return "file_type" }

func (m FileType) MarshalJSON() ([]byte, error) {
	type plain FileType
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

// ParseKind distinguishes identifiers from words in Parse messages.
type ParseKind string

const (
	Identifier ParseKind = "identifier"
	Word       ParseKind = "word"
)

// Parse is a token produced by the tokenizer.
type Parse struct {
	Path    string    `json:"path"`
	LineNum int       `json:"line_num"`
	Token   ParseKind `json:"kind"`
	Data    string    `json:"data"`
}

func (Parse) Kind() string { return "parse" }

func (m Parse) MarshalJSON() ([]byte, error) {
	type plain Parse
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

// BinaryFile announces a file skipped because it looks binary.
type BinaryFile struct {
	Path string `json:"path"`
}

func (BinaryFile) Kind() string { return "binary_file" }

func (m BinaryFile) MarshalJSON() ([]byte, error) {
	type plain BinaryFile
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

// Error is a problem with one entry that did not stop the walk.
type Error struct {
	Path string `json:"path,omitempty"`
	Msg  string `json:"msg"`
}

func (Error) Kind() string { return "error" }

func (m Error) MarshalJSON() ([]byte, error) {
	type plain Error
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{m.Kind(), plain(m)})
}

func (m Error) String() string {
	if m.Path == "" {
		return m.Msg
	}
	return fmt.Sprintf("%s: %s", m.Path, m.Msg)
}

// ErrorFor builds an Error message from err. The file system path inside a
// *fs.PathError is dropped in favor of path.
func ErrorFor(path string, err error) Error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return Error{Path: path, Msg: pe.Op + ": " + pe.Err.Error()}
	}
	return Error{Path: path, Msg: err.Error()}
}
