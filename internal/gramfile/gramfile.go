// Package gramfile has functions for loading grammars using the EGF (Earley
// Grammar File) format, a TOML-based format that defines a grammar along with
// sample sentences for it.
//
// Every EGF file starts with a header giving its format and type:
//
//	format = "EGF"
//	type = "GRAMMAR"
//
// A GRAMMAR file holds a [grammar] table with optional start symbol, declared
// parts of speech and rules in text notation, any number of [[rule]] tables,
// and any number of [[sample]] tables. A MANIFEST file holds a files key that
// lists further EGF files, relative to the manifest, whose contents are all
// combined.
package gramfile

import (
	"errors"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/earley/grammar"
)

// FormatName is the value of the format key in every EGF file header.
const FormatName = "EGF"

// Types of EGF file.
const (
	TypeGrammar  = "GRAMMAR"
	TypeManifest = "MANIFEST"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recusion level of
	// MaxManifestRecrusionDepth is reached and an additional Manifest is then
	// specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies any
	// series of files that with their own manifests refer back to the original
	// manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest contains data loaded from one or more EGF Manifest files.
type Manifest struct {
	Files []string
}

// Sample is an example sentence bundled with a grammar.
type Sample struct {
	// Sentence is the raw text of the sentence.
	Sentence string

	// Reject is whether the grammar is expected to reject the sentence
	// instead of accepting it.
	Reject bool
}

// Bundle contains data loaded from one or more EGF grammar files.
type Bundle struct {
	// Grammar is the combination of every grammar definition read.
	Grammar grammar.Grammar

	// Samples is every sample sentence read, in the order read.
	Samples []Sample
}

// FileInfo contains the essential information all EGF format files must
// contain. It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadBundle loads a grammar from the given EGF file. The file's type is
// auto-detected; it can either be "GRAMMAR" type or "MANIFEST" type, and if
// it's manifest type, the files listed in it relative to it are also loaded.
// All files included are combined into one single grammar before being
// checked.
func LoadBundle(path string) (Bundle, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return Bundle{}, err
	}

	return parseBundle(unmarshaled)
}

// LoadManifestFile loads manifest data from an EGF file.
func LoadManifestFile(path string) (manif Manifest, err error) {
	manifestData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return manif, loadErr
	}

	unmarshaled, err := unmarshalManifest(manifestData)
	if err != nil {
		return manif, err
	}
	return parseManifest(unmarshaled), nil
}

// LoadGrammarFile loads a single GRAMMAR type EGF file.
func LoadGrammarFile(path string) (Bundle, error) {
	data, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return Bundle{}, loadErr
	}

	return Unmarshal(data)
}

// Unmarshal reads a GRAMMAR type EGF file from its bytes.
func Unmarshal(data []byte) (Bundle, error) {
	unmarshaled, err := unmarshalGrammarData(data)
	if err != nil {
		return Bundle{}, err
	}

	return parseBundle(unmarshaled)
}

// Marshal writes b as a GRAMMAR type EGF file. Rules are written as [[rule]]
// tables.
func Marshal(b Bundle) ([]byte, error) {
	return marshalGrammarData(bundleToTopLevel(b))
}

// ScanFileInfo takes the given data bytes of bytes and attempts to read the EGF
// format common header info from it. The bytes are read up to the first
// instance of a table definition header and those bytes are parsed for the
// info. If there is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine bool = true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
