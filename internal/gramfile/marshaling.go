package gramfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelGrammarData, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelGrammarData{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelGrammarData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != FormatName {
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, FormatName)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case TypeGrammar:
		unmarshaled, err := unmarshalGrammarData(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("grammar file %q: %w", path, err)
		}
		return unmarshaled, nil
	case TypeManifest:
		// check the stack to be sure we havent recursed too far and to be sure
		// we aren't about to re-scan a circular-ref'd manifest file we've
		// already brought in.
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		unmarshaledManif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}
		manif := parseManifest(unmarshaledManif)

		// an empty manifest is only a problem for the very first one.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelGrammarData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelGrammarData{}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			unmarshaledFileData, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped, not fatal
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelGrammarData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			if unmarshaledFileData.Grammar.Start != "" {
				if unmarshaled.Grammar.Start != "" && unmarshaled.Grammar.Start != unmarshaledFileData.Grammar.Start {
					return unmarshaled, fmt.Errorf("grammar file %q: duplicate start; start has already been defined as %q", includedFilePath, unmarshaled.Grammar.Start)
				}
				unmarshaled.Grammar.Start = unmarshaledFileData.Grammar.Start
			}
			if unmarshaledFileData.Grammar.Text != "" {
				if unmarshaled.Grammar.Text != "" {
					unmarshaled.Grammar.Text += "\n;\n"
				}
				unmarshaled.Grammar.Text += unmarshaledFileData.Grammar.Text
			}
			unmarshaled.Grammar.POS = append(unmarshaled.Grammar.POS, unmarshaledFileData.Grammar.POS...)
			unmarshaled.Rules = append(unmarshaled.Rules, unmarshaledFileData.Rules...)
			unmarshaled.Samples = append(unmarshaled.Samples, unmarshaledFileData.Samples...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			// first file was a manifest and it gave no valid definitions
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelGrammarData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either %q or %q", path, TypeGrammar, TypeManifest)
	}
}

// unmarshalGrammarData unmarshals grammar data from the given bytes. It does
// not parse or check the grammar.
func unmarshalGrammarData(tomlData []byte) (topLevelGrammarData, error) {
	var egf topLevelGrammarData
	if tomlErr := toml.Unmarshal(tomlData, &egf); tomlErr != nil {
		return egf, tomlErr
	}

	if strings.ToUpper(egf.Format) != FormatName {
		return egf, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(egf.Type) != TypeGrammar {
		return egf, fmt.Errorf("in header: 'type' must exist and be set to '%s'", TypeGrammar)
	}

	return egf, nil
}

// unmarshalManifest unmarshals an EGF manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var egf topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &egf); tomlErr != nil {
		return egf, tomlErr
	}

	if strings.ToUpper(egf.Format) != FormatName {
		return egf, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(egf.Type) != TypeManifest {
		return egf, fmt.Errorf("in header: 'type' must exist and be set to '%s'", TypeManifest)
	}

	return egf, nil
}

func marshalGrammarData(egf topLevelGrammarData) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(egf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
