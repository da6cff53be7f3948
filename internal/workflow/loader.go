package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/fsutil"
)

// DefinitionExtensions lists the workflow file formats the loader accepts
var DefinitionExtensions = []string{".yaml", ".yml", ".json", ".plist"}

// Load reads a workflow definition file and deserializes it into a Workflow.
// It fails on missing files, unreadable content, and structural mismatches
// (wrong types, non-sequence steps). Semantic checks are left to Validate:
// a syntactically well-formed but semantically broken definition loads fine.
//
// Variable names are case-sensitive, so decoding preserves env key casing in
// every format.
func Load(path string) (*Workflow, error) {
	if !fsutil.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", errors.ErrWorkflowNotFound, path)
	}

	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrFileReadError, path, err.Error())
	}

	wf := &Workflow{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, wf)
	case ".json":
		err = json.Unmarshal(data, wf)
	case ".plist":
		err = decodePlist(data, wf)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrWorkflowMalformed, path, err.Error())
	}

	wf.SourcePath = path
	return wf, nil
}

// decodePlist handles property list definitions: howett.net/plist decodes
// into a generic map, mapstructure maps that onto the model.
func decodePlist(data []byte, wf *Workflow) error {
	var raw map[string]interface{}
	if err := plist.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           wf,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}
