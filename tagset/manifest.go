package tagset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quiverbridge/ptrreg"
	"github.com/quiverbridge/ptrreg/errors"
	"github.com/quiverbridge/ptrreg/registry"
)

// validate is a package-level singleton; constructing a validator per call
// is expensive.
var validate = validator.New()

// TagDef declares one tag and optionally its direct parent. A definition
// without a parent just introduces the name; one with a parent becomes a
// subtag edge. Tag names must not contain the wrapped-value separator.
type TagDef struct {
	Tag    string `yaml:"tag" json:"tag" jsonschema:"description=Tag name" validate:"required,excludesall=^"`
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty" jsonschema:"description=Direct supertag" validate:"omitempty,excludesall=^"`
}

// PinDef pins one well-known address at load time. The address is hex text
// with an optional 0x prefix; the tag is cosmetic, as for Registry.Pin.
type PinDef struct {
	Addr string `yaml:"addr" json:"addr" jsonschema:"description=Hex address to pin" validate:"required,hexadecimal"`
	Tag  string `yaml:"tag,omitempty" json:"tag,omitempty" jsonschema:"description=Display tag" validate:"omitempty,excludesall=^"`
}

// Manifest is a declarative tag hierarchy plus startup pins.
type Manifest struct {
	Version int      `yaml:"version" json:"version" jsonschema:"description=Manifest format version" validate:"required,eq=1"`
	Tags    []TagDef `yaml:"tags,omitempty" json:"tags,omitempty" validate:"omitempty,dive"`
	Pins    []PinDef `yaml:"pins,omitempty" json:"pins,omitempty" validate:"omitempty,dive"`
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidData(errors.OpManifest, "undecodable manifest", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, errors.Validation(errors.OpManifest, "manifest failed validation", err)
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidData(errors.OpManifest, fmt.Sprintf("cannot read manifest %s", path), err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	Logger().Debug("manifest loaded",
		zap.String("path", path),
		zap.Int("tags", len(m.Tags)),
		zap.Int("pins", len(m.Pins)))
	return m, nil
}

// Apply replays the manifest onto a registry: subtag edges in document
// order, then pins. The first failing entry aborts the replay, leaving
// earlier entries applied.
func (m *Manifest) Apply(reg *registry.Registry) error {
	for _, def := range m.Tags {
		if err := reg.DefineSubtag(ptrreg.Tag(def.Tag), ptrreg.Tag(def.Parent)); err != nil {
			return err
		}
	}
	for _, pin := range m.Pins {
		addr, err := ptrreg.ParseAddr(pin.Addr)
		if err != nil {
			return err
		}
		if _, err := reg.Pin(addr, ptrreg.Tag(pin.Tag)); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns the JSON Schema for the manifest format, for editor and
// CI validation of documents outside this library.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Manifest{})
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.InvalidData(errors.OpManifest, "cannot marshal manifest schema", err)
	}
	return out, nil
}
