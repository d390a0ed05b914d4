package scan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed options.schema.json
var optionsSchema string

const optionsSchemaURL = "https://scanflow.dev/schemas/scan-options.json"

// Options configures the agents of a scan job.
type Options struct {
	Analysis Analysis `json:"analysis"`
	Decider  Decider  `json:"decider"`
	Reuse    *Reuse   `json:"reuse,omitempty"`
}

// Analysis selects the scanners to run.
type Analysis struct {
	Bucket               bool `json:"bucket"`
	CopyrightEmailAuthor bool `json:"copyright_email_author"`
	ECC                  bool `json:"ecc"`
	Keyword              bool `json:"keyword"`
	Mime                 bool `json:"mime"`
	Monk                 bool `json:"monk"`
	Nomos                bool `json:"nomos"`
	Ojo                  bool `json:"ojo"`
	Package              bool `json:"package"`
}

// Decider selects the automatic conclusions drawn from scanner findings.
type Decider struct {
	NomosMonk  bool `json:"nomos_monk"`
	BulkReused bool `json:"bulk_reused"`
	NewScanner bool `json:"new_scanner"`
	OjoDecider bool `json:"ojo_decider"`
}

// Reuse seeds the scan with the conclusions of a previous upload.
type Reuse struct {
	Upload    int    `json:"reuse_upload"`
	Group     string `json:"reuse_group"`
	Main      bool   `json:"reuse_main"`
	Enhanced  bool   `json:"reuse_enhanced"`
	Report    bool   `json:"reuse_report"`
	Copyright bool   `json:"reuse_copyright"`
}

// DefaultOptions returns the options used for plain scans.
func DefaultOptions() Options {
	return Options{
		Analysis: Analysis{
			Bucket:               true,
			CopyrightEmailAuthor: true,
			ECC:                  true,
			Keyword:              true,
			Mime:                 true,
			Monk:                 true,
			Nomos:                true,
			Ojo:                  true,
			Package:              true,
		},
		Decider: Decider{
			NomosMonk:  true,
			BulkReused: true,
			NewScanner: true,
			OjoDecider: true,
		},
	}
}

// WithReuse returns a copy of o that reuses the conclusions of baseline.
func (o Options) WithReuse(baseline Baseline) Options {
	o.Reuse = &Reuse{
		Upload:    baseline.UploadID,
		Group:     baseline.Group,
		Main:      true,
		Enhanced:  true,
		Report:    true,
		Copyright: true,
	}
	o.Decider.BulkReused = true
	return o
}

// LoadOptions reads options from a JSON file and validates them against the options schema.
func LoadOptions(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read scan options: %w", err)
	}
	return ParseOptions(b)
}

// ParseOptions validates b against the options schema and decodes it.
func ParseOptions(b []byte) (Options, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Options{}, fmt.Errorf("scan options are not valid JSON: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return Options{}, err
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return Options{}, fmt.Errorf("invalid scan options: %s", strings.Join(rootCauses(verr), "; "))
		}
		return Options{}, err
	}

	var o Options
	if err := json.Unmarshal(b, &o); err != nil {
		return Options{}, err
	}
	return o, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(optionsSchemaURL, strings.NewReader(optionsSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(optionsSchemaURL)
}

// rootCauses flattens a validation error into the messages of its leaves.
func rootCauses(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := verr.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Message)}
	}

	var msgs []string
	for _, c := range verr.Causes {
		msgs = append(msgs, rootCauses(c)...)
	}
	return msgs
}
