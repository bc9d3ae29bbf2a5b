package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/gtodo.schema.json
var documentSchema []byte

const schemaURL = "https://gtodo.local/schema/document.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// DoctorReport combines schema findings on the raw document with what normalization
// would change.
type DoctorReport struct {
	Key     string  `json:"key"`
	Backend string  `json:"backend"`
	Found   bool    `json:"found"`
	Issues  []Issue `json:"issues"`

	Normalization Report `json:"normalization"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == IssueLevelError {
			return true
		}
	}
	return false
}

// CheckDocument validates raw against the document schema and runs it through Decode.
// The returned DB is the normalized document, suitable for writing back.
func CheckDocument(raw []byte) (DoctorReport, *DB) {
	rep := DoctorReport{Found: len(bytes.TrimSpace(raw)) > 0}
	if rep.Found {
		rep.Issues = append(rep.Issues, schemaIssues(raw)...)
	}
	db, norm := Decode(raw)
	rep.Normalization = norm
	for _, it := range norm.Issues {
		// A never-written key is a fresh install, not a defect.
		if it.Code == "blob_missing" {
			continue
		}
		rep.Issues = append(rep.Issues, it)
	}
	if rep.Issues == nil {
		rep.Issues = []Issue{}
	}
	return rep, db
}

func schemaIssues(raw []byte) []Issue {
	sch, err := loadSchema()
	if err != nil {
		return []Issue{{Level: IssueLevelError, Code: "schema_compile", Message: err.Error()}}
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		// Decode reports invalid_json for the same input.
		return nil
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []Issue{{Level: IssueLevelError, Code: "schema", Message: err.Error()}}
	}
	var out []Issue
	collectSchemaIssues(ve, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func collectSchemaIssues(ve *jsonschema.ValidationError, out *[]Issue) {
	if ve == nil {
		return
	}
	if len(ve.Causes) == 0 {
		*out = append(*out, Issue{
			Level:   IssueLevelError,
			Code:    "schema",
			Message: ve.Message,
			Path:    ve.InstanceLocation,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaIssues(cause, out)
	}
}

// Doctor reads the document under p.Key and checks it. With fix set, the normalized
// document is written back when anything changed.
func Doctor(ctx context.Context, p *Persistence, fix bool) (DoctorReport, error) {
	raw, err := p.ReadRaw(ctx)
	if err != nil {
		return DoctorReport{}, err
	}
	rep, db := CheckDocument(raw)
	rep.Key = p.Key
	rep.Backend = p.Backend.Name()
	if fix && len(rep.Issues) > 0 {
		if err := p.Save(ctx, db); err != nil {
			return rep, err
		}
		p.Log.WithFields(p.fields()).WithField("issues", len(rep.Issues)).Info("doctor: wrote normalized document")
	}
	return rep, nil
}
