package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"

	"github.com/opmodel/extpack/internal/compiler"
	oerrors "github.com/opmodel/extpack/internal/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap marks the collection as a validation failure.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	// Compile the schema
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema has no #Config definition")
	}

	return &Validator{
		ctx:    ctx,
		schema: def,
	}, nil
}

// Validate validates the given configuration.
func (v *Validator) Validate(cfg *Config) error {
	value := v.ctx.Encode(cfg)
	if value.Err() != nil {
		return fmt.Errorf("encoding config: %w", value.Err())
	}

	errs := v.unify(value)
	errs = append(errs, checkSemantics(cfg)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile validates a configuration file at the given path. Unknown
// keys are reported, which the loader would otherwise drop silently.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		file, err := cueyaml.Extract(path, data)
		if err != nil {
			return ValidationErrors{{Field: path, Message: err.Error()}}
		}
		value := v.ctx.BuildFile(file)
		if value.Err() != nil {
			return ValidationErrors{{Field: path, Message: value.Err().Error()}}
		}
		if errs := v.unify(value); len(errs) > 0 {
			return errs
		}
	}

	loader := NewLoader().WithUserConfig("")
	cfg, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	return v.Validate(cfg)
}

func (v *Validator) unify(value cue.Value) ValidationErrors {
	err := v.schema.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		field := strings.TrimPrefix(strings.Join(e.Path(), "."), "#Config.")
		if field == "" {
			field = "config"
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}
	return errs
}

// checkSemantics covers rules the schema cannot express.
func checkSemantics(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.Compiler.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Compiler.Timeout); err != nil || d <= 0 {
			errs = append(errs, ValidationError{
				Field:   "compiler.timeout",
				Message: fmt.Sprintf("invalid duration %q", cfg.Compiler.Timeout),
			})
		}
	}

	if _, err := compiler.ParseLevel(cfg.Background.Level); err != nil {
		errs = append(errs, ValidationError{Field: "background.level", Message: err.Error()})
	}

	bundles := map[string]string{}
	if compilesBackground(cfg) {
		bundles[cfg.Background.Bundle] = "background.bundle"
	}
	htmls := map[string]bool{}
	for i, p := range cfg.Pages {
		field := fmt.Sprintf("pages.%d", i)
		level, err := compiler.ParseLevel(p.Level)
		if err != nil {
			errs = append(errs, ValidationError{Field: field + ".level", Message: err.Error()})
		}
		if htmls[p.HTML] {
			errs = append(errs, ValidationError{
				Field:   field + ".html",
				Message: fmt.Sprintf("page %q is listed twice", p.HTML),
			})
		}
		htmls[p.HTML] = true
		if !level.Enabled() {
			continue
		}

		bundle := p.PageBundle()
		if prev, ok := bundles[bundle]; ok {
			errs = append(errs, ValidationError{
				Field:   field + ".bundle",
				Message: fmt.Sprintf("bundle %q is already written by %s", bundle, prev),
			})
			continue
		}
		bundles[bundle] = field + ".bundle"
	}

	return errs
}

func compilesBackground(cfg *Config) bool {
	level, err := compiler.ParseLevel(cfg.Background.Level)
	return err == nil && level.Enabled()
}
