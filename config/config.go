package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/sssrecover/field"
	"github.com/vitalvas/sssrecover/radix"
	"github.com/vitalvas/sssrecover/xlogger"
)

// DefaultEnvPrefix is the prefix used by the command line tool.
const DefaultEnvPrefix = "SSS"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	// Prime is the field modulus in decimal or 0x-prefixed hex. Changing it
	// changes every reconstructed secret.
	Prime string `yaml:"prime" json:"prime"`

	// OutputBase is the radix the secret is printed in.
	OutputBase int `yaml:"output_base" json:"output_base"`

	// Verify checks shares beyond the threshold against the interpolated
	// polynomial.
	Verify bool `yaml:"verify" json:"verify"`

	// Workers caps how many input files are reconstructed at once; zero or
	// less means no cap.
	Workers int `yaml:"workers" json:"workers"`

	Logger xlogger.Config `yaml:"logger" json:"logger"`
}

func (c *Config) Default() {
	*c = Config{
		Prime:      field.DefaultPrime().String(),
		OutputBase: 10,
		Workers:    4,
	}
	c.Logger.Default()
}

type options struct {
	files     []string
	envPrefix string
}

type Option func(*options)

// WithFiles loads the named YAML or JSON files in order. Missing files are
// skipped.
func WithFiles(filenames ...string) Option {
	return func(o *options) {
		o.files = append(o.files, filenames...)
	}
}

// WithEnv applies PREFIX_* environment overrides after files.
func WithEnv(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Load builds a Config from defaults, then files, then environment, and
// validates the result.
func Load(opts ...Option) (*Config, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	conf := &Config{}
	conf.Default()

	for _, filename := range o.files {
		if err := loadFromFile(conf, filename); err != nil {
			return nil, fmt.Errorf("failed to load file %s: %w", filename, err)
		}
	}

	if o.envPrefix != "" {
		if err := loadFromEnv(conf, o.envPrefix); err != nil {
			return nil, fmt.Errorf("failed to load from environment: %w", err)
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks the modulus, output base, and logger settings.
func (c *Config) Validate() error {
	if _, err := c.Field(); err != nil {
		return err
	}

	if c.OutputBase < radix.MinBase || c.OutputBase > radix.MaxBase {
		return fmt.Errorf("%w: output_base %d outside [%d, %d]", ErrInvalidConfig, c.OutputBase, radix.MinBase, radix.MaxBase)
	}

	if _, err := xlogger.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !xlogger.ValidFormat(c.Logger.Format) {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logger.Format)
	}

	return nil
}

// Field builds the prime field named by Prime.
func (c *Config) Field() (*field.Field, error) {
	p, ok := new(big.Int).SetString(strings.TrimSpace(c.Prime), 0)
	if !ok {
		return nil, fmt.Errorf("%w: prime %q is not an integer", ErrInvalidConfig, c.Prime)
	}

	f, err := field.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: prime %s: %w", ErrInvalidConfig, c.Prime, err)
	}

	return f, nil
}

func loadFromFile(conf *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(conf)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(conf)
	default:
		return fmt.Errorf("unsupported file extension %s for file %s", ext, filename)
	}

	// An empty file leaves the current values untouched.
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// loadFromEnv walks conf and sets every field whose PREFIX_NAME variable is
// non-empty. NAME is the upper-cased yaml tag, joined with the parent names
// for nested structs; an env tag names the variable directly under the
// root prefix.
func loadFromEnv(conf *Config, prefix string) error {
	prefix = strings.ToUpper(prefix)
	return loadFromEnvRecursive(reflect.ValueOf(conf).Elem(), prefix, prefix)
}

func loadFromEnvRecursive(v reflect.Value, root, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field, fieldType := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}

		envKey := getEnvKey(fieldType, root, prefix)
		if envKey == "" {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadFromEnvRecursive(field, root, envKey); err != nil {
				return err
			}
			continue
		}

		value, ok := os.LookupEnv(envKey)
		if !ok || value == "" {
			continue
		}

		if err := setValueFromString(field, envKey, value); err != nil {
			return err
		}
	}

	return nil
}

func getEnvKey(fieldType reflect.StructField, root, prefix string) string {
	if name := tagName(fieldType.Tag.Get("env")); name != "" {
		if name == "-" {
			return ""
		}
		return root + "_" + strings.ToUpper(name)
	}

	name := tagName(fieldType.Tag.Get("yaml"))
	if name == "" || name == "-" {
		return ""
	}

	return prefix + "_" + strings.ToUpper(name)
}

func tagName(tag string) string {
	return strings.Split(tag, ",")[0]
}

func setValueFromString(field reflect.Value, envKey, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", envKey, value)
		}
		field.SetBool(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil || field.OverflowInt(val) {
			return fmt.Errorf("invalid integer value for %s: %s", envKey, value)
		}
		field.SetInt(val)
	default:
		return fmt.Errorf("unsupported type %s for %s", field.Kind(), envKey)
	}

	return nil
}
