package configparser

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrNoFilePath   = errors.New("no file path provided")
	ErrInvalidState = errors.New("destination must be a non-nil pointer to struct")
)

// LoadAndParseYaml exports the YAML file into the environment and then fills
// dst from its `env` and `default` struct tags. A missing file is not an error:
// environment variables and defaults still apply.
func LoadAndParseYaml(filepath string, dst any) error {
	if err := LoadYamlFile(filepath); err != nil {
		if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrNoFilePath) {
			return err
		}
	}

	return ParseEnv(dst)
}

// LoadYamlFile reads a YAML file and loads variables into the environment.
// Nested keys are joined with underscores and upper-cased:
//
//	database:
//	  host: localhost   ->  DATABASE_HOST=localhost
//
// Variables that are already set win over file values.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	if _, err := os.Stat(filepath); err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read YAML file: %w", err)
	}

	for _, key := range v.AllKeys() {
		value := expandDefault(strings.TrimSpace(v.GetString(key)))
		if value == "" {
			continue
		}

		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if os.Getenv(envKey) != "" {
			continue
		}
		if err := os.Setenv(envKey, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", envKey, err)
		}
	}

	return nil
}

// expandDefault handles the ${VAR:-default} substitution syntax.
func expandDefault(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") || !strings.Contains(value, ":-") {
		return value
	}

	inner := value[2 : len(value)-1]
	parts := strings.SplitN(inner, ":-", 2)
	if envValue := os.Getenv(strings.TrimSpace(parts[0])); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(parts[1])
}

var durationType = reflect.TypeOf(time.Duration(0))

// ParseEnv fills exported fields of the struct pointed to by dst. Nested
// structs are walked recursively.
func ParseEnv(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidState
	}
	return parseStruct(rv.Elem())
}

func parseStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		if !field.IsExported() {
			continue
		}

		envKey, hasEnv := field.Tag.Lookup("env")
		if !hasEnv {
			if fv.Kind() == reflect.Struct && field.Type != durationType {
				if err := parseStruct(fv); err != nil {
					return err
				}
			}
			continue
		}

		raw := os.Getenv(envKey)
		if raw == "" {
			raw = field.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := setValue(fv, raw); err != nil {
			return fmt.Errorf("%s (%s): %w", field.Name, envKey, err)
		}
	}
	return nil
}

func setValue(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", fv.Type())
		}
		parts := strings.Split(raw, ",")
		out := reflect.MakeSlice(fv.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(fv.Type().Elem()))
			}
		}
		fv.Set(out)
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
