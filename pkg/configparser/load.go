package configparser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadAndParseYaml exports the YAML file at filepath into the environment and decodes
// the environment into cfg using `env:"NAME,default=..."` struct tags.
// A missing file is not an error: defaults and the real environment still apply.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrNoFilePath) {
		return err
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("could not decode environment: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file without overriding the environment.
func LoadDotEnv(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}
	if err := godotenv.Load(filepath); err != nil {
		return fmt.Errorf("could not load env file: %w", err)
	}
	return nil
}

// LoadYamlFile reads a YAML file and loads its scalar leaves into the environment.
// Nested keys are joined with "_" and upper-cased, so
//
//	database:
//	  host: localhost
//
// becomes DATABASE_HOST=localhost. Variables already set in the environment are kept.
// Values of the form ${VAR:-default} resolve to $VAR when set, otherwise to default.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten("", tree, vars)

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, vars[key]); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		fullKey := strings.ToUpper(key)
		if prefix != "" {
			fullKey = prefix + "_" + fullKey
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(fullKey, v, out)
		case nil:
			// "key:" with no value does not represent a variable
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			out[fullKey] = strings.Join(items, ",")
		default:
			out[fullKey] = expandDefault(fmt.Sprint(v))
		}
	}
}

// expandDefault resolves the ${VAR:-default} syntax.
func expandDefault(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") || !strings.Contains(value, ":-") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, ok := strings.Cut(inner, ":-")
	if !ok {
		return value
	}

	if envValue := os.Getenv(strings.TrimSpace(name)); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(def)
}
