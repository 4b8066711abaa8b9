package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	J "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaFile string

//go:embed default.yaml
var DEFAULT []byte

func readFile(ctx *cue.Context, path string) (*cue.Value, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("does not exist")
	}

	extension := filepath.Ext(path)
	switch extension {
	case ".json":
		dataFile, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dataExpr, err := J.Extract(path, dataFile)
		if err != nil {
			return nil, err
		}

		value := ctx.BuildExpr(dataExpr)
		if err := value.Err(); err != nil {
			return nil, err
		}

		return &value, nil
	case ".yaml", ".yml":
		yamlFile, err := yaml.Extract(path, nil)
		if err != nil {
			return nil, err
		}

		value := ctx.BuildFile(yamlFile)
		if err := value.Err(); err != nil {
			return nil, err
		}

		return &value, nil
	}

	return nil, fmt.Errorf(
		"not in a valid format",
	)
}

// Process reads the provided configuration files in order, compiles
// them, and unifies them with the configuration schema. If no
// configuration files are provided, the default configuration is used.
func Process(configPaths []string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaFile)
	err := schema.Err()
	if err != nil {
		return nil, err
	}

	if len(configPaths) == 0 {
		yamlFile, err := yaml.Extract("<default>", DEFAULT)
		if err != nil {
			return nil, err
		}

		value := ctx.BuildFile(yamlFile)
		if err := value.Err(); err != nil {
			return nil, err
		}

		schema = schema.Unify(value)
		if err := schema.Err(); err != nil {
			return nil, fmt.Errorf(
				"invalid default config file: %v",
				err,
			)
		}
	}

	for _, path := range configPaths {
		value, err := readFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %v",
				path,
				err,
			)
		}

		schema = schema.Unify(*value)
		if err := schema.Err(); err != nil {
			return nil, fmt.Errorf(
				"could not merge config file %s: %v",
				path,
				err,
			)
		}

		err = schema.Validate()
		if err != nil {
			return nil, fmt.Errorf(
				"config file %s is not valid: %v",
				path,
				err,
			)
		}
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}

	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf(
			"could not aggregate config: %v",
			err,
		)
	}

	config := Config{}
	err = json.Unmarshal(data, &config)
	return &config, err
}

// Ensure makes sure a usable config file exists at path: it writes the
// default config on first run, and when an existing file no longer
// validates it is moved aside to <path>.bad and regenerated. The
// second return value reports whether the file was (re)created.
func Ensure(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, DEFAULT, 0644); err != nil {
			return nil, false, err
		}

		config, err := Process(nil)
		return config, true, err
	}

	config, err := Process([]string{path})
	if err == nil {
		return config, false, nil
	}

	if err := os.Rename(path, path+".bad"); err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(path, DEFAULT, 0644); err != nil {
		return nil, false, err
	}

	config, err = Process(nil)
	return config, true, err
}
