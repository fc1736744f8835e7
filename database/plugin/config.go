// Copyright 2026 Harvest Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plugin

import (
	"fmt"
	"os"
	"strconv"
)

// pluginTypeByName maps the config-file section name to a plugin type
func pluginTypeByName(name string) (PluginType, error) {
	switch name {
	case "blob":
		return PluginTypeBlob, nil
	case "metadata":
		return PluginTypeMetadata, nil
	default:
		return 0, fmt.Errorf("unknown plugin type: %s", name)
	}
}

// ProcessConfig applies plugin option values from a parsed config file.
// The outer map is keyed by plugin type name, then plugin name, then
// option name. Values are coerced to the registered option type, since
// YAML decoding produces generic int/bool/string values
func ProcessConfig(
	pluginConfig map[string]map[string]map[string]any,
) error {
	for typeName, pluginOptions := range pluginConfig {
		pluginType, err := pluginTypeByName(typeName)
		if err != nil {
			return err
		}
		for pluginName, options := range pluginOptions {
			for optionName, value := range options {
				coerced, err := coerceOptionValue(
					pluginType,
					pluginName,
					optionName,
					value,
				)
				if err != nil {
					return err
				}
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optionName,
					coerced,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// coerceOptionValue converts a decoded config value to the registered
// option's expected Go type. Unknown options pass through unchanged and
// are handled (ignored) by SetPluginOption
func coerceOptionValue(
	pluginType PluginType,
	pluginName string,
	optionName string,
	value any,
) (any, error) {
	for _, entry := range pluginEntries {
		if entry.Type != pluginType || entry.Name != pluginName {
			continue
		}
		for _, opt := range entry.Options {
			if opt.Name != optionName {
				continue
			}
			switch opt.Type {
			case PluginOptionTypeUint:
				switch v := value.(type) {
				case uint64:
					return v, nil
				case int:
					if v < 0 {
						return nil, fmt.Errorf(
							"option %s: negative value %d",
							optionName,
							v,
						)
					}
					return uint64(v), nil
				case int64:
					if v < 0 {
						return nil, fmt.Errorf(
							"option %s: negative value %d",
							optionName,
							v,
						)
					}
					return uint64(v), nil
				}
			case PluginOptionTypeBool, PluginOptionTypeString:
				// No coercion needed, SetPluginOption type-checks
			}
			return value, nil
		}
	}
	return value, nil
}

// ProcessEnvVars applies custom environment variable overrides to all
// registered plugin options. This covers code paths that build plugin
// config without going through PopulateCmdlineOptions
func ProcessEnvVars() error {
	for _, entry := range pluginEntries {
		for _, option := range entry.Options {
			if option.CustomEnvVar == "" {
				continue
			}
			envValue, ok := os.LookupEnv(option.CustomEnvVar)
			if !ok {
				continue
			}
			var value any
			switch option.Type {
			case PluginOptionTypeString:
				value = envValue
			case PluginOptionTypeBool:
				parsed, err := strconv.ParseBool(envValue)
				if err != nil {
					return fmt.Errorf(
						"option %s: invalid bool in %s: %w",
						option.Name,
						option.CustomEnvVar,
						err,
					)
				}
				value = parsed
			case PluginOptionTypeUint:
				parsed, err := strconv.ParseUint(envValue, 10, 64)
				if err != nil {
					return fmt.Errorf(
						"option %s: invalid uint in %s: %w",
						option.Name,
						option.CustomEnvVar,
						err,
					)
				}
				value = parsed
			default:
				return fmt.Errorf(
					"option %s: unknown option type %d",
					option.Name,
					option.Type,
				)
			}
			if err := SetPluginOption(
				entry.Type,
				entry.Name,
				option.Name,
				value,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
