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
	"log/slog"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns the human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeUint
)

// PluginOption describes a single configurable option for a plugin. Dest
// must be a pointer matching the option type (e.g. *string for
// PluginOptionTypeString). Options are surfaced as command-line flags
// named <type>-<plugin>-<option> and may also be set from the environment
// via CustomEnvVar.
type PluginOption struct {
	Name         string
	Type         PluginOptionType
	Description  string
	DefaultValue any
	CustomEnvVar string
	Dest         any
}

type PluginEntry struct {
	Type        PluginType
	Name        string
	Description string
	// NewFromOptionsFunc builds the plugin from its registered option
	// destinations. The logger and prometheus registry come from the
	// caller opening the database and may be nil
	NewFromOptionsFunc func(
		logger *slog.Logger,
		promRegistry prometheus.Registerer,
	) Plugin
	Options []PluginOption
}

var pluginEntries []PluginEntry

// Register adds a plugin entry to the global registry. It's expected to be
// called from a plugin package's init()
func Register(entry PluginEntry) {
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugins returns the list of registered plugin entries for the given type
func GetPlugins(pluginType PluginType) []PluginEntry {
	var ret []PluginEntry
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin instantiates the named plugin of the given type, or returns nil
// if no such plugin is registered
func GetPlugin(
	pluginType PluginType,
	pluginName string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) Plugin {
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == pluginName {
			return entry.NewFromOptionsFunc(logger, promRegistry)
		}
	}
	return nil
}

// PopulateCmdlineOptions adds a flag for each registered plugin option to
// the given flag set. Environment variables (CustomEnvVar) take precedence
// over option defaults but not over explicit flags
func PopulateCmdlineOptions(flagSet *pflag.FlagSet) error {
	for _, entry := range pluginEntries {
		for _, option := range entry.Options {
			flagName := fmt.Sprintf(
				"%s-%s-%s",
				PluginTypeName(entry.Type),
				entry.Name,
				option.Name,
			)
			switch option.Type {
			case PluginOptionTypeString:
				dest, ok := option.Dest.(*string)
				if !ok {
					return fmt.Errorf(
						"option %s: destination is not *string",
						flagName,
					)
				}
				defaultValue, ok := option.DefaultValue.(string)
				if !ok {
					return fmt.Errorf(
						"option %s: default value is not string",
						flagName,
					)
				}
				if option.CustomEnvVar != "" {
					if envValue, ok := os.LookupEnv(option.CustomEnvVar); ok {
						defaultValue = envValue
					}
				}
				flagSet.StringVar(
					dest,
					flagName,
					defaultValue,
					option.Description,
				)
			case PluginOptionTypeBool:
				dest, ok := option.Dest.(*bool)
				if !ok {
					return fmt.Errorf(
						"option %s: destination is not *bool",
						flagName,
					)
				}
				defaultValue, ok := option.DefaultValue.(bool)
				if !ok {
					return fmt.Errorf(
						"option %s: default value is not bool",
						flagName,
					)
				}
				if option.CustomEnvVar != "" {
					if envValue, ok := os.LookupEnv(option.CustomEnvVar); ok {
						parsed, err := strconv.ParseBool(envValue)
						if err != nil {
							return fmt.Errorf(
								"option %s: invalid bool in %s: %w",
								flagName,
								option.CustomEnvVar,
								err,
							)
						}
						defaultValue = parsed
					}
				}
				flagSet.BoolVar(
					dest,
					flagName,
					defaultValue,
					option.Description,
				)
			case PluginOptionTypeUint:
				dest, ok := option.Dest.(*uint64)
				if !ok {
					return fmt.Errorf(
						"option %s: destination is not *uint64",
						flagName,
					)
				}
				defaultValue, ok := option.DefaultValue.(uint64)
				if !ok {
					return fmt.Errorf(
						"option %s: default value is not uint64",
						flagName,
					)
				}
				if option.CustomEnvVar != "" {
					if envValue, ok := os.LookupEnv(option.CustomEnvVar); ok {
						parsed, err := strconv.ParseUint(envValue, 10, 64)
						if err != nil {
							return fmt.Errorf(
								"option %s: invalid uint in %s: %w",
								flagName,
								option.CustomEnvVar,
								err,
							)
						}
						defaultValue = parsed
					}
				}
				flagSet.Uint64Var(
					dest,
					flagName,
					defaultValue,
					option.Description,
				)
			default:
				return fmt.Errorf(
					"option %s: unknown option type %d",
					flagName,
					option.Type,
				)
			}
		}
	}
	return nil
}
