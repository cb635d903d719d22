package mcpserver

import (
	"encoding/json"
)

const (
	registrySchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	serverName     = "io.github.panbanda/tsorder"
	serverImage    = "ghcr.io/panbanda/tsorder"
)

// Manifest is the registry description (server.json) written by `tsorder mcp manifest`.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way to install and launch the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVariable documents an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders the manifest for a release. An empty version becomes 0.0.0.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	pkg := Package{
		RegistryType:     "oci",
		Identifier:       serverImage + ":" + version,
		PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
		EnvironmentVariables: []EnvVariable{{
			Name:        "TSORDER_CONFIG",
			Description: "Path to a tsorder configuration file",
		}},
		Transport: Transport{Type: "stdio"},
	}

	return json.MarshalIndent(Manifest{
		Schema:      registrySchema,
		Name:        serverName,
		Description: "Inheritance-aware TypeScript source ordering for single-output tsc builds",
		Version:     version,
		Repository:  &Repository{URL: "https://github.com/panbanda/tsorder", Source: "github"},
		Packages:    []Package{pkg},
	}, "", "  ")
}
