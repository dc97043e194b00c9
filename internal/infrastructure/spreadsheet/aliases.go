package spreadsheet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile formato del archivo de alias:
//
//	aliases:
//	  quantity: ["Cant. Vendida", "Unidades"]
//	  clientid: ["Nro Cliente"]
type aliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliases lee alias adicionales de encabezados (encabezado → campo canónico).
// path vacío devuelve nil sin error.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alias: leer %s: %w", path, err)
	}
	return ParseAliases(data)
}

// ParseAliases decodifica el YAML de alias.
func ParseAliases(data []byte) (map[string]string, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("alias: yaml inválido: %w", err)
	}
	out := make(map[string]string)
	for field, headers := range f.Aliases {
		for _, h := range headers {
			out[h] = field
		}
	}
	return out, nil
}
