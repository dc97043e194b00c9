package importer

import (
	"sort"
	"strings"
)

// Classifier resuelve alias de encabezados y clasifica filas. Sin estado mutable tras construirse.
type Classifier struct {
	aliases map[string][]string
}

// NewClassifier construye un clasificador con los alias por defecto más extra
// (encabezado → campo canónico). Los alias extra se suman a los existentes.
func NewClassifier(extra map[string]string) *Classifier {
	aliases := make(map[string][]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = append([]string(nil), v...)
	}
	for header, field := range extra {
		key := NormalizeHeader(header)
		canon := NormalizeHeader(field)
		if key == "" || canon == "" || contains(aliases[key], canon) {
			continue
		}
		aliases[key] = append(aliases[key], canon)
	}
	return &Classifier{aliases: aliases}
}

var defaultClassifier = NewClassifier(nil)

// Classify clasifica una fila con los alias por defecto.
func Classify(rowNumber int, raw map[string]string) ClassifiedRow {
	return defaultClassifier.Classify(rowNumber, raw)
}

// Classify normaliza los encabezados de raw y asigna la primera firma completa según prioridad.
// Los encabezados presentes cuentan aunque su celda esté vacía. Sin coincidencia → Unknown.
func (c *Classifier) Classify(rowNumber int, raw map[string]string) ClassifiedRow {
	fields, present := c.canonicalize(raw)
	row := ClassifiedRow{RowNumber: rowNumber, EntityType: Unknown, Fields: fields}
	for _, sig := range Signatures {
		if matches(sig, present) {
			row.EntityType = sig.Type
			break
		}
	}
	return row
}

// Tag etiqueta la fila con un tipo fijo (importación de una sola entidad), sin clasificar.
func (c *Classifier) Tag(rowNumber int, raw map[string]string, t EntityType) ClassifiedRow {
	fields, _ := c.canonicalize(raw)
	return ClassifiedRow{RowNumber: rowNumber, EntityType: t, Fields: fields}
}

func (c *Classifier) canonicalize(raw map[string]string) (map[string]string, map[string]bool) {
	headers := make([]string, 0, len(raw))
	for h := range raw {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	fields := make(map[string]string, len(raw))
	present := make(map[string]bool, len(raw))
	for _, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		value := strings.TrimSpace(raw[h])
		canon, ok := c.aliases[key]
		if !ok {
			canon = []string{key}
		}
		for _, f := range canon {
			present[f] = true
			// Con dos columnas para el mismo campo gana la primera no vacía.
			if fields[f] == "" {
				fields[f] = value
			}
		}
	}
	return fields, present
}

func matches(sig Signature, present map[string]bool) bool {
	for _, f := range sig.Fields {
		if !present[f] {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
