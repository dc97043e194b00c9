package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clientes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunImport_DryRunYAML(t *testing.T) {
	path := writeCSV(t, "Nombre;Apellido;Email\nLuis;Gómez;luis@example.com\nMar;Ruiz;mar@example.com\n")

	var out bytes.Buffer
	err := runImport(context.Background(), &options{kind: "mixed", dryRun: true, output: "yaml"}, path, &out)
	require.NoError(t, err)

	var res dto.ImportResultResponse
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Inserted)
	assert.Empty(t, res.ErrorDetails)
}

func TestRunImport_FilasConErroresDevuelveError(t *testing.T) {
	path := writeCSV(t, "Nombre;Apellido;Email\nLuis;Gómez;sin-arroba\n")

	var out bytes.Buffer
	err := runImport(context.Background(), &options{kind: "client", dryRun: true, output: "json"}, path, &out)
	require.ErrorIs(t, err, errRowsFailed)

	var res dto.ImportResultResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &res), "el resumen se imprime aunque haya errores")
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorDetails, 1)
	assert.Equal(t, "email", res.ErrorDetails[0].Field)
}

func TestRunImport_FormatoDeSalidaInvalido(t *testing.T) {
	err := runImport(context.Background(), &options{dryRun: true, output: "xml"}, "x.csv", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTemplateCmd_EscribeXLSX(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "plantilla.xlsx")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"template", dest})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRunCmd_RequiereArchivo(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run"})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
