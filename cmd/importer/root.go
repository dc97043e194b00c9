package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/internal/bootstrap"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// errRowsFailed la importación terminó pero con filas rechazadas.
var errRowsFailed = errors.New("hay filas con errores")

type options struct {
	kind    string
	dryRun  bool
	output  string
	aliases string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "importer",
		Short:         "Importación masiva de clientes, productos y ventas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log de depuración en stderr")

	run := &cobra.Command{
		Use:   "run <archivo>",
		Short: "Importa un .xlsx o .csv",
		Long: `Importa un .xlsx o .csv. Con --kind mixed (por defecto) cada fila se clasifica
por sus encabezados; también se puede forzar client, product, sale o saleitem.
Sale con código distinto de cero si alguna fila fue rechazada.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}
	run.Flags().StringVarP(&opts.kind, "kind", "k", importer.KindMixed, "mixed | client | product | sale | saleitem")
	run.Flags().BoolVar(&opts.dryRun, "dry-run", false, "valida y persiste en memoria sin tocar la base de datos")
	run.Flags().StringVarP(&opts.output, "output", "o", "yaml", "formato del resumen: yaml | json")
	run.Flags().StringVar(&opts.aliases, "aliases", "", "YAML con alias adicionales de encabezados (sobrescribe IMPORT_ALIASES_FILE)")

	template := &cobra.Command{
		Use:   "template [destino]",
		Short: "Escribe la plantilla de importación",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := importer.TemplateFilename
			if len(args) == 1 {
				dest = args[0]
			}
			return writeTemplate(dest)
		},
	}

	root.AddCommand(run, template)
	return root
}

func runImport(ctx context.Context, opts *options, path string, out io.Writer) error {
	if opts.output != "yaml" && opts.output != "json" {
		return fmt.Errorf("--output debe ser yaml o json, no %q", opts.output)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger(opts.verbose)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	backend := bootstrap.Memory()
	if !opts.dryRun {
		if backend, err = bootstrap.Open(ctx, cfg, log); err != nil {
			return err
		}
	}
	defer backend.Close()

	svc, err := bootstrap.Importer(backend, cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := svc.Import(ctx, f, filepath.Base(path), opts.kind)
	if err != nil {
		return err
	}
	if err := encode(out, opts.output, dto.NewImportResultResponse(res)); err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("%w: %d de %d", errRowsFailed, res.Errors, res.TotalRows)
	}
	return nil
}

// loadConfig configuración del entorno; --aliases tiene prioridad sobre IMPORT_ALIASES_FILE.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.aliases != "" {
		cfg.Import.AliasesFile = opts.aliases
	}
	return cfg, nil
}

func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeTemplate(dest string) error {
	svc, err := bootstrap.Importer(bootstrap.Memory(), &config.Config{}, logger.Nop())
	if err != nil {
		return err
	}
	data, err := svc.Template()
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func newLogger(verbose bool) *logger.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})
}
