// Package importer orquesta la importación masiva: lectura de filas, clasificación,
// validación y persistencia fila a fila.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	dimporter "github.com/jhoicas/Ventas-api/internal/domain/importer"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// KindMixed clasifica cada fila por sus encabezados.
const KindMixed = "mixed"

// Config parámetros del pipeline.
type Config struct {
	DefaultTaxRate decimal.Decimal
}

// Service pipeline de importación. No guarda estado entre llamadas.
type Service struct {
	txRunner   ImportTxRunner
	readers    RowReaderFactory
	templates  TemplateWriter
	classifier *dimporter.Classifier
	cfg        Config
	log        *logger.Logger
	now        func() time.Time
}

// NewService construye el pipeline. classifier nil usa los alias por defecto.
func NewService(
	txRunner ImportTxRunner,
	readers RowReaderFactory,
	templates TemplateWriter,
	classifier *dimporter.Classifier,
	cfg Config,
	log *logger.Logger,
) *Service {
	if classifier == nil {
		classifier = dimporter.NewClassifier(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		txRunner:   txRunner,
		readers:    readers,
		templates:  templates,
		classifier: classifier,
		cfg:        cfg,
		log:        log.Named("importer"),
		now:        time.Now,
	}
}

// ParseKind interpreta el parámetro kind: vacío o "mixed" = clasificar, o un tipo fijo.
func ParseKind(kind string) (dimporter.EntityType, bool, error) {
	k := strings.TrimSpace(strings.ToLower(kind))
	if k == "" || k == KindMixed {
		return dimporter.Unknown, true, nil
	}
	t, ok := dimporter.ParseEntityType(k)
	if !ok {
		return dimporter.Unknown, false, fmt.Errorf("%w: tipo de importación desconocido %q", domain.ErrInvalidInput, kind)
	}
	return t, false, nil
}

// Import procesa todas las filas de r. Los errores de fila se acumulan en el resultado;
// solo los fallos de lectura del archivo o la cancelación del contexto abortan la llamada.
// Cada fila se confirma por separado: lo ya confirmado se conserva si la llamada se aborta.
func (s *Service) Import(ctx context.Context, r io.Reader, filename, kind string) (*dimporter.ImportResult, error) {
	fixed, mixed, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.readers.Open(r, filename)
	if err != nil {
		return nil, asStreamError(err)
	}
	defer rows.Close()

	started := s.now()
	res := &dimporter.ImportResult{ErrorList: []dimporter.ImportError{}}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, asStreamError(err)
		}
		if isBlank(raw.Cells) {
			continue
		}
		res.TotalRows++

		var row dimporter.ClassifiedRow
		if mixed {
			row = s.classifier.Classify(raw.Number, raw.Cells)
		} else {
			row = s.classifier.Tag(raw.Number, raw.Cells, fixed)
		}
		row.Sheet = raw.Sheet

		if errs := dimporter.ValidateAt(row, s.now()); len(errs) > 0 {
			s.fail(res, errs...)
			continue
		}

		created, err := s.persist(ctx, row)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.fail(res, rowError(row, err))
			continue
		}
		if created {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	s.log.Info().
		Str("file", filename).
		Str("kind", string(fixed)).
		Bool("mixed", mixed).
		Int("total_rows", res.TotalRows).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("errors", res.Errors).
		Dur("elapsed", s.now().Sub(started)).
		Msg("importación finalizada")
	return res, nil
}

// fail registra una fila fallida con todos sus errores.
func (s *Service) fail(res *dimporter.ImportResult, errs ...dimporter.ImportError) {
	res.Errors++
	res.ErrorList = append(res.ErrorList, errs...)
	for _, e := range errs {
		s.log.Debug().Int("row", e.Row).Str("sheet", e.Sheet).Str("field", e.Field).Msg(e.Message)
	}
}

// fieldError rechazo de negocio durante la persistencia atribuible a un campo.
type fieldError struct {
	field string
	msg   string
	err   error
}

func (e *fieldError) Error() string { return e.msg }
func (e *fieldError) Unwrap() error { return e.err }

func rejectField(field string, err error, format string, args ...any) error {
	return &fieldError{field: field, msg: fmt.Sprintf(format, args...), err: err}
}

func rowError(row dimporter.ClassifiedRow, err error) dimporter.ImportError {
	ie := dimporter.ImportError{Row: row.RowNumber, Sheet: row.Sheet, Field: dimporter.FieldPersistence}
	var fe *fieldError
	switch {
	case errors.As(err, &fe):
		ie.Field = fe.field
		ie.Message = fe.msg
	case errors.Is(err, domain.ErrDuplicate):
		ie.Message = "registro duplicado: " + err.Error()
	default:
		ie.Message = "no se pudo guardar la fila: " + err.Error()
	}
	return ie
}

func asStreamError(err error) error {
	if errors.Is(err, domain.ErrUnreadableStream) || errors.Is(err, domain.ErrUnsupportedFormat) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUnreadableStream, err)
}

func isBlank(cells map[string]string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
