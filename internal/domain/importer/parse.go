package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de fecha aceptados en celdas de texto.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
}

// Origen de los números de serie de Excel (sistema 1900, con el bisiesto ficticio de 1900).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Entero con separadores de miles en grupos de tres, un solo tipo de separador:
// 1.000, -12,500, 1.234.567.
var groupedInt = regexp.MustCompile(`^-?[1-9]\d{0,2}(?:(?:,\d{3})+|(?:\.\d{3})+)$`)

// ParseDecimal interpreta importes como "1234.5", "1.234,50", "1,234.50", "$ 25" o "25,5".
//
// Con ambos separadores, el último es el decimal. Una coma sola seguida de exactamente
// tres dígitos es de miles ("1,000"); si no, es decimal ("25,5"). Un punto solo es decimal
// (así llegan los valores numéricos de Excel), salvo la forma "1.000" con tres ceros, que
// es el millar escrito a mano. Separadores repetidos siempre son de miles.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("valor vacío")
	}
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,50
		if commas > 1 {
			return decimal.Zero, fmt.Errorf("%q no es un número", s)
		}
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.50
		if dots > 1 {
			return decimal.Zero, fmt.Errorf("%q no es un número", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	case groupedInt.MatchString(s) && (commas+dots > 1 || commas == 1 || strings.HasSuffix(s, ".000")):
		s = strings.NewReplacer(",", "", ".", "").Replace(s)
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1 || dots > 1:
		return decimal.Zero, fmt.Errorf("%q no es un número", s)
	}
	return decimal.NewFromString(s)
}

// ParseInt acepta enteros, enteros con separadores de miles ("1.000", "1,000") y
// decimales sin parte fraccionaria ("3.0"). Nunca trunca: "1.5" es error.
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if groupedInt.MatchString(s) {
		return strconv.ParseInt(strings.NewReplacer(",", "", ".", "").Replace(s), 10, 64)
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("%q no es un número entero", s)
	}
	if !d.Equal(d.Truncate(0)) || !d.Truncate(0).BigInt().IsInt64() {
		return 0, fmt.Errorf("%q no es un número entero", s)
	}
	return d.IntPart(), nil
}

// ParseBool acepta true/false, si/no, 1/0 (sin distinguir mayúsculas ni tildes).
func ParseBool(s string) (bool, error) {
	switch NormalizeHeader(s) {
	case "true", "si", "s", "1", "yes", "y", "verdadero", "pagado":
		return true, nil
	case "false", "no", "n", "0", "falso":
		return false, nil
	}
	return false, fmt.Errorf("%q no es un valor booleano", s)
}

// ParseDate acepta los formatos de texto habituales o un número de serie de Excel.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		days := int(serial)
		frac := serial - float64(days)
		return excelEpoch.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour))).Truncate(time.Second), nil
	}
	return time.Time{}, fmt.Errorf("%q no es una fecha válida", s)
}
