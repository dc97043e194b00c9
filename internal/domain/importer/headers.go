package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader pasa un encabezado a su forma comparable:
// minúsculas, sin tildes, sin espacios/guiones/puntos y sin el "*" de columna obligatoria.
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, "* ")
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.', '\t':
			return -1
		}
		return r
	}, s)
}

// defaultAliases encabezado normalizado → campos canónicos.
// "nombre" alimenta tanto firstname (clientes) como name (productos); la firma decide la entidad.
var defaultAliases = map[string][]string{
	"nombre":            {FieldFirstName, FieldName},
	"nombres":           {FieldFirstName},
	"firstname":         {FieldFirstName},
	"apellido":          {FieldLastName},
	"apellidos":         {FieldLastName},
	"lastname":          {FieldLastName},
	"email":             {FieldEmail},
	"correo":            {FieldEmail},
	"correoelectronico": {FieldEmail},
	"mail":              {FieldEmail},
	"telefono":          {FieldPhone},
	"celular":           {FieldPhone},
	"phone":             {FieldPhone},
	"fechanacimiento":   {FieldBirthDate},
	"fechadenacimiento": {FieldBirthDate},
	"birthdate":         {FieldBirthDate},
	"dateofbirth":       {FieldBirthDate},
	"direccion":         {FieldAddress},
	"address":           {FieldAddress},
	"name":              {FieldName},
	"nombreproducto":    {FieldName},
	"productname":       {FieldName},
	"descripcion":       {FieldDescription},
	"description":       {FieldDescription},
	"sku":               {FieldSKU},
	"codigo":            {FieldSKU},
	"code":              {FieldSKU},
	"precio":            {FieldUnitPrice},
	"preciounitario":    {FieldUnitPrice},
	"preciodeventa":     {FieldUnitPrice},
	"unitprice":         {FieldUnitPrice},
	"price":             {FieldUnitPrice},
	"stock":             {FieldStock},
	"existencias":       {FieldStock},
	"inventario":        {FieldStock},
	"categoria":         {FieldCategoryID},
	"categoriaid":       {FieldCategoryID},
	"idcategoria":       {FieldCategoryID},
	"categoryid":        {FieldCategoryID},
	"referencia":        {FieldReference},
	"reference":         {FieldReference},
	"folio":             {FieldReference},
	"venta":             {FieldReference},
	"ventaid":           {FieldReference},
	"idventa":           {FieldReference},
	"saleid":            {FieldReference},
	"cliente":           {FieldClientID},
	"clienteid":         {FieldClientID},
	"idcliente":         {FieldClientID},
	"clientid":          {FieldClientID},
	"fecha":             {FieldDate},
	"fechaventa":        {FieldDate},
	"date":              {FieldDate},
	"saledate":          {FieldDate},
	"impuesto":          {FieldTaxRate},
	"tasaimpuesto":      {FieldTaxRate},
	"iva":               {FieldTaxRate},
	"taxrate":           {FieldTaxRate},
	"tax":               {FieldTaxRate},
	"metodopago":        {FieldPaymentMethod},
	"metododepago":      {FieldPaymentMethod},
	"formadepago":       {FieldPaymentMethod},
	"paymentmethod":     {FieldPaymentMethod},
	"pagado":            {FieldIsPaid},
	"ispaid":            {FieldIsPaid},
	"paid":              {FieldIsPaid},
	"notas":             {FieldNotes},
	"observaciones":     {FieldNotes},
	"notes":             {FieldNotes},
	"producto":          {FieldProductID},
	"productoid":        {FieldProductID},
	"idproducto":        {FieldProductID},
	"productid":         {FieldProductID},
	"cantidad":          {FieldQuantity},
	"quantity":          {FieldQuantity},
	"qty":               {FieldQuantity},
}

// Signature conjunto de campos canónicos que identifica una entidad.
type Signature struct {
	Type   EntityType
	Fields []string
}

// Signatures firmas en orden de prioridad: Client > Product > Sale > SaleItem.
var Signatures = []Signature{
	{Type: Client, Fields: []string{FieldFirstName, FieldLastName, FieldEmail}},
	{Type: Product, Fields: []string{FieldName, FieldUnitPrice, FieldStock}},
	{Type: Sale, Fields: []string{FieldReference, FieldClientID, FieldDate}},
	{Type: SaleItem, Fields: []string{FieldReference, FieldProductID, FieldQuantity}},
}
