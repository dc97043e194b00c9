// Command importer carga clientes, productos y ventas desde .xlsx/.csv sin pasar por la API.
//
//	importer run ventas.xlsx --kind mixed --output yaml
//	importer run clientes.csv --dry-run
//	importer template plantilla.xlsx
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
