// seed_catalog genera un script SQL para poblar el catálogo de un negocio (grupos de categoría,
// productos, servicios y stock inicial) a partir de una exportación CSV del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog <business_id> [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual. El archivo puede venir en
// ISO-8859-1 (exportaciones de Excel); se detecta y convierte a UTF-8.
// Escribe: migrations/0002_seed_catalog.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog <business_id> [catalogo.csv]")
		os.Exit(2)
	}
	businessID := os.Args[1]
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	cat, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "0002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, businessID, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d grupos, %d productos, %d servicios, %d filas de stock\n",
		outPath, len(cat.groups), len(cat.products), len(cat.services), len(cat.stock))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
