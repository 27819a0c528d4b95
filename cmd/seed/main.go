// seed genera un script SQL para poblar el catálogo (productos y bodegas)
// a partir del export XML del ERP anterior (Catalogo.xml).
//
// Uso: go run ./cmd/seed [ruta/Catalogo.xml]
// Por defecto busca Catalogo.xml en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Productos struct {
		Items []producto `xml:"producto"`
	} `xml:"productos"`
	Bodegas struct {
		Items []bodega `xml:"bodega"`
	} `xml:"bodegas"`
}

type producto struct {
	SKU    string `xml:"sku,attr"`
	Nombre string `xml:"nombre,attr"`
	Unidad string `xml:"unidad,attr"`
	Costo  string `xml:"costo,attr"`
}

type bodega struct {
	Nombre    string `xml:"nombre,attr"`
	Direccion string `xml:"direccion,attr"`
	WIP       string `xml:"wip,attr"`
}

func main() {
	xmlPath := "Catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var cat catalogo
	dec := xml.NewDecoder(f)
	// El ERP anterior exporta en ISO-8859-1.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&cat); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	// Deduplicar productos por SKU, la última aparición gana.
	prodMap := make(map[string]producto)
	for _, p := range cat.Productos.Items {
		sku := strings.TrimSpace(p.SKU)
		if sku == "" || strings.TrimSpace(p.Nombre) == "" {
			continue
		}
		prodMap[sku] = p
	}
	var skus []string
	for s := range prodMap {
		skus = append(skus, s)
	}
	sort.Strings(skus)

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo inicial de productos y bodegas\n")
	out.WriteString("-- Generado desde Catalogo.xml (export del ERP anterior)\n\n")

	out.WriteString("-- 1. Productos\n")
	for _, sku := range skus {
		p := prodMap[sku]
		unidad := strings.TrimSpace(p.Unidad)
		if unidad == "" {
			unidad = "UN"
		}
		costo := strings.TrimSpace(p.Costo)
		if costo == "" {
			costo = "0"
		}
		fmt.Fprintf(out, "INSERT INTO products (id, sku, name, cost, unit_measure)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', %s, '%s')\n",
			escapeSQL(sku), escapeSQL(strings.TrimSpace(p.Nombre)), costo, escapeSQL(unidad))
		out.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, cost = EXCLUDED.cost;\n")
	}

	out.WriteString("\n-- 2. Bodegas\n")
	for _, b := range cat.Bodegas.Items {
		nombre := strings.TrimSpace(b.Nombre)
		if nombre == "" {
			continue
		}
		wip := "false"
		if strings.EqualFold(strings.TrimSpace(b.WIP), "si") || b.WIP == "1" {
			wip = "true"
		}
		fmt.Fprintf(out, "INSERT INTO warehouses (id, name, address, is_wip)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), '%s', '%s', %s\n",
			escapeSQL(nombre), escapeSQL(strings.TrimSpace(b.Direccion)), wip)
		fmt.Fprintf(out, "WHERE NOT EXISTS (SELECT 1 FROM warehouses WHERE name = '%s');\n", escapeSQL(nombre))
	}

	fmt.Printf("Generado %s: %d productos, %d bodegas\n", outPath, len(skus), len(cat.Bodegas.Items))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
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
