// The analyze binary runs the consolidation engine over local
// spreadsheets, without the API server. It prints the summary as JSON
// and can export the consolidated base, apply the database schema, or
// both.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/excel"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "analyze",
		Usage: "Run the pharmacy stock analysis over local spreadsheets",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Consolidate a vendas/inventario pair and print the summary",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "vendas",
						Usage:    "Path to the vendas workbook (.xlsx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "inventario",
						Usage:    "Path to the inventario workbook (.xlsx)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write the consolidated base to this .xlsx path",
					},
					&cli.StringFlag{
						Name:  "view",
						Usage: "Export view: all, faltas or parados",
						Value: "all",
					},
					&cli.Float64Flag{
						Name:  "curva-a",
						Usage: "Minimum quantity sold for curve A",
						Value: analysis.DefaultCurveConfig.AMin,
					},
					&cli.Float64Flag{
						Name:  "curva-b",
						Usage: "Minimum quantity sold for curve B",
						Value: analysis.DefaultCurveConfig.BMin,
					},
					&cli.Float64Flag{
						Name:  "curva-c",
						Usage: "Minimum quantity sold for curve C",
						Value: analysis.DefaultCurveConfig.CMin,
					},
				},
				Action: runAnalysis,
			},
			{
				Name:  "migrate",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Path to the schema SQL file",
						Value: "./migrations/001_init.sql",
					},
				},
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAnalysis(c *cli.Context) error {
	curves, err := analysis.NewCurveConfig(c.Float64("curva-a"), c.Float64("curva-b"), c.Float64("curva-c"))
	if err != nil {
		return err
	}

	salesHeader, salesRecords, err := excel.ReadSheetFile(c.String("vendas"))
	if err != nil {
		return fmt.Errorf("vendas: %w", err)
	}
	inventoryHeader, inventoryRecords, err := excel.ReadSheetFile(c.String("inventario"))
	if err != nil {
		return fmt.Errorf("inventario: %w", err)
	}

	if err := analysis.ValidateColumns(salesHeader, inventoryHeader, len(salesRecords), len(inventoryRecords)); err != nil {
		return err
	}

	result := analysis.NewEngine(curves).Process(
		analysis.SalesRowsFromRecords(salesRecords),
		analysis.InventoryRowsFromRecords(inventoryRecords),
	)

	out, err := json.MarshalIndent(result.Summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if exportPath := c.String("export"); exportPath != "" {
		view := excel.ViewAll
		products := result.Consolidated
		switch c.String("view") {
		case "faltas":
			view = excel.ViewStockout
			products = result.Stockouts
		case "parados":
			view = excel.ViewStagnant
			products = result.Stagnant
		}

		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := excel.WriteProducts(f, products, view); err != nil {
			return err
		}
		log.Printf("exported %d products to %s", len(products), exportPath)
	}

	return nil
}

func runMigrate(c *cli.Context) error {
	schema, err := os.ReadFile(c.String("schema"))
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("schema applied")
	return nil
}
