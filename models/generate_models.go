package models

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Schema tooling usage:

GENERATE_MODELS=true migrates every table below (including the blog_tags join
table and the unique index on archives.name) and writes typed query helpers
to ./generated.

GENERATE_COLUMN_REPORT=true only prints the columns that exist in the
database but are not mapped by a model, e.g.

=== COLUMN MISMATCH REPORT ===
--- Table: blogs ---
Found 1 columns not accounted for in model:
  - legacy_html
*/

// All lists every persisted model in migration order
func All() []any {
	return []any{
		&Category{},
		&Tag{},
		&Archive{},
		&Blog{},
		&Comment{},
	}
}

// Migrate creates or updates the tables of every model
func Migrate(db *gorm.DB) error {
	return db.Session(&gorm.Session{SkipDefaultTransaction: true}).AutoMigrate(All()...)
}

func GenerateModels(db *gorm.DB) {
	if err := db.Exec("SELECT 1").Error; err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		fmt.Printf("Error during models migration: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database migration completed successfully!")

	GenerateColumnMismatchReport(db)

	g.Execute()
	fmt.Println("Model generation complete!")
}

// GenerateColumnMismatchReport prints the database columns that no model field maps
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			fmt.Printf("Error parsing model %T: %v\n", model, err)
			continue
		}
		tableName := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Println("Table does not exist yet (will be created during migration)")
			} else {
				fmt.Printf("Error getting columns for table %s: %v\n", tableName, err)
			}
			continue
		}

		var modelFields []string
		for _, field := range stmt.Schema.Fields {
			if field.DBName != "" {
				modelFields = append(modelFields, field.DBName)
			}
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		if len(mismatches) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Printf("  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
