package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_categories_table.sql",
		"00003_create_products_table.sql",
		"00004_create_cart_items_table.sql",
		"00005_create_wishlist_items_table.sql",
		"00006_create_orders_table.sql",
		"00007_create_order_items_table.sql",
		"00008_create_ratings_table.sql",
		"00009_create_contact_messages_table.sql",
		"00010_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementBegin") {
			t.Errorf("Migration file %s missing '-- +goose StatementBegin' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose StatementEnd") {
			t.Errorf("Migration file %s missing '-- +goose StatementEnd' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	migrationsDir := "../../migrations"

	expectedTables := map[string]string{
		"users":            "00001_create_users_table.sql",
		"categories":       "00002_create_categories_table.sql",
		"products":         "00003_create_products_table.sql",
		"cart_items":       "00004_create_cart_items_table.sql",
		"wishlist_items":   "00005_create_wishlist_items_table.sql",
		"orders":           "00006_create_orders_table.sql",
		"order_items":      "00007_create_order_items_table.sql",
		"ratings":          "00008_create_ratings_table.sql",
		"contact_messages": "00009_create_contact_messages_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		createTableStmt := "CREATE TABLE IF NOT EXISTS " + tableName
		if !strings.Contains(contentStr, createTableStmt) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		dropTableStmt := "DROP TABLE IF EXISTS " + tableName
		if !strings.Contains(contentStr, dropTableStmt) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestUsersTableHasRequiredColumns(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00001_create_users_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read users migration: %v", err)
	}

	contentStr := string(content)
	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"full_name VARCHAR",
		"user_name VARCHAR",
		"email VARCHAR(255) UNIQUE",
		"password_hash VARCHAR",
		"created_at TIMESTAMP",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Users table missing required column definition: %s", column)
		}
	}
}

func TestProductsTableHasRequiredColumns(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00003_create_products_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)
	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"category_id UUID",
		"name VARCHAR",
		"price DECIMAL",
		"short_description TEXT",
		"long_description TEXT",
		"stock INTEGER",
		"features JSONB",
		"how_to_use JSONB",
		"images JSONB",
		"average_rating INTEGER",
		"total_reviews INTEGER",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required column definition: %s", column)
		}
	}

	if !strings.Contains(contentStr, "FOREIGN KEY (category_id)") {
		t.Error("Products table missing foreign key constraint to categories")
	}

	if !strings.Contains(contentStr, "ph_level >= 0 AND ph_level <= 14") {
		t.Error("Products table missing ph_level range constraint")
	}
}

func TestOrdersTableHasStatusConstraint(t *testing.T) {
	migrationsDir := "../../migrations"
	path := filepath.Join(migrationsDir, "00006_create_orders_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read orders migration: %v", err)
	}

	contentStr := string(content)

	// Status is an integer code constrained to the five lifecycle states.
	if !strings.Contains(contentStr, "status BETWEEN 1 AND 5") {
		t.Error("Orders table missing status range constraint")
	}

	if !strings.Contains(contentStr, "DEFAULT 1") {
		t.Error("Orders table status should default to pending")
	}

	// Deleting an account must not delete its order history.
	if !strings.Contains(contentStr, "ON DELETE SET NULL") {
		t.Error("Orders table user reference should null out on account deletion")
	}
}

func TestUniquePairConstraints(t *testing.T) {
	migrationsDir := "../../migrations"

	cases := map[string]string{
		"00004_create_cart_items_table.sql":     "UNIQUE (user_id, product_id)",
		"00005_create_wishlist_items_table.sql": "UNIQUE (user_id, product_id)",
		"00008_create_ratings_table.sql":        "UNIQUE (product_id, user_id)",
	}

	for file, constraint := range cases {
		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			t.Fatalf("Failed to read migration %s: %v", file, err)
		}

		if !strings.Contains(string(content), constraint) {
			t.Errorf("Migration %s missing constraint %q", file, constraint)
		}
	}
}
