package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL
// instance at localhost:3306 with a database named 'platefast_test';
// tests are skipped when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/platefast_test?parseTime=true&loc=UTC"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "CartItems", "Orders"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		customerId VARCHAR(64) NOT NULL,
		restaurantId VARCHAR(64) NOT NULL,
		deliveryPersonId VARCHAR(64),
		status VARCHAR(32) NOT NULL DEFAULT 'PENDING',
		totalAmount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		deliveryFee DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		deliveryAddress VARCHAR(255) NOT NULL,
		specialInstructions TEXT,
		paymentMethod VARCHAR(64) NOT NULL DEFAULT '',
		deliveryCode CHAR(6) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_restaurant (restaurantId),
		INDEX idx_delivery_person (deliveryPersonId),
		INDEX idx_status (status)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId CHAR(36) NOT NULL,
		dishId VARCHAR(64),
		menuId VARCHAR(64),
		quantity INT NOT NULL DEFAULT 1,
		unitPrice DECIMAL(10,2) NOT NULL,
		instructions TEXT,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	createCartItemsTable := `
	CREATE TABLE IF NOT EXISTS CartItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customerId VARCHAR(64) NOT NULL,
		dishId VARCHAR(64),
		menuId VARCHAR(64),
		restaurantId VARCHAR(64) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		unitPrice DECIMAL(10,2) NOT NULL,
		instructions TEXT,
		INDEX idx_customer (customerId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"CartItems", createCartItemsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
