package database

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// GetDBDriver returns the current database driver.
func GetDBDriver() string {
	// In test mode, prefer TEST_ prefixed environment variables
	driver := os.Getenv("TEST_DB_DRIVER")
	if driver == "" {
		driver = os.Getenv("DB_DRIVER")
	}
	if driver == "" {
		driver = "postgres"
	}
	return strings.ToLower(driver)
}

// IsMySQL returns true if using MySQL/MariaDB.
func IsMySQL() bool {
	driver := GetDBDriver()
	return driver == "mysql" || driver == "mariadb"
}

// IsPostgreSQL returns true if using PostgreSQL.
func IsPostgreSQL() bool {
	return GetDBDriver() == "postgres"
}

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

// ConvertPlaceholders converts SQL placeholders to the format required by the
// current database. This is the only function that should be used for
// placeholder conversion in the codebase.
//
// Only ? placeholders are allowed. Using $N placeholders will panic.
// - For PostgreSQL: ? -> $1, $2, ...
// - For MySQL: ? passed through as-is
//
// Example:
//
//	query := database.ConvertPlaceholders("SELECT * FROM users WHERE id = ?")
//	row := db.QueryRow(query, id)
func ConvertPlaceholders(query string) string {
	if dollarPlaceholder.MatchString(query) {
		panic(fmt.Sprintf("ConvertPlaceholders: $N placeholders are not allowed. Use ? placeholders instead.\nQuery: %s", query))
	}

	if IsMySQL() {
		return query
	}

	if !strings.Contains(query, "?") {
		return query
	}

	result := strings.Builder{}
	paramNum := 1
	for _, c := range query {
		if c == '?' {
			result.WriteString(fmt.Sprintf("$%d", paramNum))
			paramNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
