package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company. Every repository read goes through
// it so no record ever leaks across tenants.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
