// Package dberr classifies store errors shared by the repositories.
package dberr

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// IsDuplicateKey reports a unique index violation (slug or email already
// taken). gorm translates it when TranslateError is on; raw MySQL 1062 is
// matched too.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
