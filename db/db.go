package db

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

const (
	txRetries    = 3
	txRetryDelay = 100 * time.Millisecond
)

func Init(mysqlDSN, sqliteFile string) {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if mysqlDSN != "" {
		db, err = gorm.Open(mysql.Open(mysqlDSN), cfg)
	} else if sqliteFile != "" {
		db, err = gorm.Open(sqlite.Open(sqliteFile), cfg)
	} else {
		panic("neither MYSQL_DSN nor SQLITE_FILE is configured")
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

// RetryTransaction runs fn inside a transaction and retries the whole unit on
// transient connectivity failures. Statements inside fn must be fast; slow I/O
// belongs outside, before the transaction is opened.
func RetryTransaction(fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txRetries; attempt++ {
		err = Instance.Transaction(fn)
		if err == nil || !isTransient(err) {
			return err
		}
		log.Printf("Transient DB error (attempt %d/%d): %v", attempt+1, txRetries, err)
		time.Sleep(txRetryDelay * time.Duration(attempt+1))
	}
	return err
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"invalid connection",
		"bad connection",
		"broken pipe",
		"i/o timeout",
		"deadlock",
		"database is locked",
		"try restarting transaction",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
