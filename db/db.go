package db

import (
	"artists/config"
	"artists/notifications"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var dialector gorm.Dialector
	if config.MYSQL_DSN != "" {
		dialector = mysql.Open(config.MYSQL_DSN)
	} else if config.SQLITE_FILE != "" {
		dialector = sqlite.Open(config.SQLITE_FILE)
	} else {
		panic("no database configured: set MYSQL_DSN or SQLITE_FILE")
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

// Transaction runs fn inside one database transaction with a notification
// queue attached. Queued notifications are broadcast only after the
// transaction commits; on rollback they are dropped.
func Transaction(fn func(tx *gorm.DB, events *notifications.Queue) error) error {
	events := notifications.NewQueue()
	err := Instance.Transaction(func(tx *gorm.DB) error {
		return fn(tx, events)
	})
	if err != nil {
		events.Discard()
		return err
	}
	events.Flush()
	return nil
}
