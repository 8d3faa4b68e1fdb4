package model

import (
	"abrino-storage/backend/common"

	"github.com/burugo/thing"
	redisCache "github.com/burugo/thing/drivers/cache/redis"
	"github.com/burugo/thing/drivers/db/sqlite"
)

func createAdminAccountIfNeed() error {
	userThing, err := thing.Use[*User]()
	if err != nil {
		return err
	}
	users, err := userThing.Query(thing.QueryParams{}).Fetch(0, 1)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	email := common.AdminEmail
	password := common.AdminPassword
	if email == "" {
		email = "admin@localhost"
	}
	if password == "" {
		password = "123456"
		common.SysLog("no user exists, creating admin user " + email + " with password 123456, change it immediately")
	}
	hashedPassword, err := common.Password2Hash(password)
	if err != nil {
		return err
	}
	admin := &User{
		Email:       email,
		Password:    hashedPassword,
		DisplayName: "Admin",
		Role:        common.RoleRootUser,
		Status:      common.UserStatusEnabled,
	}
	return userThing.Save(admin)
}

var cacheClient thing.CacheClient

// CacheClient returns the cache the ORM was configured with, nil when Redis is
// not enabled. The file listing cache shares it instead of building its own.
func CacheClient() thing.CacheClient {
	return cacheClient
}

func InitDB() (err error) {
	dbAdapter, err := sqlite.NewSQLiteAdapter(common.SQLitePath)
	if err != nil {
		common.FatalLog(err)
		return err
	}
	if common.RedisEnabled && common.RDB != nil {
		cacheClient, err = redisCache.NewClient(common.RDB, nil)
		if err != nil {
			return err
		}
	}
	thing.Configure(dbAdapter, cacheClient)

	err = thing.AutoMigrate(&User{}, &File{}, &Option{})
	if err != nil {
		return err
	}

	if err := UserInit(); err != nil {
		return err
	}
	if err := FileInit(); err != nil {
		return err
	}
	if err := OptionInit(); err != nil {
		return err
	}
	// InitOptionMapFromDB must run after OptionInit and AutoMigrate.
	if err := InitOptionMapFromDB(); err != nil {
		return err
	}

	return createAdminAccountIfNeed()
}

func CloseDB() error {
	// Thing ORM does not require an explicit close.
	return nil
}
