package model

import (
	"fmt"
	"strconv"

	"abrino-storage/backend/common"

	"github.com/burugo/thing"
)

// Option is a runtime-mutable setting persisted in the database and mirrored
// into OptionMap. Access OptionMap through common.OptionMapRWMutex.
type Option struct {
	thing.BaseModel
	Key   string `db:"key,uniqueIndex" json:"key"`
	Value string `db:"value" json:"value"`
}

func (o *Option) TableName() string {
	return "options"
}

var OptionMap map[string]string

var OptionDB *thing.Thing[*Option]

func OptionInit() error {
	var err error
	OptionDB, err = thing.Use[*Option]()
	if err != nil {
		return fmt.Errorf("failed to initialize OptionDB: %w", err)
	}
	return nil
}

func InitOptionMapFromDB() error {
	common.OptionMapRWMutex.Lock()
	OptionMap = map[string]string{
		"RegistrationEnabled": strconv.FormatBool(common.RegisterEnabled),
	}
	common.OptionMapRWMutex.Unlock()

	options, err := OptionDB.Query(thing.QueryParams{}).Fetch(0, 1000)
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}
	for _, option := range options {
		updateOptionMapValue(option.Key, option.Value)
	}
	common.SysLog("options loaded from database")
	return nil
}

func AllOptions() ([]*Option, error) {
	return OptionDB.Query(thing.QueryParams{}).Fetch(0, 1000)
}

func UpdateOption(key string, value string) error {
	options, err := OptionDB.Where("key = ?", key).Fetch(0, 1)
	if err != nil {
		return err
	}
	var option *Option
	if len(options) > 0 {
		option = options[0]
	} else {
		option = &Option{Key: key}
	}
	option.Value = value
	if err := OptionDB.Save(option); err != nil {
		return err
	}
	updateOptionMapValue(key, value)
	return nil
}

func updateOptionMapValue(key string, value string) {
	common.OptionMapRWMutex.Lock()
	defer common.OptionMapRWMutex.Unlock()
	if OptionMap == nil {
		OptionMap = make(map[string]string)
	}
	OptionMap[key] = value
	switch key {
	case "RegistrationEnabled":
		common.RegisterEnabled = value == "true"
	}
}
