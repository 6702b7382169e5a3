package providers

import (
	"fmt"
	"fvm/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "./data/fvm.dat")
	v.SetDefault("storage.key", "familyVendingMachine")
	v.SetDefault("storage.version", "2.0")
	v.SetDefault("storage.quotaBytes", 5*1024*1024)
	v.SetDefault("storage.autoSave", true)
	v.SetDefault("storage.autoSaveDelay", time.Second)
	v.SetDefault("storage.backupInterval", 30*time.Minute)

	v.SetDefault("machine.maxButtons", 12)
	v.SetDefault("machine.maxNameLength", 20)
	v.SetDefault("machine.maxTextLength", 15)
	v.SetDefault("machine.defaultEmoji", "😊")

	v.SetDefault("share.baseURL", "http://localhost:8080/")
	v.SetDefault("share.qrApiURL", "https://api.qrserver.com/v1/create-qr-code/")
	v.SetDefault("share.qrSize", 200)
	v.SetDefault("share.qrMargin", 10)
	v.SetDefault("share.qrTimeout", 5*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")

	v.SetDefault("cache.ttl", 10*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "FVM_LOG_LEVEL")
	v.BindEnv("storage.driver", "FVM_STORAGE_DRIVER")
	v.BindEnv("storage.path", "FVM_STORAGE_PATH")
	v.BindEnv("storage.autoSaveDelay", "FVM_AUTOSAVE_DELAY")
	v.BindEnv("cache.enabled", "FVM_CACHE_ENABLED")
	v.BindEnv("cache.size", "FVM_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "FamilyVendingMachine"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
