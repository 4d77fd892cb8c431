package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName   string `json:"appname"`
	AppEnv    string `json:"appenv"`
	AppPort   uint16 `json:"appport"`
	GinMode   string `json:"ginmode"`
	DBHost    string `json:"dbhost"`
	DBPort    uint16 `json:"dbport"`
	DBName    string `json:"dbname"`
	DBUser    string `json:"dbuser"`
	DBPass    string `json:"dbpass"`
	RedisAddr string `json:"redisaddr"`
	RedisPass string `json:"redispass"`
	RedisDB   int    `json:"redisdb"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env file is acceptable; values may come from the real environment.
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
		redisDB, _ := strconv.Atoi(os.Getenv("REDISDB"))

		config = &Config{
			AppName:   os.Getenv("APPNAME"),
			AppEnv:    os.Getenv("APPENV"),
			AppPort:   uint16(appPort),
			GinMode:   os.Getenv("GINMODE"),
			DBHost:    os.Getenv("DBHOST"),
			DBPort:    uint16(dbPort),
			DBName:    os.Getenv("DBNAME"),
			DBUser:    os.Getenv("DBUSER"),
			DBPass:    os.Getenv("DBPASS"),
			RedisAddr: os.Getenv("REDISADDR"),
			RedisPass: os.Getenv("REDISPASS"),
			RedisDB:   redisDB,
		}
	})
	return config
}

// ConnectDatabase opens the application database. In the test environment an
// in-memory SQLite database is used so the suite needs no external MySQL;
// everywhere else a MySQL connection is built from the loaded configuration.
func ConnectDatabase() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:smarthealth_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
