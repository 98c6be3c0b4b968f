package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Staff    StaffConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		AllowOrigins    []string
	}

	DatabaseConfig struct {
		Engine          string
		Host            string
		Port            int
		Name            string
		User            string
		Password        string
		AdminUser       string
		AdminPassword   string
		DisableTLS      bool
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	StaffConfig struct {
		// IDMaxAttempts is how many staff ids signup generates before giving up on collisions.
		IDMaxAttempts int
		// PinHashCost is the bcrypt cost used to hash pins.
		PinHashCost int
	}
)

func (dbConf DatabaseConfig) Address() string {
	return net.JoinHostPort(dbConf.Host, strconv.Itoa(dbConf.Port))
}

// NewConfig loads the configuration from the environment.
// Variables are prefixed with the current ENV, e.g. "DEV_DATABASE_HOST".
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("app.name", "Mahudhurio")
	conf.SetDefault("app.build", "develop")
	conf.SetDefault("app.debug", true)
	conf.SetDefault("app.testMode", false)
	conf.SetDefault("app.rollbarToken", "")

	conf.SetDefault("server.address", ":5000")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":5050")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("server.allowOrigins", []string{"*"})

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "mahudhurio")
	conf.SetDefault("database.user", "mahudhurio")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.maxOpenConns", 10)
	conf.SetDefault("database.maxIdleConns", 10)
	conf.SetDefault("database.connMaxLifetime", 5*time.Minute)

	conf.SetDefault("staff.idMaxAttempts", 5)
	conf.SetDefault("staff.pinHashCost", 10)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("app.testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("app.name"),
		Env:          env,
		Build:        conf.GetString("app.build"),
		Debug:        conf.GetBool("app.debug"),
		TestMode:     conf.GetBool("app.testMode"),
		RollbarToken: conf.GetString("app.rollbarToken"),
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
			AllowOrigins:    conf.GetStringSlice("server.allowOrigins"),
		},
		Database: DatabaseConfig{
			Engine:          conf.GetString("database.engine"),
			Host:            conf.GetString("database.host"),
			Port:            conf.GetInt("database.port"),
			Name:            conf.GetString("database.name"),
			User:            conf.GetString("database.user"),
			Password:        conf.GetString("database.password"),
			AdminUser:       conf.GetString("database.adminUser"),
			AdminPassword:   conf.GetString("database.adminPassword"),
			DisableTLS:      conf.GetBool("database.disableTLS"),
			MaxOpenConns:    conf.GetInt("database.maxOpenConns"),
			MaxIdleConns:    conf.GetInt("database.maxIdleConns"),
			ConnMaxLifetime: conf.GetDuration("database.connMaxLifetime"),
		},
		Staff: StaffConfig{
			IDMaxAttempts: conf.GetInt("staff.idMaxAttempts"),
			PinHashCost:   conf.GetInt("staff.pinHashCost"),
		},
	}
}
