package config

import (
	"errors"
	"io/fs"
	"strings"

	"courses/internal/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr            string
	GinMode            string
	LogLevel           string
	DB                 DBEnv
	CourseTypes        []string
	CORSAllowedOrigins []string
	JWTSecret          string
	JWTWriteRoles      []string
}

// DBEnv holds the raw connection settings; ResolveDatabase turns them into a DSN.
type DBEnv struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads .env (optional), app.env (optional) and the process environment,
// in increasing order of precedence.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}

	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_NAME", "courses")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("COURSE_TYPES", "ONLINE,PRESENCIAL")
	v.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(defaultCORSOrigins, ","))
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_WRITE_ROLES", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Env{}, err
		}
	}

	env := Env{
		AppAddr:  strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:  strings.TrimSpace(v.GetString("GIN_MODE")),
		LogLevel: strings.TrimSpace(v.GetString("LOG_LEVEL")),
		DB: DBEnv{
			Driver:       strings.TrimSpace(v.GetString("DB_DRIVER")),
			URL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
			Host:         strings.TrimSpace(v.GetString("DB_HOST")),
			Port:         strings.TrimSpace(v.GetString("DB_PORT")),
			Name:         strings.TrimSpace(v.GetString("DB_NAME")),
			User:         strings.TrimSpace(v.GetString("DB_USER")),
			Password:     v.GetString("DB_PASSWORD"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		},
		CourseTypes:        utils.SplitList(v.GetString("COURSE_TYPES")),
		CORSAllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTWriteRoles:      splitCSV(v.GetString("JWT_WRITE_ROLES")),
	}
	if env.AppAddr == "" {
		env.AppAddr = ":8080"
	}
	return env, nil
}

// splitCSV splits a comma separated list, keeping case.
func splitCSV(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
