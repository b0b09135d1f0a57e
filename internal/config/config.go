package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Remote struct {
		ContentURL string        `mapstructure:"content_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"remote"`
	CMS struct {
		PrimaryKey       string        `mapstructure:"primary_key"`
		BackupKey        string        `mapstructure:"backup_key"`
		MaxSnapshotAge   time.Duration `mapstructure:"max_snapshot_age"`
		AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
		ShellPath        string        `mapstructure:"shell_path"`
		SiteURL          string        `mapstructure:"site_url"`
	} `mapstructure:"cms"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("remote.content_url", "http://localhost:8081/src/data/content.json")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("cms.primary_key", "portfolio_cms_content")
	v.SetDefault("cms.backup_key", "portfolio_cms_server_backup")
	v.SetDefault("cms.max_snapshot_age", 7*24*time.Hour)
	v.SetDefault("cms.autosave_interval", 30*time.Second)
	v.SetDefault("cms.site_url", "http://localhost:8080")
	v.SetDefault("storage.driver", "redis")
	v.SetDefault("redis.addr", "localhost:6379")
}

// LoadConfig reads config.yaml from the given search paths (default ".") and overlays
// environment variables.
func LoadConfig(paths ...string) (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("remote.content_url", "CONTENT_URL")
	v.BindEnv("remote.timeout", "CONTENT_TIMEOUT")
	v.BindEnv("cms.autosave_interval", "CMS_AUTOSAVE_INTERVAL")
	v.BindEnv("cms.shell_path", "CMS_SHELL_PATH")
	v.BindEnv("cms.site_url", "SITE_URL")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	err = v.Unmarshal(&cfg)
	return
}
