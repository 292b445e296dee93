package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string `mapstructure:"env"`
		Debug        bool   `mapstructure:"debug"`
		TestMode     bool   `mapstructure:"testmode"`
		AppName      string `mapstructure:"appname"`
		Build        string `mapstructure:"build"`
		RollbarToken string `mapstructure:"rollbartoken"`

		Server ServerConfig `mapstructure:"server"`
		Log    LogConfig    `mapstructure:"log"`
		Store  StoreConfig  `mapstructure:"store"`
	}

	ServerConfig struct {
		Host string `mapstructure:"host"`
		Port string `mapstructure:"port"`
	}

	LogConfig struct {
		Level    string `mapstructure:"level"`
		Encoding string `mapstructure:"encoding"`
	}

	// StoreConfig selects the key/value backend the repositories persist to.
	StoreConfig struct {
		Backend       string `mapstructure:"backend"` // file (default), memory, redis, postgres
		Dir           string `mapstructure:"dir"`
		RedisAddr     string `mapstructure:"redisaddr"`
		RedisPassword string `mapstructure:"redispassword"`
		RedisDB       int    `mapstructure:"redisdb"`
		PostgresDSN   string `mapstructure:"postgresdsn"`
	}
)

func (c ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// LoadConfig reads the configuration from defaults, an optional `config/.env.<env>` file under workDir
// and the environment. Env vars are prefixed with the upper-cased env name, eg. DEV_STORE_BACKEND.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", env)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testmode", env == "TEST")
	v.SetDefault("appname", "gradecalc")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbartoken", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", defaultStoreDir())
	v.SetDefault("store.redisaddr", "")
	v.SetDefault("store.redispassword", "")
	v.SetDefault("store.redisdb", 0)
	v.SetDefault("store.postgresdsn", "")

	// load .env if it exists (ignore if it does not)
	if workDir != "" {
		dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
		}
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	return conf, nil
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gradecalc")
	}
	return ".gradecalc"
}
