package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/00WhengWheng/T4G-backend/internal/auth"
)

// Config configuration complète du serveur, chargée depuis l'environnement
// (et un fichier .env optionnel à la racine)
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	Auth0 auth.Auth0Config

	// Politique de récompenses
	CoinsPerAction              int
	CountPendingChallengePoints bool

	CloudinaryURL string
}

// LoadConfig lit la configuration via viper. Les variables d'environnement
// priment sur le fichier .env.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Le fichier .env est optionnel
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file") {
				return nil, err
			}
		}
	}

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "t4g")
	v.SetDefault("AUTH0_CALLBACK_URL_USER", "http://localhost:3000/api/auth/callback/user")
	v.SetDefault("AUTH0_CALLBACK_URL_TENANT", "http://localhost:3000/api/auth/callback/tenant")
	v.SetDefault("FRONTEND_URL_USER", "https://t4g.fun")
	v.SetDefault("FRONTEND_URL_TENANT", "https://t4g.space")
	v.SetDefault("SESSION_SECRET", "default-session-secret")
	v.SetDefault("COINS_PER_ACTION", 1)
	v.SetDefault("COUNT_PENDING_CHALLENGE_POINTS", false)

	cfg := &Config{
		Port:       v.GetString("PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		Auth0: auth.Auth0Config{
			UserDomain:         v.GetString("AUTH0_USER_DOMAIN"),
			UserClientID:       v.GetString("AUTH0_USER_CLIENT_ID"),
			UserClientSecret:   v.GetString("AUTH0_USER_CLIENT_SECRET"),
			TenantDomain:       v.GetString("AUTH0_TENANT_DOMAIN"),
			TenantClientID:     v.GetString("AUTH0_TENANT_CLIENT_ID"),
			TenantClientSecret: v.GetString("AUTH0_TENANT_CLIENT_SECRET"),
			CallbackURLUser:    v.GetString("AUTH0_CALLBACK_URL_USER"),
			CallbackURLTenant:  v.GetString("AUTH0_CALLBACK_URL_TENANT"),
			FrontendURLUser:    v.GetString("FRONTEND_URL_USER"),
			FrontendURLTenant:  v.GetString("FRONTEND_URL_TENANT"),
			SessionSecret:      v.GetString("SESSION_SECRET"),
		},
		CoinsPerAction:              v.GetInt("COINS_PER_ACTION"),
		CountPendingChallengePoints: v.GetBool("COUNT_PENDING_CHALLENGE_POINTS"),
		CloudinaryURL:               v.GetString("CLOUDINARY_URL"),
	}

	return cfg, nil
}
