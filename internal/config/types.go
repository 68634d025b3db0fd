package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Auth          AuthConfig
	Admin         AdminBootstrapConfig
	Turso         TursoConfig
}

// AuthConfig holds the signing secrets for the two token kinds. The secrets
// must differ so neither token kind verifies as the other.
type AuthConfig struct {
	PlayerTokenSecret  string
	AdminSessionSecret string
}

// AdminBootstrapConfig holds the optional credentials used to create the
// first admin account on first login.
type AdminBootstrapConfig struct {
	Username string
	Password string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
