package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	CatalogFile string `env:"CATALOG_FILE"`

	// simulated orders skip the gateway; keep disabled in production
	AllowSimulatedOrders bool `env:"ALLOW_SIMULATED_ORDERS" envDefault:"true"`

	Database  Database  `envPrefix:"DATABASE_"`
	Lava      Lava      `envPrefix:"LAVA_"`
	JWT       JWT       `envPrefix:"JWT_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	Provision Provision `envPrefix:"PROVISION_"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"URL" envDefault:"vpnshop.db"`
}

type Lava struct {
	BaseApiURL  string `env:"BASE_API_URL" envDefault:"https://api.lava.ru/business"`
	MerchantID  string `env:"MERCHANT_ID"`
	SecretKey   string `env:"SECRET_KEY"`
	Currency    string `env:"CURRENCY" envDefault:"RUB"`
	OrderPrefix string `env:"ORDER_PREFIX" envDefault:"EPS"`
}

// IsConfigured reports whether both merchant credentials are present.
func (l Lava) IsConfigured() bool {
	return l.MerchantID != "" && l.SecretKey != ""
}

type JWT struct {
	Secret string        `env:"SECRET" envDefault:"dev_secret"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
}

type Redis struct {
	URL string `env:"URL"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"vpnshop.orders"`
}

type Provision struct {
	Domain string `env:"DOMAIN" envDefault:"thunder-vpn.ru"`
	DEPath string `env:"DE_PATH" envDefault:"sdjHIBNiugIUHDgnjkfpdZjb"`
	RUPath string `env:"RU_PATH" envDefault:"FxwX0WPtzXQUdPW"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
