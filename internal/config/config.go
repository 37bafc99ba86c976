package config

import (
	"flag"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"log"
	"os"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"

	BlobDriverAzure = "azure"
	BlobDriverLocal = "local"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Database   Database   `yaml:"database"`
	Mongo      Mongo      `yaml:"mongo"`
	Kafka      Kafka      `yaml:"kafka"`
	Blob       Blob       `yaml:"blob"`
	Transcoder Transcoder `yaml:"transcoder"`
	Variants   Variants   `yaml:"variants"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8082"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres" validate:"oneof=postgres mongo"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"images"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type Mongo struct {
	URI        string `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database   string `yaml:"database" env:"MONGODB_DATABASE" env-default:"images"`
	Collection string `yaml:"collection" env:"MONGODB_COLLECTION" env-default:"images"`
}

type Kafka struct {
	Brokers      []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," validate:"required,min=1"`
	SearchTopic  string   `yaml:"search_topic" env:"KAFKA_SEARCH_TOPIC" env-default:"search.image.deletions"`
	PrewarmTopic string   `yaml:"prewarm_topic" env:"KAFKA_PREWARM_TOPIC" env-default:"images.derivatives.prewarm"`
	GroupID      string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"image-resizer"`
}

type Blob struct {
	Driver        string `yaml:"driver" env:"BLOB_DRIVER" env-default:"local" validate:"oneof=azure local"`
	AccountName   string `yaml:"account_name" env:"AZURE_STORAGE_ACCOUNT" validate:"required_if=Driver azure"`
	AccountKey    string `yaml:"account_key" env:"AZURE_STORAGE_KEY" validate:"required_if=Driver azure"`
	Container     string `yaml:"container" env:"BLOB_CONTAINER" env-default:"derivatives"`
	PublicBaseURL string `yaml:"public_base_url" env:"BLOB_PUBLIC_BASE_URL" validate:"required,url"`
	LocalDir      string `yaml:"local_dir" env:"BLOB_LOCAL_DIR" env-default:"./processed"`
}

type Transcoder struct {
	FetchTimeout   time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT" env-default:"20s"`
	MinSourceBytes int64         `yaml:"min_source_bytes" env:"MIN_SOURCE_BYTES" env-default:"500000" validate:"gte=0"`
	MaxSourceBytes int64         `yaml:"max_source_bytes" env:"MAX_SOURCE_BYTES" env-default:"52428800" validate:"gtfield=MinSourceBytes"`
	JPEGQuality    int           `yaml:"jpeg_quality" env:"JPEG_QUALITY" env-default:"85" validate:"min=1,max=100"`
}

type Variants struct {
	ThumbnailHeight int `yaml:"thumbnail_height" env:"THUMBNAIL_HEIGHT" env-default:"600" validate:"gt=0"`
	LargeWidth      int `yaml:"large_width" env:"LARGE_WIDTH" env-default:"1800" validate:"gt=0"`
}

func MustLoad() *Config {
	// .env is optional, variables already set in the environment win
	_ = godotenv.Load()

	path := fetchConfigPath()
	if path == "" {
		log.Fatal("config path is not set")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// fetchConfigPath reads the config path from the -config flag or CONFIG_PATH.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
