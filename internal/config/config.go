package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ModelDir string
	DataDir  string
	UIDir    string

	TFIDFArtifacts string
	CFModel        string
	ProgramsFile   string
	FeedbackLog    string

	DefaultK            int
	ContentWeight       float64
	CollaborativeWeight float64
	RelevanceFloor      float64
}

var GlobalConfig *Config

func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("ENV", "development")

	modelDir := getEnv("MODEL_DIR", "models")
	dataDir := getEnv("DATA_DIR", "data")

	defaultK, _ := strconv.Atoi(getEnv("DEFAULT_K", "5"))
	if defaultK <= 0 {
		defaultK = 5
	}

	// Content stays the dominant hybrid signal because the CF model only
	// covers users present in the offline training set.
	contentWeight, _ := strconv.ParseFloat(getEnv("HYBRID_CONTENT_WEIGHT", "0.6"), 64)
	cfWeight, _ := strconv.ParseFloat(getEnv("HYBRID_CF_WEIGHT", "0.4"), 64)
	relevanceFloor, _ := strconv.ParseFloat(getEnv("RELEVANCE_FLOOR", "0.01"), 64)

	var dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode string
	if env == "production" {
		dbHost = getEnv("DB_HOST", "")
		dbPort = getEnv("DB_PORT", "5432")
		dbUser = getEnv("DB_USER", "")
		dbPassword = getEnv("DB_PASSWORD", "")
		dbName = getEnv("DB_NAME", "")
		dbSSLMode = getEnv("DB_SSLMODE", "require")
	} else {
		dbHost = getEnv("DB_HOST", "localhost")
		dbPort = getEnv("DB_PORT", "5432")
		dbUser = getEnv("DB_USER", "postgres")
		dbPassword = getEnv("DB_PASSWORD", "password")
		dbName = getEnv("DB_NAME", "study_recommender")
		dbSSLMode = getEnv("DB_SSLMODE", "disable")
	}

	GlobalConfig = &Config{
		Env:        env,
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     dbHost,
		DBPort:     dbPort,
		DBUser:     dbUser,
		DBPassword: dbPassword,
		DBName:     dbName,
		DBSSLMode:  dbSSLMode,

		ModelDir: modelDir,
		DataDir:  dataDir,
		UIDir:    getEnv("UI_DIR", "ui"),

		TFIDFArtifacts: getEnv("TFIDF_ARTIFACTS", filepath.Join(modelDir, "content_based", "tfidf_artifacts.json")),
		CFModel:        getEnv("CF_MODEL", filepath.Join(modelDir, "collaborative", "svd_model.json")),
		ProgramsFile:   getEnv("PROGRAMS_FILE", filepath.Join(dataDir, "processed", "programs.csv")),
		FeedbackLog:    getEnv("FEEDBACK_LOG", filepath.Join(dataDir, "processed", "feedback_log.csv")),

		DefaultK:            defaultK,
		ContentWeight:       contentWeight,
		CollaborativeWeight: cfWeight,
		RelevanceFloor:      relevanceFloor,
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
