package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"promptclub-backend/internal/bot"
	"promptclub-backend/internal/engine"
	"promptclub-backend/internal/handlers"
	"promptclub-backend/internal/hub"
	"promptclub-backend/internal/jwt"
	"promptclub-backend/internal/keyValue"
	"promptclub-backend/internal/models"
	"promptclub-backend/internal/snowflake"
	"promptclub-backend/internal/store"
)

func setupLogger(cfg *models.ConfigFile) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()

	if cfg.LogToFile {
		config.OutputPaths = []string{"app.log", "stdout"}
	} else {
		config.OutputPaths = []string{"stdout"}
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	config.Level = level

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger.Sugar(), nil
}

func readConfigFile() (models.ConfigFile, error) {
	var cfg models.ConfigFile

	configFile, err := os.Open("config.json")
	if err != nil {
		return cfg, err
	}
	defer configFile.Close()

	bytes, err := io.ReadAll(configFile)
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(bytes, &cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupRedis() (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func setupDelegate(cfg *models.ConfigFile) (bot.Delegate, error) {
	switch cfg.BotProvider {
	case "openai":
		return bot.NewOpenAIDelegate(cfg.OpenAiApiKey)
	case "gemini", "":
		return bot.NewGeminiDelegate(context.Background(), cfg.GeminiApiKey)
	default:
		return nil, fmt.Errorf("unknown bot provider [%s]", cfg.BotProvider)
	}
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := readConfigFile()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(&cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sugar.Sync()

	err = snowflake.Setup(cfg.SnowflakeWorkerID)
	if err != nil {
		sugar.Fatal(err)
	}

	var redisClient *redis.Client
	if !cfg.SelfContained {
		fmt.Println("Connecting to redis...")
		redisClient, err = setupRedis()
		if err != nil {
			sugar.Fatal(err)
		}
	}

	hub.Setup(sugar, redisClient, cfg.SelfContained)
	keyValue.Setup(sugar, redisClient, cfg.SelfContained)

	fmt.Println("Opening database...")
	st, err := store.Open(cfg.DbPath)
	if err != nil {
		sugar.Fatal(err)
	}
	defer st.Close()

	fmt.Println("Setting up bot delegate...")
	delegate, err := setupDelegate(&cfg)
	if err != nil {
		sugar.Fatal(err)
	}

	eng, err := engine.New(sugar, st, delegate, hub.Emit)
	if err != nil {
		sugar.Fatal(err)
	}
	defer eng.Close()

	isHttps := cfg.TlsCert != "" && cfg.TlsKey != ""

	jwt.Setup(cfg.JwtSecret, isHttps)

	var httpProtocol string
	if isHttps {
		httpProtocol = "https"
	} else {
		httpProtocol = "http"
	}

	fmt.Printf("Server is running on %s://%s:%s\n", httpProtocol, cfg.Address, cfg.Port)

	err = handlers.Setup(isHttps, &cfg, sugar, eng)
	if err != nil {
		sugar.Fatal(err)
	}
}
