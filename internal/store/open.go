package store

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open 根据 STORE_DRIVER 环境变量选择内容存储后端。
// 支持 postgres（默认）、redis、mongo、memory。
func Open(ctx context.Context) (Gateway, error) {
	driver := os.Getenv("STORE_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	switch driver {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			// Fallback for local dev if not set
			dsn = "host=localhost user=postgres password=postgres dbname=citylink port=5432 sslmode=disable"
		}
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, err
		}
		log.Println("Content store: postgres")
		return NewPostgresStore(db)

	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		log.Println("Content store: redis")
		return NewRedisStore(client), nil

	case "mongo":
		uri := os.Getenv("MONGO_URL")
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		database := os.Getenv("MONGO_DB")
		if database == "" {
			database = "citylink"
		}
		client, err := NewMongoClient(ctx, uri)
		if err != nil {
			return nil, err
		}
		log.Println("Content store: mongo")
		return NewMongoStore(client, database), nil

	case "memory":
		log.Println("Content store: in-memory (data is lost on restart)")
		return NewMemoryStore(), nil
	}

	log.Fatalf("Unknown STORE_DRIVER %q", driver)
	return nil, nil
}
