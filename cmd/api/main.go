package main

import (
	"context"

	"Ink_Blog/internal/config"
	"Ink_Blog/internal/model"
	"Ink_Blog/internal/pkg"
	"Ink_Blog/internal/repository/mysql"
	"Ink_Blog/internal/repository/redis"
	"Ink_Blog/internal/router"
	"Ink_Blog/internal/service"
)

func main() {
	cfg := config.Load()
	pkg.SetSecrets(cfg.AccessSecret, cfg.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.FollowOutbox{},
	)

	// 关注事件投递：没配 kafka 时退回日志 sender
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := service.LogSender
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)

	// 首页整页缓存
	cache := &redis.PageCache{TTL: cfg.PageCacheTTL}

	// Gin
	r := router.InitRouter(mysql.DB, cfg.SMTP, cache)
	err := r.Run(cfg.Addr)
	if err != nil {
		return
	}
}
