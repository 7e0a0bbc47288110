package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/middleware"
	"microblog/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "posts per user")
	flag.IntVar(&opts.MaxReplies, "replies", opts.MaxReplies, "maximum replies per post")
	flag.Float64Var(&opts.LikeProbability, "likes", opts.LikeProbability, "probability a user likes a post")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("loading config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("connecting to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seed.Run(context.Background(), db, opts); err != nil {
		middleware.Logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}
