package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"katydid-common-scoring/pkg/config"
	"katydid-common-scoring/pkg/logger"
	"katydid-common-scoring/pkg/store"
	"katydid-common-scoring/pkg/transport"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径（可选）")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "scoring-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.Init(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := store.NewRedis(cfg.StoreConfig(), log)

	server := transport.New(st, log)
	log.Info("scoring server configured",
		zap.String("addr", cfg.Addr()),
		zap.String("redis", fmt.Sprintf("%s:%d", cfg.Redis.Address, cfg.Redis.Port)))
	return server.Run(cfg.Addr())
}
