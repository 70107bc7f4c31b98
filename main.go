package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/vocabdiary/internal/config"
	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/internal/excel"
	"github.com/example/vocabdiary/internal/learning"
	"github.com/example/vocabdiary/internal/scheduler"
	"github.com/example/vocabdiary/internal/server"
	"github.com/example/vocabdiary/internal/session"
)

func main() {
	_ = godotenv.Load()

	importPath := flag.String("import", "", "import words from an XLSX or CSV file and exit")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if *importPath != "" {
		runImport(logger, *importPath)
		return
	}

	cfg := config.Load()
	sessions := session.NewStore(cfg.SessionTTL)
	svc := learning.NewService(sessions, learning.Config{
		AutoMasterOnClear: cfg.AutoMasterOnClear,
	})

	sched := scheduler.New(sessions, logger)
	sched.Start()
	defer sched.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(svc, logger)
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func runImport(logger *zap.Logger, path string) {
	result, err := excel.ImportWords(path)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import finished",
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("errors", len(result.Errors)),
	)
	for _, e := range result.Errors {
		logger.Warn("import row skipped", zap.String("detail", e))
	}
}
