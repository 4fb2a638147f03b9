// Command-line interface entrypoint for running the bot without the HTTP server
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketbot/marketbot/bot"
	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/services/classifier"
	"marketbot/marketbot/services/delivery"
	"marketbot/marketbot/services/discovery"
	"marketbot/marketbot/services/imagerelay"
	"marketbot/marketbot/services/navigator"
	"marketbot/marketbot/services/replyservice"
	"marketbot/marketbot/sources/psql"
	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/sources/storage"
	"marketbot/marketbot/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	args := os.Args[1:]
	if len(args) < 1 || (args[0] != "run" && args[0] != "unread") {
		fmt.Println("marketbot CLI usage:")
		fmt.Println("  marketbot run [n]   # answer the top n chats (default: configured chat limit)")
		fmt.Println("  marketbot unread    # answer every unread chat, oldest first")
		fmt.Println()
		fmt.Println("Type 'stop' + Enter during a run to cancel it.")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := psql.NewDatabase(ctx, cfg)
	cancel()
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	settingDAO := dao.NewSettingDAO(db.DB)
	replyLogDAO := dao.NewReplyLogDAO(db.DB)

	sel, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		logging.ErrorLogger.Error("selector override unreadable, using defaults", zap.Error(err))
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logging.AppLogger.Warn("minio unavailable, image caching disabled", zap.Error(err))
		minioClient = nil
	}

	session, err := browser.NewSession(cfg)
	if err != nil {
		logging.ErrorLogger.Error("browser session error", zap.Error(err))
		os.Exit(1)
	}
	defer session.Close()
	page := session.Page()

	state := bot.NewRunState()
	engine := bot.NewEngine(
		state,
		discovery.NewScanner(page, sel),
		navigator.New(page, sel),
		classifier.NewExtractor(page, sel),
		replyservice.NewClient(settingDAO, cfg.WebhookURL),
		delivery.NewAgent(page, sel, imagerelay.New(minioClient), state.Cancelled),
		settingDAO,
		replyLogDAO,
		consoleReporter{},
	)

	// Reads stdin so a run can be stopped mid-flight.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "stop" {
				fmt.Println("stopping after the current step...")
				engine.Cancel()
			}
		}
	}()

	switch args[0] {
	case "run":
		n := 0
		if len(args) >= 2 {
			n, _ = strconv.Atoi(args[1])
		}
		err = engine.CycleChats(context.Background(), n)
	case "unread":
		err = engine.ProcessUnread(context.Background())
	}
	if err != nil {
		logging.ErrorLogger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

type consoleReporter struct{}

func (consoleReporter) Report(step string, detail map[string]interface{}, countdownSeconds int) {
	if countdownSeconds > 0 {
		fmt.Printf("\r%s (%ds) ", step, countdownSeconds)
		return
	}
	if chat, ok := detail["chat"].(string); ok {
		fmt.Printf("\n%s: %s\n", step, chat)
		return
	}
	fmt.Printf("\n%s\n", step)
}
