package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/jasonlvhit/gocron"
	"github.com/milkeg/CryptoBot/adapter/exchange"
	"github.com/milkeg/CryptoBot/adapter/transport"
	"github.com/milkeg/CryptoBot/config"
	"github.com/milkeg/CryptoBot/entity"
	"github.com/sirupsen/logrus"
)

type paperExchange interface {
	WriteOrders(w io.Writer) error
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config")
	once := flag.Bool("once", false, "run a single polling pass and exit")
	dryRun := flag.Bool("dry-run", false, "use in-memory paper exchanges instead of the network")
	booksPath := flag.String("books", "", "JSON file of seed order books for -dry-run, keyed by exchange then symbol")
	serve := flag.Bool("serve", false, "start the HTTP server")
	flag.Parse()

	var conf config.AppConfig

	err := config.Init(*configPath, &conf)
	if err != nil {
		panic(err)
	}

	err = config.LoadEnv(&conf, ".env")
	if err != nil {
		panic(err)
	}

	logger, logFile, err := newLogger(conf)
	if err != nil {
		panic(err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	var adapters []exchange.ExchangeAdapter
	if *dryRun {
		adapters, err = paperAdapters(conf, *booksPath)
	} else {
		adapters, err = liveAdapters(conf, logger)
	}
	if err != nil {
		logger.Fatalf("[main][buildAdapters] Error: %v", err)
	}

	if len(adapters) == 0 {
		logger.Fatal("[main] no exchange enabled")
	}

	b := newBot(adapters, conf.Pairs, logger, os.Stdout)
	ctx := context.Background()

	defer writePaperOrders(adapters, conf.LogDir, logger)

	if *once {
		b.runPass(ctx)
		return
	}

	s := gocron.NewScheduler()
	s.Every(conf.Poll.IntervalSeconds).Seconds().Do(func() { b.runPass(ctx) })

	b.runPass(ctx)
	stopped := s.Start()
	defer func() { stopped <- true }()

	logger.WithFields(logrus.Fields{
		"identity":  conf.Identity,
		"exchanges": b.exchangeNames(),
		"pairs":     len(conf.Pairs),
		"interval":  conf.Poll.IntervalSeconds,
	}).Info("polling started")

	quit := make(chan os.Signal, 10)

	if *serve {
		err = runHttpServer(newRouter(b, newHealthcheck(adapters)), conf.Server.Port, quit)
		if err != nil {
			logger.Errorf("[main][runHttpServer] Error: %v", err)
		}
		return
	}

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func newLogger(conf config.AppConfig) (*logrus.Logger, *os.File, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("[main][newLogger][logrus.ParseLevel] Error: %w", err)
	}
	logger.SetLevel(level)

	if conf.LogDir == "" {
		logger.SetOutput(os.Stdout)
		return logger, nil, nil
	}

	err = os.MkdirAll(conf.LogDir, 0755)
	if err != nil {
		return nil, nil, fmt.Errorf("[main][newLogger][os.MkdirAll] Error: %w", err)
	}

	logFile, err := os.OpenFile(
		filepath.Join(conf.LogDir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("[main][newLogger][os.OpenFile] Error: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, logFile))

	return logger, logFile, nil
}

func exchangeOptions(c config.ExchangeClientConfig, logger logrus.FieldLogger) (exchange.Options, error) {
	mode, err := transport.ParseNumberMode(c.NumberMode)
	if err != nil {
		return exchange.Options{}, err
	}

	return exchange.Options{
		BaseUrl:    c.BaseUrl,
		PublicKey:  c.PublicKey,
		SecretKey:  c.SecretKey,
		Timeout:    c.TimeoutOrDefault(),
		NumberMode: mode,
		Logger:     logger,
	}, nil
}

func liveAdapters(conf config.AppConfig, logger logrus.FieldLogger) ([]exchange.ExchangeAdapter, error) {
	builders := []struct {
		name string
		conf config.ExchangeClientConfig
		new  func(exchange.Options) exchange.ExchangeAdapter
	}{
		{exchange.BittrexName, conf.Exchange.Bittrex, func(o exchange.Options) exchange.ExchangeAdapter { return exchange.NewBittrexAdapter(o) }},
		{exchange.GatecoinName, conf.Exchange.Gatecoin, func(o exchange.Options) exchange.ExchangeAdapter { return exchange.NewGatecoinAdapter(o) }},
		{exchange.LiquiName, conf.Exchange.Liqui, func(o exchange.Options) exchange.ExchangeAdapter { return exchange.NewLiquiAdapter(o) }},
	}

	adapters := []exchange.ExchangeAdapter{}
	for _, bld := range builders {
		if !bld.conf.Enabled {
			continue
		}

		opts, err := exchangeOptions(bld.conf, logger)
		if err != nil {
			return nil, fmt.Errorf("[main][liveAdapters][%s] Error: %w", bld.name, err)
		}

		adapters = append(adapters, bld.new(opts))
	}

	return adapters, nil
}

func paperAdapters(conf config.AppConfig, booksPath string) ([]exchange.ExchangeAdapter, error) {
	books := map[string]map[string]entity.Orderbook{}

	if booksPath != "" {
		data, err := os.ReadFile(booksPath)
		if err != nil {
			return nil, fmt.Errorf("[main][paperAdapters][os.ReadFile] Error: %w", err)
		}

		err = json.Unmarshal(data, &books)
		if err != nil {
			return nil, fmt.Errorf("[main][paperAdapters][json.Unmarshal] Error: %w", err)
		}
	}

	enabled := map[string]bool{
		exchange.BittrexName:  conf.Exchange.Bittrex.Enabled,
		exchange.GatecoinName: conf.Exchange.Gatecoin.Enabled,
		exchange.LiquiName:    conf.Exchange.Liqui.Enabled,
	}

	adapters := []exchange.ExchangeAdapter{}
	for _, name := range []string{exchange.BittrexName, exchange.GatecoinName, exchange.LiquiName} {
		if !enabled[name] {
			continue
		}
		adapters = append(adapters, exchange.NewMockExchange(name, books[name], nil))
	}

	return adapters, nil
}

func writePaperOrders(adapters []exchange.ExchangeAdapter, logDir string, logger logrus.FieldLogger) {
	papers := []paperExchange{}
	for _, a := range adapters {
		if p, ok := a.(paperExchange); ok {
			papers = append(papers, p)
		}
	}
	if len(papers) == 0 {
		return
	}

	var out io.Writer = os.Stdout

	if logDir != "" {
		f, err := os.OpenFile(
			filepath.Join(logDir, fmt.Sprintf("orders_%s.log", time.Now().Format("20060102_150405"))),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			logger.Errorf("[main][writePaperOrders][os.OpenFile] Error: %v", err)
			return
		}
		defer f.Close()
		out = f
	}

	for _, p := range papers {
		if err := p.WriteOrders(out); err != nil {
			logger.Errorf("[main][writePaperOrders] Error: %v", err)
		}
	}
}
