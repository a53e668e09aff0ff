package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/nashikconnect/vyapaar/docs"

	"github.com/nashikconnect/vyapaar/config"
	"github.com/nashikconnect/vyapaar/internal/api"
	"github.com/nashikconnect/vyapaar/internal/app"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

var (
	h         = flag.Bool("h", false, "help usage")
	showVer   = flag.Bool("v", false, "show version")
	conffile  = flag.String("c", "", "config yaml file")
	dev       = flag.Bool("dev", false, "run develop mode")
	initdb    = flag.Bool("initdb", false, "run initdb")
	printConf = flag.Bool("printconf", false, "print config")
)

const version = "1.0.0"

func main() {
	flag.Parse()

	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		fmt.Println("vyapaar " + version)
		return
	}

	cfg := config.LoadConfig(*conffile)
	if *dev {
		cfg.System.Debug = true
		cfg.Logger.Mode = "development"
	}
	if *printConf {
		fmt.Printf("%+v\n", *cfg)
		return
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	api.Init()
	server := webserver.NewServer(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("shutting down web server")
		return server.Shutdown(context.Background())
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("web server exited: %v", err)
	}
}
