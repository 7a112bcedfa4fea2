package main

import (
	"context"
	"flag"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/ipo/registry"
	"github.com/MixinNetwork/ipo/store"
)

func main() {
	ctx := context.Background()

	bp := flag.String("d", "~/.mixin/ipo/data", "database directory path")
	cp := flag.String("c", "~/.mixin/ipo/config.toml", "configuration file path")
	flag.Parse()

	if strings.HasPrefix(*cp, "~/") {
		usr, _ := user.Current()
		*cp = filepath.Join(usr.HomeDir, (*cp)[2:])
	}
	conf, err := registry.Setup(*cp)
	if err != nil {
		panic(err)
	}

	if strings.HasPrefix(*bp, "~/") {
		usr, _ := user.Current()
		*bp = filepath.Join(usr.HomeDir, (*bp)[2:])
	}
	db, err := store.OpenBadger(ctx, *bp)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	reg, err := registry.Build(ctx, db, conf)
	if err != nil {
		panic(err)
	}
	reg.AddPublisher(&LogFeed{})
	if conf.Feed.NATS != "" {
		feed, err := NewFeedWorker(conf.Feed.NATS, conf.Feed.Subject)
		if err != nil {
			panic(err)
		}
		defer feed.Close()
		reg.AddPublisher(feed)
	}

	go func() {
		server := NewServer(reg, conf)
		err := server.ListenAndServe()
		if err != nil {
			panic(err)
		}
	}()

	reg.Run(ctx)
}
