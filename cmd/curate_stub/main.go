package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/termcurator/curate/pkg/buildtime"
	"github.com/termcurator/curate/pkg/stub"
)

func main() {
	conf, err := stub.LoadConfig(env.ToMap(os.Environ()))
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	fixture, err := conf.LoadFixture()
	if err != nil {
		log.Fatalf("can not read fixture: %s", err)
	}

	secret := []byte(conf.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("can not generate token secret: %s", err)
		}
		log.Println("CURATE_STUB_SECRET is not set. tokens are signed with a random key, and invalidated on restart.")
	}

	e := stub.New(
		stub.NewStore(fixture),
		stub.NewTokens(secret, conf.TokenTTL),
		stub.WithApiRoot(conf.ApiRoot),
		stub.WithLogLevel(conf.LogLevel),
	)

	log.Printf("curate_stub %s", buildtime.VersionString())
	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	context.AfterFunc(ctx, func() {
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	})

	addr := ":" + conf.Port
	if conf.Cert != "" {
		err = e.StartTLS(addr, conf.Cert, conf.CertKey)
	} else {
		err = e.Start(addr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
