package main

import (
	"context"
	"encoding/json"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/keshrivishal21/e-Voting-Platform-sub000/log"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/otp"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/service"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/storage"
	"github.com/keshrivishal21/e-Voting-Platform-sub000/util"
)

func main() {
	host := flag.String("host", "0.0.0.0", "API listen host")
	port := flag.Int("port", 8080, "API listen port")
	dataDir := flag.String("datadir", "./evoting-data", "data directory for the key-value store")
	logLevel := flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	sweepInterval := flag.Duration("sweep-interval", 30*time.Second, "election lifecycle sweep interval")
	adminToken := flag.String("admin-token", "", "administrator bearer token (random if empty)")
	tokenSecret := flag.String("auth-secret", "", "HMAC secret for voter tokens (random if empty)")
	votersFile := flag.String("voters", "", "JSON file mapping voter IDs to email addresses")
	smtpAddr := flag.String("smtp-addr", "", "SMTP server address host:port (codes are logged if empty)")
	smtpFrom := flag.String("smtp-from", "no-reply@evoting.local", "SMTP sender address")
	smtpUser := flag.String("smtp-user", "", "SMTP auth user")
	smtpPass := flag.String("smtp-pass", "", "SMTP auth password")
	smtpHost := flag.String("smtp-auth-host", "", "SMTP auth host (defaults to the addr host)")
	flag.Parse()

	log.Init(*logLevel, "stdout", nil)

	if *adminToken == "" {
		*adminToken = util.RandomHex(16)
		log.Warnw("no admin token provided, generated one", "token", *adminToken)
	}
	if *tokenSecret == "" {
		*tokenSecret = util.RandomHex(32)
		log.Warnf("no auth secret provided, voter tokens will not survive a restart")
	}

	directory := otp.StaticDirectory{}
	if *votersFile != "" {
		data, err := os.ReadFile(*votersFile)
		if err != nil {
			log.Fatalf("could not read voters file: %v", err)
		}
		if err := json.Unmarshal(data, &directory); err != nil {
			log.Fatalf("could not parse voters file: %v", err)
		}
		log.Infow("voter directory loaded", "voters", len(directory))
	} else {
		log.Warnf("no voters file provided, every OTP request will fail the directory lookup")
	}

	var dispatcher otp.Dispatcher = otp.LogDispatcher{}
	if *smtpAddr != "" {
		var auth smtp.Auth
		if *smtpUser != "" {
			authHost := *smtpHost
			if authHost == "" {
				authHost = *smtpAddr
			}
			auth = smtp.PlainAuth("", *smtpUser, *smtpPass, authHost)
		}
		dispatcher = &otp.SMTPDispatcher{Addr: *smtpAddr, From: *smtpFrom, Auth: auth}
	}

	database, err := metadb.New(db.TypePebble, *dataDir)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	stg := storage.New(database)

	ctx := context.Background()

	apiSrv := service.NewAPI(stg, service.APIServiceConfig{
		Host:        *host,
		Port:        *port,
		TokenSecret: *tokenSecret,
		AdminToken:  *adminToken,
		Directory:   directory,
		Dispatcher:  dispatcher,
	})
	if err := apiSrv.Start(ctx); err != nil {
		log.Fatalf("could not start API service: %v", err)
	}

	monitor := service.NewLifecycleMonitor(stg, *sweepInterval)
	if err := monitor.Start(ctx); err != nil {
		log.Fatalf("could not start lifecycle monitor: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Infof("shutting down")
	monitor.Stop()
	apiSrv.Stop()
}
