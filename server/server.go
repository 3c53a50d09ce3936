package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	wkfscache "github.com/nsheridan/autocert-wkfs-cache"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sid77/drop"
	"go4.org/wkfs"
	"golang.org/x/crypto/acme/autocert"

	"github.com/signgate/signgate/client"
	"github.com/signgate/signgate/lib"
	"github.com/signgate/signgate/server/config"
	"github.com/signgate/signgate/server/metrics"
	"github.com/signgate/signgate/server/store"
)

const requestIDHeader = "X-Request-Id"

// signClient is the part of the sign request API the gateway forwards to.
type signClient interface {
	CreateSignRequest(ctx context.Context, r *lib.CreateSignRequest) (*lib.SignRequest, error)
	GetSignRequest(ctx context.Context, id string) (*lib.SignRequest, error)
	ListSignRequests(ctx context.Context, marker string, limit int) (*lib.SignRequestList, error)
	CancelSignRequest(ctx context.Context, id string) (*lib.SignRequest, error)
	ResendSignRequest(ctx context.Context, id string) error
}

var _ signClient = (*client.Client)(nil)

func loadCerts(certFile, keyFile string) (tls.Certificate, error) {
	key, err := wkfs.ReadFile(keyFile)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "error reading TLS private key")
	}
	cert, err := wkfs.ReadFile(certFile)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "error reading TLS certificate")
	}
	return tls.X509KeyPair(cert, key)
}

// Run the server. The returned server is already serving; call Shutdown to
// stop it, then close the returned store once in-flight requests are done.
func Run(conf *config.Config) (*http.Server, store.RequestStorer) {
	var err error

	laddr := fmt.Sprintf("%s:%d", conf.Server.Addr, conf.Server.Port)
	l, err := net.Listen("tcp", laddr)
	if err != nil {
		log.Fatal(errors.Wrapf(err, "unable to listen on %s:%d", conf.Server.Addr, conf.Server.Port))
	}

	tlsConfig := &tls.Config{}
	if conf.Server.UseTLS {
		if conf.Server.LetsEncryptServername != "" {
			m := autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(conf.Server.LetsEncryptServername),
			}
			if conf.Server.LetsEncryptCache != "" {
				m.Cache = wkfscache.Cache(conf.Server.LetsEncryptCache)
			}
			tlsConfig = m.TLSConfig()
		} else {
			if conf.Server.TLSCert == "" || conf.Server.TLSKey == "" {
				log.Fatal("TLS cert or key not specified in config")
			}
			tlsConfig.Certificates = make([]tls.Certificate, 1)
			tlsConfig.Certificates[0], err = loadCerts(conf.Server.TLSCert, conf.Server.TLSKey)
			if err != nil {
				log.Fatal(errors.Wrap(err, "unable to create TLS listener"))
			}
		}
		l = tls.NewListener(l, tlsConfig)
	}

	if conf.Server.User != "" {
		log.Print("Dropping privileges...")
		if err := drop.DropPrivileges(conf.Server.User); err != nil {
			log.Fatal(errors.Wrap(err, "unable to drop privileges"))
		}
	}

	// Unprivileged section
	metrics.Register()

	box, err := client.New(conf.Box, client.WithKeyReader(wkfs.ReadFile))
	if err != nil {
		log.Fatal(errors.Wrap(err, "unable to configure the sign request client"))
	}

	requests, err := store.New(conf.Server.Database)
	if err != nil {
		log.Fatal(err)
	}

	if len(conf.Server.APIKeys) == 0 {
		log.Print("No api_keys configured, all API requests will be refused")
	}
	defaults := *conf.Defaults
	if defaults.ParentFolderID == "" {
		defaults.ParentFolderID = conf.Box.ParentFolderID
	}
	a := newApp(conf.Server, &defaults, box, requests)

	logfile := os.Stderr
	if conf.Server.HTTPLogFile != "" {
		logfile, err = os.OpenFile(conf.Server.HTTPLogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0640)
		if err != nil {
			log.Printf("error opening log: %v. logging to stderr", err)
			logfile = os.Stderr
		}
	}

	s := &http.Server{
		Handler:      handlers.CombinedLoggingHandler(logfile, a.router),
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting server on %s", laddr)
	go func() {
		if err := s.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()
	return s, requests
}

// mwVersion is middleware to add a X-Signgate-Version header to the response.
func mwVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Signgate-Version", lib.Version)
		next.ServeHTTP(w, r)
	})
}

// mwRequestID tags every response with a request id, reusing the caller's.
func mwRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// app contains local context - the upstream client, the audit store etc.
type app struct {
	box      signClient
	requests store.RequestStorer
	router   *mux.Router
	config   *config.Server
	defaults *config.Defaults
	now      func() time.Time
}

func newApp(c *config.Server, d *config.Defaults, box signClient, requests store.RequestStorer) *app {
	a := &app{
		box:      box,
		requests: requests,
		router:   mux.NewRouter(),
		config:   c,
		defaults: d,
		now:      time.Now,
	}
	a.routes()
	a.router.Use(mwVersion)
	a.router.Use(mwRequestID)
	a.router.Use(handlers.CompressHandler)
	a.router.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))
	return a
}

func (a *app) routes() {
	// api key required
	api := a.router.PathPrefix("/2.0").Subrouter()
	api.Use(a.authed)
	api.Methods("POST").Path("/sign_requests").HandlerFunc(a.createSignRequest)
	api.Methods("GET").Path("/sign_requests").HandlerFunc(a.listSignRequests)
	api.Methods("GET").Path("/sign_requests/{id}").HandlerFunc(a.getSignRequest)
	api.Methods("POST").Path("/sign_requests/{id}/cancel").HandlerFunc(a.cancelSignRequest)
	api.Methods("POST").Path("/sign_requests/{id}/resend").HandlerFunc(a.resendSignRequest)

	admin := a.router.PathPrefix("/admin").Subrouter()
	admin.Use(a.authed)
	admin.Methods("GET").Path("/requests.json").HandlerFunc(a.getRecordsJSON)
	admin.Methods("GET").Path("/requests/{id}.json").HandlerFunc(a.getRecordJSON)

	// no api key required
	a.router.Methods("GET").Path("/healthcheck").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok")
	})
	a.router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
}
