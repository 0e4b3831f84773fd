package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/cache"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/compress"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/config"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/hub"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/jobs"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/service"
	"github.com/CMihai83/documentiulia.ro-sub034/internal/store"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the collaboration server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{httpPort: httpPort}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the full engine and serves it over HTTP until interrupted.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.Load()

	db, err := store.Open(cnf.DBDriver, cnf.DBDSN)
	if err != nil {
		return err
	}
	documentStore := store.NewGormStore(db)
	if err := documentStore.Migrate(); err != nil {
		return err
	}

	codec, err := compress.New(cnf.SnapshotCodec)
	if err != nil {
		return err
	}

	var documentCache cache.DocumentCache = cache.NewNopCache()
	if cnf.RedisAddr != "" {
		documentCache = cache.NewRedisDocumentCache(cnf.RedisAddr)
	}

	eventHub := hub.NewHub()
	go eventHub.Run()

	notifiers := notify.Fanout{notify.NewLogNotifier(), eventHub}
	if cnf.RedisAddr != "" {
		notifiers = append(notifiers, notify.NewRedisNotifier(cnf.RedisAddr))
	}
	var kafkaNotifier *notify.KafkaNotifier
	if cnf.KafkaBrokers != "" {
		kafkaNotifier, err = notify.NewKafkaNotifier(cnf.KafkaBrokers, cnf.KafkaTopic)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, kafkaNotifier)
	}

	collab := service.NewCollabService(documentStore, documentCache, codec, cnf.SnapshotCodec, notifiers)

	cronJobs := []jobs.CronJob{
		jobs.NewIdleSweeper(collab, cnf.IdleTimeout, cnf.SweepSchedule),
	}
	if cnf.RedisAddr != "" {
		cronJobs = append(cronJobs, jobs.NewCacheWarmTask("@every 10m", documentStore, documentCache))
	}
	executor := jobs.NewTaskExecutor(nil, cronJobs)
	executor.Run()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	registerRoutes(engine.Group("/v1", AuthMiddleware(cnf.JWTSecret)), collab, eventHub)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(engine),
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting collaboration server on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting server: %v", err)
			}
		}
		logrus.Infof("collaboration server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()
	eventHub.Stop()
	if kafkaNotifier != nil {
		kafkaNotifier.Close()
	}
	if err := restServer.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error stopping server: %v", err)
	}

	wg.Wait()

	return nil
}
