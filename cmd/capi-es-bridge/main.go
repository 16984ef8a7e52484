package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/couchbase/capi-es-bridge/api"
	"github.com/couchbase/capi-es-bridge/config"
	"github.com/couchbase/capi-es-bridge/internal/admission"
	"github.com/couchbase/capi-es-bridge/internal/bridge"
	"github.com/couchbase/capi-es-bridge/internal/checkpoint"
	"github.com/couchbase/capi-es-bridge/internal/clock"
	"github.com/couchbase/capi-es-bridge/internal/esclient"
	"github.com/couchbase/capi-es-bridge/internal/idgen"
	"github.com/couchbase/capi-es-bridge/internal/metrics"
	"github.com/couchbase/capi-es-bridge/internal/replication"
	"github.com/couchbase/capi-es-bridge/internal/typeselector"
	"github.com/couchbase/capi-es-bridge/internal/uuidstore"
)

func main() {
	var (
		help                  = flag.Bool("help", false, "Show help message")
		version               = flag.Bool("version", false, "Show version information")
		port                  = flag.String("port", "8092", "Port to run the server on")
		esURL                 = flag.String("es-url", "http://localhost:9200", "Elasticsearch cluster URL")
		checkpointType        = flag.String("checkpoint-type", "couchbaseCheckpoint", "Index type used for checkpoint and UUID documents")
		documentType          = flag.String("document-type", "couchbaseDocument", "Index type used for replicated documents")
		idSeparator           = flag.String("id-type-separator", "", "If set, splits a document id on this separator to derive its type")
		resolveConflicts      = flag.Bool("resolve-conflicts", true, "Multi-get candidate matches during _revs_diff to resolve rev conflicts")
		maxConcurrentRequests = flag.Int("max-concurrent-requests", 32, "Ceiling on combined in-flight _revs_diff and _bulk_docs requests")
		bulkRetries           = flag.Int("bulk-index-retries", 3, "Retry budget for a transient bulk-index failure")
		bulkRetryWaitMs       = flag.Int("bulk-index-retry-wait-ms", 500, "Delay between bulk-index retries, in milliseconds")
	)

	flag.Parse()

	if *help {
		fmt.Printf("CAPI-ES Bridge - translates CouchDB-style replication into Elasticsearch bulk writes\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                  # Start server on default port 8092\n", os.Args[0])
		fmt.Printf("  %s --port 9000 --es-url http://es:9200\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("capi-es-bridge v1.0.0\n")
		return
	}

	cfg := config.BridgeConfig{
		CheckpointDocumentType: *checkpointType,
		ResolveConflicts:       *resolveConflicts,
		MaxConcurrentRequests:  *maxConcurrentRequests,
		BulkIndexRetries:       *bulkRetries,
		BulkIndexRetryWaitMs:   *bulkRetryWaitMs,
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		log.Fatalf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	log.Printf("Connecting to Elasticsearch at %s", *esURL)
	index, err := esclient.Dial(*esURL)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	gen := idgen.New()
	cache := uuidstore.NewCache()
	uuids := uuidstore.New(index, cache, gen, cfg.CheckpointDocumentType)
	checkpoints := checkpoint.New(index, gen, cfg.CheckpointDocumentType)

	var typeSelector = typeselector.Constant(*documentType)
	if *idSeparator != "" {
		typeSelector = typeselector.DocumentField(*idSeparator, *documentType)
	}

	revsDiff := replication.NewRevsDiffEngine(index, typeSelector, cfg.ResolveConflicts)
	bulkDocs := replication.NewBulkDocsEngine(index, clock.System{}, clock.RealSleeper{}, typeSelector, replication.Config{
		ParentFields:  cfg.DocumentTypeParentFields,
		RoutingFields: cfg.DocumentTypeRoutingFields,
		Retries:       cfg.BulkIndexRetries,
		RetryWait:     cfg.RetryWait(),
	})

	metricsSink := metrics.New()
	gate := admission.New(cfg.MaxConcurrentRequests, metricsSink, clock.System{})

	b := bridge.New(gate, uuids, checkpoints, revsDiff, bulkDocs, index)

	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(10 << 20))
	api.SetupRoutes(router, b, metricsSink)

	srv := &http.Server{
		Addr:           ":" + *port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on port %s...", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
