package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"pos-terminal/config"
	httpapi "pos-terminal/internal/api/http"
	"pos-terminal/internal/client"
	"pos-terminal/internal/printer"
	"pos-terminal/internal/service"
	"pos-terminal/internal/storage"
)

func main() {
	cfg := config.Load()

	backend := client.NewBackendClient(cfg.BackendURL, &http.Client{Timeout: 15 * time.Second})

	var gateway service.Gateway
	if cfg.SnapBaseURL != "" {
		gateway = client.NewSnapClient(cfg.SnapBaseURL, cfg.SnapClientKey, &http.Client{Timeout: 15 * time.Second})
	} else {
		log.Println("SNAP_BASE_URL not set, gateway payments disabled")
	}

	var archive service.CartArchive
	if os.Getenv("REDIS_HOST") != "" {
		rdb := config.MustInitRedis()
		defer rdb.Close()
		archive = storage.NewRedisArchive(rdb, 24*time.Hour, cfg.TerminalID)
	} else {
		log.Println("REDIS_HOST not set, cart snapshots disabled")
	}

	var publisher service.SalePublisher
	if os.Getenv("KAFKA_BROKER") != "" {
		writer := config.NewKafkaWriter("sales")
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	} else {
		log.Println("KAFKA_BROKER not set, sale events disabled")
	}

	cart := service.NewCartStore()
	if archive != nil {
		if state, err := archive.Load(context.Background()); err != nil {
			log.Printf("Warning: failed to load cart snapshot: %v", err)
		} else if state != nil {
			cart.Restore(*state)
			log.Printf("Restored cart snapshot with %d items", len(state.Items))
		}
	}

	checkout := service.NewCheckoutService(cart, backend, gateway, archive, publisher)
	receipts := service.NewReceiptService(backend, service.DefaultQRGenerator{BaseURL: cfg.PublicURL}, printer.NewSpoolPrinter(cfg.SpoolDir))

	handler := httpapi.NewHandler(cart, checkout, receipts, archive)
	handler.BackendURL = cfg.BackendURL
	handler.Proxy = &http.Client{Timeout: 15 * time.Second}

	httpapi.StartServer(cfg.ListenAddr, httpapi.NewRouter(handler))
}
