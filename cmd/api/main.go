package main

import (
	"log"
	"os"

	"github.com/gagliardetto/solana-go"

	"launchcontrol/internal/handlers"
	"launchcontrol/internal/launch"
	"launchcontrol/internal/routes"
	"launchcontrol/internal/stream"
	tokensync "launchcontrol/internal/sync"
	"launchcontrol/pkg/config"
	"launchcontrol/pkg/dbc"
	"launchcontrol/pkg/jupiter"
	keymgr "launchcontrol/pkg/solana"
	"launchcontrol/pkg/storage"
)

const defaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

func main() {
	// Initialize database
	config.InitDB()

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		config.ExecuteMigrations()
	}

	// Initialize RabbitMQ (optional, launch events are skipped without it)
	var events launch.EventPublisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		publisher, err := config.NewPublisher()
		if err != nil {
			log.Fatal("Failed to create publisher:", err)
		}
		defer publisher.Close()
		events = publisher
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, launch events disabled")
	}

	rpcEndpoint := os.Getenv("RPC_URL")
	if rpcEndpoint == "" {
		rpcEndpoint = defaultRPCEndpoint
	}

	feeClaimer, err := solana.PublicKeyFromBase58(os.Getenv("FEE_CLAIMER_WALLET"))
	if err != nil {
		log.Fatal("FEE_CLAIMER_WALLET is missing or invalid:", err)
	}

	// With a keystore password the fee-claimer wallet must be backed by a
	// real key: load it (importing FEE_CLAIMER_PRIVATE_KEY on first boot)
	// and fail fast on a missing or mismatched entry. Without one the
	// wallet is used as a bare public key.
	keys := keymgr.NewKeyManager()
	if password := os.Getenv("KEYSTORE_PASSWORD"); password != "" {
		if _, err := keys.ResolveOperatorKey(feeClaimer.String(), os.Getenv("FEE_CLAIMER_PRIVATE_KEY"), password); err != nil {
			log.Fatal("Failed to load fee claimer key from keystore:", err)
		}
		log.Println("Fee claimer key loaded from keystore")
	} else {
		log.Println("KEYSTORE_PASSWORD not set, fee claimer used as bare public key")
	}

	store, err := storage.NewS3Storage()
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	curveClient := dbc.NewAPIClient("")
	hub := stream.NewHub()

	orchestrator := &launch.Orchestrator{
		DB:         config.DB,
		Storage:    store,
		Builder:    curveClient,
		Chain:      launch.NewRPCChain(rpcEndpoint),
		Keys:       keys,
		FeeClaimer: feeClaimer,
		Events:     events,
		Stream:     hub,
	}

	syncer := &tokensync.Syncer{
		DB:     config.DB,
		Prices: jupiter.NewClient(os.Getenv("JUPITER_API_URL")),
		Fees:   curveClient,
	}

	handlers.Setup(orchestrator, syncer, curveClient, hub)

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
