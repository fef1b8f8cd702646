package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/lastweeknextday/review-gateway/cmd/flags"
	"github.com/lastweeknextday/review-gateway/contract"
	"github.com/lastweeknextday/review-gateway/httpserver"
	"github.com/lastweeknextday/review-gateway/registration"
	"github.com/lastweeknextday/review-gateway/storage"
)

var (
	flagListenAddr = &cli.StringFlag{
		Name:    "listen-addr",
		Value:   "127.0.0.1:8080",
		Usage:   "address to listen on for API",
		EnvVars: []string{"LISTEN_ADDR"},
	}
	flagRegistrationStore = &cli.StringFlag{
		Name:    "registration-store",
		Value:   "file://./data",
		Usage:   "where item name registrations are kept: file:///dir or redis://host:port/db?prefix=p",
		EnvVars: []string{"REGISTRATION_STORE"},
	}
	flagContentStore = &cli.StringFlag{
		Name:    "content-store",
		Value:   "ipfs://127.0.0.1:5001/",
		Usage:   "where item info documents are kept: ipfs://, file://, s3:// or vault:// URI; add cache=true to cache reads",
		EnvVars: []string{"CONTENT_STORE"},
	}
)

var cliFlags = append([]cli.Flag{
	flagListenAddr,
	flags.Web3EndpointFlag,
	flags.ContractAddressFlag,
	flags.ContractABIFlag,
	flagRegistrationStore,
	flagContentStore,
	flags.CORSOriginsFlag,
	flags.LogServiceFlagFn("review-gateway"),
}, flags.CommonFlags...)

func main() {
	// Values from .env act as defaults for the flag EnvVars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	app := &cli.App{
		Name:  "review-gateway",
		Usage: "Serve the review gateway API in front of the review contract and the content store",
		Flags: cliFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			ctx := cCtx.Context

			contractAddress, err := flags.ParseAddress(flags.ContractAddressFlag.Name, cCtx.String(flags.ContractAddressFlag.Name))
			if err != nil {
				return err
			}

			contractABI, err := contract.LoadABI(cCtx.String(flags.ContractABIFlag.Name))
			if err != nil {
				logger.Error("Failed to load contract ABI", "err", err)
				return err
			}

			web3Endpoint := cCtx.String(flags.Web3EndpointFlag.Name)
			logger.Info("Connecting to Ethereum RPC", "address", web3Endpoint)
			ethClient, err := ethclient.DialContext(ctx, web3Endpoint)
			if err != nil {
				logger.Error("Failed to dial RPC", "err", err)
				return err
			}
			defer ethClient.Close()

			reviewContract := contract.NewClient(ethClient, contractABI, contractAddress, logger)
			if !reviewContract.Connected(ctx) {
				logger.Warn("Ethereum RPC is not answering yet, readiness will report it", "address", web3Endpoint)
			}

			backend, err := registration.NewBackendFromURI(ctx, cCtx.String(flagRegistrationStore.Name), logger)
			if err != nil {
				logger.Error("Invalid registration store", "err", err)
				return err
			}
			if closer, ok := backend.(io.Closer); ok {
				defer closer.Close()
			}
			registrations := registration.NewService(registration.NewStore(backend, logger), logger)

			content, err := storage.NewStorageBackendFactory(logger).StorageBackendFor(cCtx.String(flagContentStore.Name))
			if err != nil {
				logger.Error("Invalid content store", "err", err)
				return err
			}
			if !content.Available(ctx) {
				logger.Warn("Content store is not available", "backend", content.Name())
			}

			handler := httpserver.NewHandler(reviewContract, registrations, content, logger)
			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flagListenAddr.Name))
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server",
				"contract", contractAddress.Hex(),
				"registrationStore", backend.Name(),
				"contentStore", content.LocationURI())
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")
			return nil
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
