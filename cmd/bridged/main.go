package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/asset-custody-bridge/archive"
	"github.com/ruteri/asset-custody-bridge/cmd/flags"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/devnet"
	"github.com/ruteri/asset-custody-bridge/governance"
	"github.com/ruteri/asset-custody-bridge/httpserver"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/storage"
	"github.com/urfave/cli/v2"
)

var (
	flagListenAddr = &cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	}
	flagOwner = &cli.StringFlag{
		Name:     "owner",
		Required: true,
		Usage:    "owner of every deployed contract, also the asset minter",
	}
	flagController = &cli.StringFlag{
		Name:     "controller",
		Required: true,
		Usage:    "bridge controller allowed to pause and sweep ether",
	}
	flagAdmin = &cli.StringFlag{
		Name:     "admin",
		Required: true,
		Usage:    "timelock admin",
	}
	flagSignerKeys = &cli.StringSliceFlag{
		Name:  "signer-key",
		Usage: "hex private key of an initial signer, repeatable",
	}
	flagSignerKeyFiles = &cli.StringSliceFlag{
		Name:  "signer-key-file",
		Usage: "encrypted keystore of an initial signer, repeatable (passphrase from SIGNER_PASSPHRASE)",
	}
	flagArchiveURIs = &cli.StringSliceFlag{
		Name:  "archive-uri",
		Usage: "storage location for event log snapshots (file://, s3://, ipfs://, vault://), repeatable",
	}
	flagArchiveHead = &cli.StringFlag{
		Name:  "archive-head",
		Usage: "snapshot id to continue the archive chain from",
	}
	flagArchiveInterval = &cli.DurationFlag{
		Name:  "archive-interval",
		Value: time.Minute,
		Usage: "how often to snapshot new events",
	}
	flagDelay = &cli.DurationFlag{
		Name:  "delay",
		Value: governance.MinimumDelay,
		Usage: "timelock delay",
	}
)

func main() {
	app := &cli.App{
		Name:  "bridged",
		Usage: "Serve an in-memory asset custody deployment",
		Flags: append([]cli.Flag{
			flagListenAddr,
			flagOwner,
			flagController,
			flagAdmin,
			flagSignerKeys,
			flagSignerKeyFiles,
			flagDelay,
			flagArchiveURIs,
			flagArchiveHead,
			flagArchiveInterval,
			flags.LogServiceFlagFn("bridged"),
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			owner, err := interfaces.ParseAddress(cCtx.String(flagOwner.Name))
			if err != nil {
				return fmt.Errorf("invalid owner: %w", err)
			}
			controller, err := interfaces.ParseAddress(cCtx.String(flagController.Name))
			if err != nil {
				return fmt.Errorf("invalid controller: %w", err)
			}
			admin, err := interfaces.ParseAddress(cCtx.String(flagAdmin.Name))
			if err != nil {
				return fmt.Errorf("invalid admin: %w", err)
			}

			var signers []common.Address
			for _, key := range cCtx.StringSlice(flagSignerKeys.Name) {
				s, err := cryptoutils.NewSignerFromHex(key)
				if err != nil {
					return fmt.Errorf("invalid signer key: %w", err)
				}
				signers = append(signers, s.Address())
			}
			for _, path := range cCtx.StringSlice(flagSignerKeyFiles.Name) {
				s, err := loadKeystore(path)
				if err != nil {
					return fmt.Errorf("invalid signer keystore %s: %w", path, err)
				}
				signers = append(signers, s.Address())
			}
			if len(signers) == 0 {
				s, err := cryptoutils.GenerateSigner()
				if err != nil {
					return err
				}
				logger.Warn("No signer key given, generated one", "signer", s.Address())
				fmt.Fprintf(os.Stderr, "generated signer key: %s\n", s.PrivateKeyHex())
				signers = append(signers, s.Address())
			}

			net, err := devnet.New(devnet.Config{
				Owner:      owner,
				Controller: controller,
				Admin:      admin,
				Signers:    signers,
				Delay:      cCtx.Duration(flagDelay.Name),
			}, logger)
			if err != nil {
				logger.Error("Failed to deploy devnet", "err", err)
				return err
			}
			for name, addr := range net.Contracts() {
				logger.Info("Contract deployed", "name", name, "address", addr)
			}

			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flagListenAddr.Name))
			server, err := httpserver.New(cfg, httpserver.NewHandler(net, logger))
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}
			net.Env().SetObserver(server.Metrics())

			ctx, cancel := context.WithCancel(cCtx.Context)
			defer cancel()
			archiveDone := make(chan struct{})
			if uris := cCtx.StringSlice(flagArchiveURIs.Name); len(uris) > 0 {
				backend, err := storage.NewStorageBackendFactory(logger).CreateMultiBackend(uris)
				if err != nil {
					return fmt.Errorf("could not create archive storage: %w", err)
				}
				archiver := archive.New(net, backend, nil, logger)
				if raw := cCtx.String(flagArchiveHead.Name); raw != "" {
					head, err := interfaces.ParseContentID(raw)
					if err != nil {
						return fmt.Errorf("invalid archive head: %w", err)
					}
					if err := archiver.Resume(ctx, head); err != nil {
						return err
					}
				}
				go func() {
					defer close(archiveDone)
					archiver.Run(ctx, cCtx.Duration(flagArchiveInterval.Name))
				}()
			} else {
				close(archiveDone)
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			cancel()
			<-archiveDone
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadKeystore(path string) (*cryptoutils.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ek cryptoutils.EncryptedKey
	if err := json.Unmarshal(data, &ek); err != nil {
		return nil, err
	}
	return cryptoutils.DecryptSigner(&ek, []byte(os.Getenv("SIGNER_PASSPHRASE")))
}
