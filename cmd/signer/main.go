package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/asset-custody-bridge/cmd/flags"
	"github.com/ruteri/asset-custody-bridge/cryptoutils"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/registry"
	"github.com/urfave/cli/v2"
)

var (
	flagKey = &cli.StringFlag{
		Name:    "key",
		Usage:   "hex secp256k1 private key of the signer",
		EnvVars: []string{"SIGNER_KEY"},
	}
	flagKeyFile = &cli.StringFlag{
		Name:  "key-file",
		Usage: "passphrase-encrypted keystore holding the signer key (passphrase from SIGNER_PASSPHRASE)",
	}
	flagOut       = &cli.StringFlag{Name: "out", Usage: "output file, stdout if empty"}
	flagOutDir    = &cli.StringFlag{Name: "out-dir", Required: true, Usage: "directory to write shares to"}
	flagShares    = &cli.IntFlag{Name: "shares", Value: 5, Usage: "total number of key shares"}
	flagThreshold = &cli.IntFlag{Name: "threshold", Value: 3, Usage: "shares required to recover the key"}
	flagShare     = &cli.StringSliceFlag{Name: "share", Required: true, Usage: "key share file, repeatable"}

	flagCaller   = &cli.StringFlag{Name: "caller", Required: true, Usage: "account that will submit the release"}
	flagBridge   = &cli.StringFlag{Name: "bridge", Required: true, Usage: "bridge contract address"}
	flagToken    = &cli.StringFlag{Name: "token", Required: true, Usage: "fungible token address"}
	flagAsset    = &cli.StringFlag{Name: "asset", Required: true, Usage: "collection address"}
	flagStore    = &cli.StringFlag{Name: "store", Required: true, Usage: "attribute store address"}
	flagContract = &cli.StringFlag{Name: "contract", Required: true, Usage: "contract holding the signer registry"}
	flagAmount   = &cli.StringFlag{Name: "amount", Required: true, Usage: "amount in base units"}
	flagTokenID  = &cli.StringFlag{Name: "token-id", Required: true, Usage: "collectible token id"}
	flagNonce    = &cli.StringFlag{Name: "nonce", Required: true, Usage: "release nonce"}
	flagAttr     = &cli.StringSliceFlag{Name: "attr", Usage: "attribute as id=value, repeatable"}
)

func main() {
	app := &cli.App{
		Name:  "signer",
		Usage: "Sign and check release authorizations",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a new signer key",
				Action: func(cCtx *cli.Context) error {
					s, err := cryptoutils.GenerateSigner()
					if err != nil {
						return err
					}
					fmt.Printf("address: %s\nkey:     %s\n", s.Address().Hex(), s.PrivateKeyHex())
					return nil
				},
			},
			{
				Name:  "fungible",
				Usage: "Sign a fungible upChain release",
				Flags: []cli.Flag{flagKey, flagKeyFile, flagCaller, flagBridge, flagToken, flagAmount, flagNonce},
				Action: func(cCtx *cli.Context) error {
					addrs, err := parseAddresses(cCtx, flagCaller, flagBridge, flagToken)
					if err != nil {
						return err
					}
					nums, err := parseInts(cCtx, flagAmount, flagNonce)
					if err != nil {
						return err
					}
					digest, err := cryptoutils.FungibleUpChainDigest(addrs[0], addrs[1], addrs[2], nums[0], nums[1])
					return sign(cCtx, digest, err)
				},
			},
			{
				Name:  "collectible",
				Usage: "Sign a collectible upChain release",
				Flags: []cli.Flag{flagKey, flagKeyFile, flagCaller, flagBridge, flagAsset, flagTokenID, flagNonce},
				Action: func(cCtx *cli.Context) error {
					addrs, err := parseAddresses(cCtx, flagCaller, flagBridge, flagAsset)
					if err != nil {
						return err
					}
					nums, err := parseInts(cCtx, flagTokenID, flagNonce)
					if err != nil {
						return err
					}
					digest, err := cryptoutils.CollectibleUpChainDigest(addrs[0], addrs[1], addrs[2], nums[0], nums[1])
					return sign(cCtx, digest, err)
				},
			},
			{
				Name:  "reveal",
				Usage: "Sign an attribute reveal",
				Flags: []cli.Flag{flagKey, flagKeyFile, flagStore, flagTokenID, flagNonce, flagAttr},
				Action: func(cCtx *cli.Context) error {
					addrs, err := parseAddresses(cCtx, flagStore)
					if err != nil {
						return err
					}
					nums, err := parseInts(cCtx, flagTokenID, flagNonce)
					if err != nil {
						return err
					}
					ids, values, err := parseAttributes(cCtx.StringSlice(flagAttr.Name))
					if err != nil {
						return err
					}
					digest, err := cryptoutils.RevealDigest(addrs[0], nums[0], nums[1], ids, values)
					return sign(cCtx, digest, err)
				},
			},
			{
				Name:  "encrypt",
				Usage: "Seal a signer key with the passphrase from SIGNER_PASSPHRASE",
				Flags: []cli.Flag{flagKey, flagOut},
				Action: func(cCtx *cli.Context) error {
					s, err := cryptoutils.NewSignerFromHex(cCtx.String(flagKey.Name))
					if err != nil {
						return err
					}
					ek, err := cryptoutils.EncryptSigner(s, passphrase())
					if err != nil {
						return err
					}
					return writeJSON(cCtx.String(flagOut.Name), ek)
				},
			},
			{
				Name:  "split",
				Usage: "Split a signer key into Shamir shares",
				Flags: []cli.Flag{flagKey, flagKeyFile, flagOutDir, flagShares, flagThreshold},
				Action: func(cCtx *cli.Context) error {
					s, err := loadSigner(cCtx)
					if err != nil {
						return err
					}
					shares, err := cryptoutils.SplitSigner(s, cCtx.Int(flagShares.Name), cCtx.Int(flagThreshold.Name))
					if err != nil {
						return err
					}
					dir := cCtx.String(flagOutDir.Name)
					if err := os.MkdirAll(dir, 0o700); err != nil {
						return err
					}
					for i, share := range shares {
						path := filepath.Join(dir, fmt.Sprintf("share-%d.json", i+1))
						if err := writeJSON(path, share); err != nil {
							return err
						}
						fmt.Println(path)
					}
					return nil
				},
			},
			{
				Name:  "combine",
				Usage: "Recover a signer key from Shamir shares",
				Flags: []cli.Flag{flagShare, flagOut},
				Action: func(cCtx *cli.Context) error {
					var shares []cryptoutils.KeyShare
					for _, path := range cCtx.StringSlice(flagShare.Name) {
						var share cryptoutils.KeyShare
						if err := readJSON(path, &share); err != nil {
							return err
						}
						shares = append(shares, share)
					}
					s, err := cryptoutils.CombineShares(shares)
					if err != nil {
						return err
					}
					if out := cCtx.String(flagOut.Name); out != "" {
						ek, err := cryptoutils.EncryptSigner(s, passphrase())
						if err != nil {
							return err
						}
						return writeJSON(out, ek)
					}
					fmt.Printf("address: %s\nkey:     %s\n", s.Address().Hex(), s.PrivateKeyHex())
					return nil
				},
			},
			{
				Name:  "verify-onchain",
				Usage: "Check that the key is a registered signer of a deployed contract",
				Flags: []cli.Flag{flagKey, flagKeyFile, flagContract, flags.RpcAddrFlag},
				Action: func(cCtx *cli.Context) error {
					s, err := loadSigner(cCtx)
					if err != nil {
						return err
					}
					addrs, err := parseAddresses(cCtx, flagContract)
					if err != nil {
						return err
					}
					client, err := ethclient.Dial(cCtx.String(flags.RpcAddrFlag.Name))
					if err != nil {
						return fmt.Errorf("could not dial RPC: %w", err)
					}
					defer client.Close()

					reader, err := registry.NewOnchainSignerClient(client, addrs[0])
					if err != nil {
						return err
					}
					ctx, cancel := context.WithTimeout(cCtx.Context, 30*time.Second)
					defer cancel()
					if err := registry.RequireSigner(ctx, reader, s.Address()); err != nil {
						return err
					}
					fmt.Printf("%s is a registered signer of %s\n", s.Address().Hex(), addrs[0].Hex())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func sign(cCtx *cli.Context, digest common.Hash, digestErr error) error {
	if digestErr != nil {
		return digestErr
	}
	s, err := loadSigner(cCtx)
	if err != nil {
		return err
	}
	sig, err := s.SignDigest(digest)
	if err != nil {
		return err
	}
	fmt.Printf("signer:    %s\ndigest:    %s\nsignature: %s\n", s.Address().Hex(), digest.Hex(), hexutil.Encode(sig))
	return nil
}

func passphrase() []byte {
	return []byte(os.Getenv("SIGNER_PASSPHRASE"))
}

func loadSigner(cCtx *cli.Context) (*cryptoutils.Signer, error) {
	if path := cCtx.String(flagKeyFile.Name); path != "" {
		var ek cryptoutils.EncryptedKey
		if err := readJSON(path, &ek); err != nil {
			return nil, err
		}
		return cryptoutils.DecryptSigner(&ek, passphrase())
	}
	if cCtx.String(flagKey.Name) == "" {
		return nil, fmt.Errorf("one of --%s or --%s is required", flagKey.Name, flagKeyFile.Name)
	}
	return cryptoutils.NewSignerFromHex(cCtx.String(flagKey.Name))
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func parseAddresses(cCtx *cli.Context, fs ...*cli.StringFlag) ([]common.Address, error) {
	out := make([]common.Address, 0, len(fs))
	for _, f := range fs {
		addr, err := interfaces.ParseAddress(cCtx.String(f.Name))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.Name, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseInts(cCtx *cli.Context, fs ...*cli.StringFlag) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(fs))
	for _, f := range fs {
		v, err := interfaces.ParseUint256(cCtx.String(f.Name))
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseAttributes(pairs []string) (ids, values []*big.Int, err error) {
	ids = make([]*big.Int, 0, len(pairs))
	values = make([]*big.Int, 0, len(pairs))
	for _, pair := range pairs {
		rawID, rawValue, found := strings.Cut(pair, "=")
		if !found {
			return nil, nil, fmt.Errorf("attribute %q is not id=value", pair)
		}
		id, err := interfaces.ParseUint256(rawID)
		if err != nil {
			return nil, nil, err
		}
		value, err := interfaces.ParseUint256(rawValue)
		if err != nil {
			return nil, nil, err
		}
		if !interfaces.IsUint(id, 128) || !interfaces.IsUint(value, 128) {
			return nil, nil, fmt.Errorf("attribute %q exceeds uint128", pair)
		}
		ids = append(ids, id)
		values = append(values, value)
	}
	return ids, values, nil
}
