package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/asset-custody-bridge/api"
	"github.com/ruteri/asset-custody-bridge/archive"
	"github.com/ruteri/asset-custody-bridge/api/clients"
	"github.com/ruteri/asset-custody-bridge/chain"
	"github.com/ruteri/asset-custody-bridge/cmd/flags"
	"github.com/ruteri/asset-custody-bridge/devnet"
	"github.com/ruteri/asset-custody-bridge/governance"
	"github.com/ruteri/asset-custody-bridge/interfaces"
	"github.com/ruteri/asset-custody-bridge/storage"
	"github.com/urfave/cli/v2"
)

var (
	flagFrom      = &cli.StringFlag{Name: "from", Required: true, Usage: "account sending the call"}
	flagTo        = &cli.StringFlag{Name: "to", Required: true, Usage: "called contract"}
	flagTimelock  = &cli.StringFlag{Name: "timelock", Usage: "timelock address, looked up from the deployment if unset"}
	flagTarget    = &cli.StringFlag{Name: "target", Required: true, Usage: "contract the timelock calls"}
	flagValue     = &cli.StringFlag{Name: "value", Value: "0", Usage: "native value in wei"}
	flagSignature = &cli.StringFlag{Name: "signature", Usage: "function signature, e.g. setSigner(address,bool)"}
	flagArgs      = &cli.StringSliceFlag{Name: "arg", Usage: "function argument, repeatable, arrays comma separated"}
	flagEta       = &cli.Int64Flag{Name: "eta", Required: true, Usage: "unix time the transaction becomes executable"}
	flagURIs      = &cli.StringSliceFlag{Name: "uri", Required: true, Usage: "archive storage location, repeatable"}
	flagHead      = &cli.StringFlag{Name: "head", Required: true, Usage: "newest snapshot id"}
	flagFromIndex = &cli.IntFlag{Name: "from-index", Value: 0, Usage: "first event index"}
)

var txFlags = []cli.Flag{flagTimelock, flagTarget, flagValue, flagSignature, flagArgs, flagEta}

func main() {
	app := &cli.App{
		Name:  "admin",
		Usage: "Operate a running bridged instance",
		Flags: []cli.Flag{flags.ServerAddrFlag},
		Commands: []*cli.Command{
			{
				Name:  "deployment",
				Usage: "Print deployed contract addresses",
				Action: func(cCtx *cli.Context) error {
					resp, err := client(cCtx).Deployment(cCtx.Context)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "tx-hash",
				Usage: "Print the queue hash of a timelock transaction",
				Flags: txFlags,
				Action: func(cCtx *cli.Context) error {
					tx, err := transaction(cCtx)
					if err != nil {
						return err
					}
					hash, err := tx.Hash()
					if err != nil {
						return err
					}
					fmt.Println(hash.Hex())
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Print the state of a timelock transaction",
				Flags: txFlags,
				Action: func(cCtx *cli.Context) error {
					tx, err := transaction(cCtx)
					if err != nil {
						return err
					}
					hash, err := tx.Hash()
					if err != nil {
						return err
					}
					timelock, err := timelockAddress(cCtx)
					if err != nil {
						return err
					}
					resp, err := client(cCtx).TimelockTransaction(cCtx.Context, timelock, hash)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			timelockCommand("queue", "Queue a timelock transaction", governance.QueueSignature),
			timelockCommand("execute", "Execute a queued timelock transaction", governance.ExecuteSignature),
			timelockCommand("cancel", "Cancel a queued timelock transaction", governance.CancelSignature),
			{
				Name:  "call",
				Usage: "Send a call to any contract",
				Flags: []cli.Flag{flagFrom, flagTo, flagValue, flagSignature, flagArgs},
				Action: func(cCtx *cli.Context) error {
					from, err := interfaces.ParseAddress(cCtx.String(flagFrom.Name))
					if err != nil {
						return err
					}
					to, err := interfaces.ParseAddress(cCtx.String(flagTo.Name))
					if err != nil {
						return err
					}
					value, err := interfaces.ParseUint256(cCtx.String(flagValue.Name))
					if err != nil {
						return err
					}
					var input []byte
					if sig := cCtx.String(flagSignature.Name); sig != "" {
						args, err := chain.ParseArgs(sig, cCtx.StringSlice(flagArgs.Name))
						if err != nil {
							return err
						}
						if input, err = chain.EncodeCall(sig, args...); err != nil {
							return err
						}
					}
					return send(cCtx, from, to, value, input)
				},
			},
			{
				Name:  "events",
				Usage: "Print the event log",
				Flags: []cli.Flag{flagFromIndex},
				Action: func(cCtx *cli.Context) error {
					resp, err := client(cCtx).Events(cCtx.Context, cCtx.Int(flagFromIndex.Name))
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "archive-show",
				Usage: "Print archived events, newest snapshot first",
				Flags: []cli.Flag{flagURIs, flagHead},
				Action: func(cCtx *cli.Context) error {
					head, err := interfaces.ParseContentID(cCtx.String(flagHead.Name))
					if err != nil {
						return err
					}
					backend, err := storage.NewStorageBackendFactory(slog.Default()).CreateMultiBackend(cCtx.StringSlice(flagURIs.Name))
					if err != nil {
						return err
					}
					return archive.Walk(cCtx.Context, backend, head, func(id interfaces.ContentID, snap *archive.Snapshot) error {
						fmt.Printf("# snapshot %s events [%d, %d)\n", id, snap.From, snap.Next)
						return printJSON(snap.Events)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func timelockCommand(name, usage, method string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: append([]cli.Flag{flagFrom}, txFlags...),
		Action: func(cCtx *cli.Context) error {
			from, err := interfaces.ParseAddress(cCtx.String(flagFrom.Name))
			if err != nil {
				return err
			}
			tx, err := transaction(cCtx)
			if err != nil {
				return err
			}
			timelock, err := timelockAddress(cCtx)
			if err != nil {
				return err
			}
			input, err := chain.EncodeCall(method, tx.Target, tx.Value, tx.Signature, tx.Data, tx.Eta)
			if err != nil {
				return err
			}
			value := new(big.Int)
			if method == governance.ExecuteSignature {
				value = tx.Value
			}
			return send(cCtx, from, timelock, value, input)
		},
	}
}

func client(cCtx *cli.Context) *clients.BridgeClient {
	return clients.NewBridgeClient(cCtx.String(flags.ServerAddrFlag.Name))
}

func transaction(cCtx *cli.Context) (governance.Transaction, error) {
	target, err := interfaces.ParseAddress(cCtx.String(flagTarget.Name))
	if err != nil {
		return governance.Transaction{}, fmt.Errorf("--target: %w", err)
	}
	value, err := interfaces.ParseUint256(cCtx.String(flagValue.Name))
	if err != nil {
		return governance.Transaction{}, fmt.Errorf("--value: %w", err)
	}
	signature := cCtx.String(flagSignature.Name)
	var data []byte
	if signature != "" {
		args, err := chain.ParseArgs(signature, cCtx.StringSlice(flagArgs.Name))
		if err != nil {
			return governance.Transaction{}, err
		}
		if data, err = chain.EncodeArgs(signature, args...); err != nil {
			return governance.Transaction{}, err
		}
	}
	return governance.Transaction{
		Target:    target,
		Value:     value,
		Signature: signature,
		Data:      data,
		Eta:       big.NewInt(cCtx.Int64(flagEta.Name)),
	}, nil
}

func timelockAddress(cCtx *cli.Context) (common.Address, error) {
	if raw := cCtx.String(flagTimelock.Name); raw != "" {
		return interfaces.ParseAddress(raw)
	}
	resp, err := client(cCtx).Deployment(cCtx.Context)
	if err != nil {
		return common.Address{}, fmt.Errorf("could not look up timelock: %w", err)
	}
	addr, found := resp.Contracts[devnet.ContractTimelock]
	if !found {
		return common.Address{}, fmt.Errorf("deployment has no %s", devnet.ContractTimelock)
	}
	return addr, nil
}

func send(cCtx *cli.Context, from, to common.Address, value *big.Int, input []byte) error {
	resp, err := client(cCtx).Call(cCtx.Context, &api.CallRequest{
		From:  from,
		To:    to,
		Value: (*hexutil.Big)(value),
		Input: input,
	})
	if err != nil {
		return fmt.Errorf("call reverted (%s): %w", interfaces.KindOf(err), err)
	}
	return printJSON(resp)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

